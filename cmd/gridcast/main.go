// gridcast - first-person grid levels in your terminal
// Walk fixed-point raycast levels in a terminal or a window.
//
// Controls:
//
//	W/S or arrows  - Move forward/back
//	A/D or arrows  - Turn left/right
//	Q/E            - Strafe left/right
//	Space          - Jump
//	R/F, PgUp/PgDn - Look up/down
//	Mouse drag     - Look around
//	M              - Toggle minimap
//	?/H            - Toggle HUD
//	Tab            - Switch between the simple and complex renderer
//	X              - Toggle fisheye projection
//	N              - Restart the level
//	Esc            - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/taigrr/gridcast/internal/frontend"
	"github.com/taigrr/gridcast/internal/frontend/window"
	"github.com/taigrr/gridcast/internal/game"
	"github.com/taigrr/gridcast/internal/sound/playback"
	"github.com/taigrr/gridcast/pkg/level"
	"github.com/taigrr/gridcast/pkg/models"
	"github.com/taigrr/gridcast/pkg/raycast"
	"github.com/taigrr/gridcast/pkg/render"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gridcast - first-person grid levels in your terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gridcast [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S, A/D      - Move and turn (arrows work too)\n")
		fmt.Fprintf(os.Stderr, "  Q/E           - Strafe\n")
		fmt.Fprintf(os.Stderr, "  Space         - Jump\n")
		fmt.Fprintf(os.Stderr, "  R/F           - Look up/down\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag    - Look around\n")
		fmt.Fprintf(os.Stderr, "  M             - Toggle minimap\n")
		fmt.Fprintf(os.Stderr, "  ?             - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Tab           - Switch renderer\n")
		fmt.Fprintf(os.Stderr, "  X             - Toggle fisheye\n")
		fmt.Fprintf(os.Stderr, "  N             - Restart\n")
		fmt.Fprintf(os.Stderr, "  Esc           - Quit\n")
	}
	flag.Parse()

	if *listFlag {
		fmt.Println(strings.Join(level.BuiltinNames(), "\n"))
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	closeLog, err := setupLogging(*debugFlag)
	if err != nil {
		return err
	}
	defer closeLog()

	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag)
		if err != nil {
			return err
		}
		defer stop()
	}

	l, err := loadLevel()
	if err != nil {
		return err
	}
	log.Printf("level: loaded %s (%dx%d)", l.Name, l.Width, l.Height)

	textures := render.DefaultTextures()
	if *texturesFlag != "" {
		images, err := models.LoadTexturePack(*texturesFlag)
		if err != nil {
			return fmt.Errorf("load textures: %w", err)
		}
		n := textures.Replace(images)
		log.Printf("textures: replaced %d of %d from %s", n, len(images), *texturesFlag)
	}

	if *exportFlag != "" {
		return export(l, textures, *exportFlag)
	}

	kind, err := frontend.ParseKind(*frontendFlag)
	if err != nil {
		return err
	}
	settings, err := gameSettings()
	if err != nil {
		return err
	}

	var cues game.Cues
	if *soundFlag {
		p, err := playback.Open(*volumeFlag)
		if err != nil {
			// the game runs without sound
			log.Printf("sound: %v", err)
		} else {
			defer p.Close()
			cues = p
		}
	}

	g := game.New(l, textures, cues, settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	opts := frontend.Options{
		FPS:    *fpsFlag,
		Width:  *widthFlag,
		Height: *heightFlag,
		Scale:  *scaleFlag,
		Title:  "gridcast - " + l.Name,
	}
	if kind == frontend.Window {
		err = window.Run(ctx, g, opts)
	} else {
		err = frontend.Run(ctx, kind, g, opts)
	}

	stats := g.Stats()
	log.Printf("game: exit after %s", stats.String())
	return err
}

// loadLevel generates a maze or loads -level.
func loadLevel() (*level.Level, error) {
	if *mazeFlag > 0 {
		return level.GenerateMaze(level.MazeConfig{
			Width:    *mazeFlag,
			Height:   *mazeFlag,
			Braiding: *braidFlag,
			Seed:     *seedFlag,
		}), nil
	}
	l, err := level.Open(*levelFlag)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	return l, nil
}

func gameSettings() (game.Settings, error) {
	s := game.DefaultSettings()

	r, err := game.ParseRenderer(*rendererFlag)
	if err != nil {
		return s, err
	}
	s.Renderer = r
	s.Subsample = max(*subsampleFlag, 1)
	if *fisheyeFlag {
		s.Projection = raycast.Curvilinear
	}
	s.Player.FPS = max(*fpsFlag, 1)
	return s, nil
}

// export writes the level geometry with the current wall textures.
func export(l *level.Level, textures *render.TextureSet, path string) error {
	walls := make([]image.Image, len(textures.Walls))
	for i, t := range textures.Walls {
		if t != nil {
			walls[i] = t.ToImage()
		}
	}

	mesh := models.FromLevel(l, walls)
	if err := mesh.SaveGLB(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	fmt.Printf("Exported: %s (%d vertices, %d triangles)\n", path, mesh.VertexCount(), mesh.TriangleCount())
	return nil
}
