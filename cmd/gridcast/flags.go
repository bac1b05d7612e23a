package main

import "flag"

// Command-line flags. Level selection comes first, then display, then the
// one-shot tools and diagnostics.
var (
	// levelFlag is a level file or the name of a built-in level.
	levelFlag = flag.String("level", "halls", "level file (.txt or .json) or built-in level name")

	// mazeFlag generates a maze of this many squares per side instead of
	// loading a level.
	mazeFlag   = flag.Int("maze", 0, "generate a maze with this side length instead of loading -level")
	seedFlag   = flag.Int64("seed", 0, "maze seed (0 picks one)")
	braidFlag  = flag.Float64("braid", 0.1, "chance of joining a maze dead end to its neighbour (0-1)")
	listFlag   = flag.Bool("list", false, "list the built-in levels and exit")
	volumeFlag = flag.Float64("volume", 0.5, "sound volume (0-1)")

	frontendFlag  = flag.String("frontend", "terminal", "display: terminal, tcell or window")
	rendererFlag  = flag.String("renderer", "complex", "raycaster: simple or complex")
	fpsFlag       = flag.Int("fps", 30, "target frames per second")
	subsampleFlag = flag.Int("subsample", 1, "screen columns per cast ray")
	fisheyeFlag   = flag.Bool("fisheye", false, "use radial ray distances (fisheye look)")
	widthFlag     = flag.Int("width", 320, "window frontend width in pixels")
	heightFlag    = flag.Int("height", 200, "window frontend height in pixels")
	scaleFlag     = flag.Int("scale", 3, "window frontend scale")

	// soundFlag plays synthesized cues for steps, jumps, doors and the goal.
	soundFlag = flag.Bool("sound", false, "play sound effects")

	// exportFlag writes the level as a GLB model and exits.
	exportFlag = flag.String("export", "", "write the level geometry to this .glb file and exit")

	// texturesFlag replaces the built-in textures with the images of a glTF
	// file: eight walls, then door, background and sprites.
	texturesFlag = flag.String("textures", "", "glTF/GLB file whose embedded images replace the textures")

	debugFlag      = flag.Bool("debug", false, "write a debug log to logs/gridcast.log")
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")
)
