package models

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrNoImages is returned by LoadTexturePack for files without images.
var ErrNoImages = errors.New("no images in file")

// Load loads a GLTF or GLB file and returns a Mesh. Every primitive becomes
// a run of faces using the primitive's material.
func Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for i, mat := range doc.Materials {
		m, err := loadMaterial(doc, filepath.Dir(path), mat)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		mesh.Materials = append(mesh.Materials, m)
	}

	// Process all meshes in the document
	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}
	if !hasNormals {
		mesh.CalculateNormals()
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func loadMaterial(doc *gltf.Document, dir string, mat *gltf.Material) (Material, error) {
	m := Material{Name: mat.Name, BaseColor: [4]float64{1, 1, 1, 1}}
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return m, nil
	}
	if pbr.BaseColorFactor != nil {
		m.BaseColor = *pbr.BaseColorFactor
	}
	if pbr.BaseColorTexture == nil || pbr.BaseColorTexture.Index >= len(doc.Textures) {
		return m, nil
	}
	src := doc.Textures[pbr.BaseColorTexture.Index].Source
	if src == nil {
		return m, nil
	}
	img, err := decodeImage(doc, dir, *src)
	if err != nil {
		return m, err
	}
	m.Texture = img
	return m, nil
}

// processMesh extracts geometry from a GLTF mesh.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		baseVertex := len(mesh.Vertices)
		for i := range positions {
			v := MeshVertex{Position: positions[i]}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				v.UV = uvs[i]
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{Material: material}
			for j := range 3 {
				idx := indices[i+j]
				if idx < 0 || idx >= len(positions) {
					return fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
				}
				f.V[j] = baseVertex + idx
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("no accessor %d", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v", accessor.Type)
	}

	floats, err := readFloats(doc, accessor, 3)
	if err != nil {
		return nil, err
	}

	result := make([]Vec3, accessor.Count)
	for i := range result {
		result[i] = V3(floats[i*3], floats[i*3+1], floats[i*3+2])
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]Vec2, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("no accessor %d", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC2, got %v", accessor.Type)
	}

	floats, err := readFloats(doc, accessor, 2)
	if err != nil {
		return nil, err
	}

	result := make([]Vec2, accessor.Count)
	for i := range result {
		result[i] = V2(floats[i*2], floats[i*2+1])
	}
	return result, nil
}

// readIndices reads index data from a scalar GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("no accessor %d", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		switch size {
		case 1:
			result[i] = int(b[0])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return result, nil
}

func readFloats(doc *gltf.Document, accessor *gltf.Accessor, n int) ([]float32, error) {
	data, stride, err := accessorBytes(doc, accessor, n*4)
	if err != nil {
		return nil, err
	}
	result := make([]float32, accessor.Count*n)
	for i := range accessor.Count {
		for j := range n {
			bits := binary.LittleEndian.Uint32(data[i*stride+j*4:])
			result[i*n+j] = math.Float32frombits(bits)
		}
	}
	return result, nil
}

// accessorBytes returns the accessor's bytes starting at its first element
// and the distance between elements of elemSize bytes.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, errors.New("accessor has no buffer view")
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, errors.New("buffer has no data")
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bufferView.ByteOffset + accessor.ByteOffset
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if end > len(buffer.Data) {
			return nil, 0, fmt.Errorf("accessor needs %d bytes, buffer has %d", end, len(buffer.Data))
		}
	}
	return buffer.Data[start:], stride, nil
}

// decodeImage decodes image i of the document from a buffer view, a data
// URI or a file next to the document.
func decodeImage(doc *gltf.Document, dir string, i int) (image.Image, error) {
	if i < 0 || i >= len(doc.Images) {
		return nil, fmt.Errorf("no image %d", i)
	}
	img := doc.Images[i]

	var data []byte
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if bv.ByteOffset+bv.ByteLength > len(buf.Data) {
			return nil, fmt.Errorf("image %d: buffer view out of range", i)
		}
		data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case strings.HasPrefix(img.URI, "data:"):
		_, enc, ok := strings.Cut(img.URI, ",")
		if !ok {
			return nil, fmt.Errorf("image %d: malformed data URI", i)
		}
		var err error
		if data, err = base64.StdEncoding.DecodeString(enc); err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
	case img.URI != "":
		var err error
		if data, err = os.ReadFile(filepath.Join(dir, img.URI)); err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
	default:
		return nil, fmt.Errorf("image %d has no data", i)
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %d: %w", i, err)
	}
	return decoded, nil
}

// LoadTexturePack decodes every image of a glTF or GLB file in document
// order.
func LoadTexturePack(path string) ([]image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	if len(doc.Images) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoImages)
	}

	images := make([]image.Image, len(doc.Images))
	for i := range doc.Images {
		if images[i], err = decodeImage(doc, filepath.Dir(path), i); err != nil {
			return nil, err
		}
	}
	return images, nil
}

// Document converts the mesh to a glTF document with one primitive per
// material. Material textures are embedded as PNG images, in material
// order.
func (m *Mesh) Document() (*gltf.Document, error) {
	doc := gltf.NewDocument()

	for _, mat := range m.Materials {
		color := mat.BaseColor
		pbr := &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		}
		if mat.Texture != nil {
			var buf bytes.Buffer
			if err := png.Encode(&buf, mat.Texture); err != nil {
				return nil, fmt.Errorf("encode texture %q: %w", mat.Name, err)
			}
			img, err := modeler.WriteImage(doc, mat.Name+".png", "image/png", &buf)
			if err != nil {
				return nil, fmt.Errorf("write texture %q: %w", mat.Name, err)
			}
			doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
			pbr.BaseColorTexture = &gltf.TextureInfo{Index: len(doc.Textures) - 1}
		}
		doc.Materials = append(doc.Materials, &gltf.Material{Name: mat.Name, PBRMetallicRoughness: pbr})
	}

	// faces grouped by material, in order of first use
	groups := make(map[int][]Face)
	var order []int
	for _, f := range m.Faces {
		if _, ok := groups[f.Material]; !ok {
			order = append(order, f.Material)
		}
		groups[f.Material] = append(groups[f.Material], f)
	}

	var prims []*gltf.Primitive
	for _, mi := range order {
		prim, err := m.primitive(doc, groups[mi])
		if err != nil {
			return nil, err
		}
		if mi >= 0 && mi < len(m.Materials) {
			prim.Material = gltf.Index(mi)
		}
		prims = append(prims, prim)
	}

	doc.Meshes = []*gltf.Mesh{{Name: m.Name, Primitives: prims}}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

func (m *Mesh) primitive(doc *gltf.Document, faces []Face) (*gltf.Primitive, error) {
	remap := make(map[int]uint32)
	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
		indices   []uint32
	)
	for _, f := range faces {
		for _, vi := range f.V {
			if vi < 0 || vi >= len(m.Vertices) {
				return nil, fmt.Errorf("face refers to vertex %d of %d", vi, len(m.Vertices))
			}
			j, ok := remap[vi]
			if !ok {
				j = uint32(len(positions))
				remap[vi] = j
				v := m.Vertices[vi]
				positions = append(positions, v.Position.array())
				normals = append(normals, v.Normal.array())
				uvs = append(uvs, [2]float32{v.UV.X, v.UV.Y})
			}
			indices = append(indices, j)
		}
	}

	return &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION:   modeler.WritePosition(doc, positions),
			gltf.NORMAL:     modeler.WriteNormal(doc, normals),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
		},
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
	}, nil
}

// SaveGLB writes the mesh to path as a binary glTF file.
func (m *Mesh) SaveGLB(path string) error {
	doc, err := m.Document()
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}
