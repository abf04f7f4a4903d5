// Package asset loads the meshes and images the renderer uploads to the GPU
package asset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmptyMesh is returned when a file contains no faces
var ErrEmptyMesh = errors.New("mesh has no faces")

// MeshData is an un-indexed triangle list ready to upload as three separate
// vertex buffers. TexCoords and Normals are nil when the file has none.
type MeshData struct {
	Points     []float32 // x, y, z per vertex
	TexCoords  []float32 // u, v per vertex
	Normals    []float32 // x, y, z per vertex
	PointCount int
}

// HasTexCoords reports whether texture coordinates were present
func (m *MeshData) HasTexCoords() bool {
	return len(m.TexCoords) > 0
}

// HasNormals reports whether normals were present
func (m *MeshData) HasNormals() bool {
	return len(m.Normals) > 0
}

// Bounds returns the axis aligned bounding box of the points
func (m *MeshData) Bounds() (lo, hi mgl32.Vec3) {
	for i := 0; i+2 < len(m.Points); i += 3 {
		p := mgl32.Vec3{m.Points[i], m.Points[i+1], m.Points[i+2]}
		if i == 0 {
			lo, hi = p, p
			continue
		}
		for j := range 3 {
			if p[j] < lo[j] {
				lo[j] = p[j]
			}
			if p[j] > hi[j] {
				hi[j] = p[j]
			}
		}
	}
	return lo, hi
}

// objIndex is one corner of a face, zero based, -1 when absent
type objIndex struct {
	v, vt, vn int
}

// LoadOBJ reads a Wavefront OBJ file
func LoadOBJ(path string) (*MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mesh: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ reads OBJ geometry. Only v, vt, vn and f records are used;
// materials, groups and smoothing are skipped. Faces with more than three
// corners are fan triangulated.
func ParseOBJ(r io.Reader) (*MeshData, error) {
	var (
		positions []mgl32.Vec3
		texCoords []mgl32.Vec2
		normals   []mgl32.Vec3
		corners   []objIndex
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			vals, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, mgl32.Vec3{vals[0], vals[1], vals[2]})
		case "vt":
			vals, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			texCoords = append(texCoords, mgl32.Vec2{vals[0], vals[1]})
		case "vn":
			vals, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, mgl32.Vec3{vals[0], vals[1], vals[2]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			face := make([]objIndex, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := parseFaceRef(ref, len(positions), len(texCoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				face = append(face, idx)
			}
			for i := 1; i+1 < len(face); i++ {
				corners = append(corners, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mesh: %w", err)
	}
	if len(corners) == 0 {
		return nil, ErrEmptyMesh
	}

	return flatten(corners, positions, texCoords, normals), nil
}

func flatten(corners []objIndex, positions []mgl32.Vec3, texCoords []mgl32.Vec2, normals []mgl32.Vec3) *MeshData {
	withUV, withNormals := true, true
	for _, c := range corners {
		withUV = withUV && c.vt >= 0
		withNormals = withNormals && c.vn >= 0
	}

	mesh := &MeshData{
		Points:     make([]float32, 0, len(corners)*3),
		PointCount: len(corners),
	}
	if withUV {
		mesh.TexCoords = make([]float32, 0, len(corners)*2)
	}
	if withNormals {
		mesh.Normals = make([]float32, 0, len(corners)*3)
	}

	for _, c := range corners {
		p := positions[c.v]
		mesh.Points = append(mesh.Points, p[0], p[1], p[2])
		if withUV {
			t := texCoords[c.vt]
			mesh.TexCoords = append(mesh.TexCoords, t[0], t[1])
		}
		if withNormals {
			n := normals[c.vn]
			mesh.Normals = append(mesh.Normals, n[0], n[1], n[2])
		}
	}
	return mesh
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", fields[i], err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseFaceRef parses "v", "v/vt", "v//vn" or "v/vt/vn". OBJ indices are one
// based; negative values count back from the latest element.
func parseFaceRef(ref string, nv, nvt, nvn int) (objIndex, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return objIndex{}, fmt.Errorf("invalid face vertex %q", ref)
	}

	idx := objIndex{v: -1, vt: -1, vn: -1}
	var err error
	if idx.v, err = resolveIndex(parts[0], nv); err != nil {
		return objIndex{}, fmt.Errorf("face vertex %q: %w", ref, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if idx.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return objIndex{}, fmt.Errorf("face texcoord %q: %w", ref, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if idx.vn, err = resolveIndex(parts[2], nvn); err != nil {
			return objIndex{}, fmt.Errorf("face normal %q: %w", ref, err)
		}
	}
	return idx, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("invalid index: %w", err)
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return -1, fmt.Errorf("index %d out of range (have %d)", i, count)
}

// FlatNormals returns one face normal per vertex, for meshes loaded without
// normals. Degenerate triangles get +Y.
func (m *MeshData) FlatNormals() []float32 {
	out := make([]float32, 0, len(m.Points))
	for i := 0; i+8 < len(m.Points); i += 9 {
		a := mgl32.Vec3{m.Points[i], m.Points[i+1], m.Points[i+2]}
		b := mgl32.Vec3{m.Points[i+3], m.Points[i+4], m.Points[i+5]}
		c := mgl32.Vec3{m.Points[i+6], m.Points[i+7], m.Points[i+8]}

		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() == 0 {
			n = mgl32.Vec3{0, 1, 0}
		} else {
			n = n.Normalize()
		}
		for range 3 {
			out = append(out, n[0], n[1], n[2])
		}
	}
	return out
}
