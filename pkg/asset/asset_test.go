package asset

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleOBJ = `# one triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`

func TestParseOBJTriangle(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(triangleOBJ))
	require.NoError(t, err)

	assert.Equal(t, 3, m.PointCount)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, m.Points)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1}, m.TexCoords)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, m.Normals)
	assert.True(t, m.HasTexCoords())
	assert.True(t, m.HasNormals())

	lo, hi := m.Bounds()
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, lo)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, hi)
}

func TestParseOBJQuadIsFanTriangulated(t *testing.T) {
	src := `
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
o quad
usemtl none
s off
f 1 2 3 4
`
	m, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 6, m.PointCount)
	assert.Equal(t, []float32{
		-1, -1, 0, 1, -1, 0, 1, 1, 0,
		-1, -1, 0, 1, 1, 0, -1, 1, 0,
	}, m.Points)
	assert.False(t, m.HasTexCoords())
	assert.False(t, m.HasNormals())

	normals := m.FlatNormals()
	require.Len(t, normals, 6*3)
	for i := 0; i < len(normals); i += 3 {
		assert.Equal(t, []float32{0, 0, 1}, normals[i:i+3], "vertex %d", i/3)
	}
}

func TestFlatNormalsDegenerateTriangle(t *testing.T) {
	src := `
v 0 0 0
v 1 1 1
v 2 2 2
v 0 0 0
v 0 0 -1
v 1 0 0
f 1 2 3
f 4 6 5
`
	m, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []float32{
		0, 1, 0, 0, 1, 0, 0, 1, 0,
		0, 1, 0, 0, 1, 0, 0, 1, 0,
	}, m.FlatNormals())
}

func TestParseOBJNormalsWithoutTexCoords(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 -1
f 1//1 2//1 3//1
`
	m, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.False(t, m.HasTexCoords())
	assert.Equal(t, []float32{0, 0, -1, 0, 0, -1, 0, 0, -1}, m.Normals)
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 2 0 0
v 0 2 0
f -3 -2 -1
`
	m, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 2, 0, 0, 0, 2, 0}, m.Points)
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad number", "v 0 x 0\n", "line 1"},
		{"short vertex", "v 0 0\n", "expected 3 values"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", "out of range"},
		{"degenerate face", "v 0 0 0\nf 1 1\n", "at least 3"},
		{"bad reference", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n", "invalid face vertex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ParseOBJ(strings.NewReader("v 0 0 0\n"))
	assert.ErrorIs(t, err, ErrEmptyMesh)
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	require.NoError(t, os.WriteFile(path, []byte(triangleOBJ), 0o644))

	m, err := LoadOBJ(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.PointCount)

	_, err = LoadOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 64, 1024} {
		assert.True(t, IsPowerOfTwo(n), n)
	}
	for _, n := range []int{0, -2, 3, 100, 1023} {
		assert.False(t, IsPowerOfTwo(n), n)
	}
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadImageRGBA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	writePNG(t, path, 4, 2, color.NRGBA{R: 255, A: 255})

	img, err := LoadImageRGBA(path, nil)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Rect)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(3, 1))

	_, err = LoadImageRGBA(filepath.Join(t.TempDir(), "nope.png"), nil)
	assert.Error(t, err)
}

func TestToRGBAResetsOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 8))
	src.SetRGBA(5, 5, color.RGBA{G: 200, A: 255})

	dst := ToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 3), dst.Rect)
	assert.Equal(t, color.RGBA{G: 200, A: 255}, dst.RGBAAt(0, 0))
}

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	img.SetRGBA(0, 0, color.RGBA{R: 1, A: 255})
	img.SetRGBA(0, 1, color.RGBA{R: 2, A: 255})
	img.SetRGBA(0, 2, color.RGBA{R: 3, A: 255})

	FlipVertical(img)
	assert.Equal(t, uint8(3), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(2), img.RGBAAt(0, 1).R)
	assert.Equal(t, uint8(1), img.RGBAAt(0, 2).R)
}

func TestLoadCubeFaces(t *testing.T) {
	dir := t.TempDir()
	faces := CubeFaces{
		Front: "f.png", Back: "b.png", Top: "t.png",
		Bottom: "d.png", Left: "l.png", Right: "r.png",
	}
	for i, name := range faces.Ordered() {
		writePNG(t, filepath.Join(dir, name), 8, 8, color.NRGBA{R: uint8(i), A: 255})
	}

	imgs, err := LoadCubeFaces(dir, faces, nil)
	require.NoError(t, err)
	for i, img := range imgs {
		require.NotNil(t, img)
		assert.Equal(t, uint8(i), img.RGBAAt(0, 0).R, "face %d in target order", i)
	}
}

func TestLoadCubeFacesRejectsMismatchedSizes(t *testing.T) {
	dir := t.TempDir()
	faces := CubeFaces{
		Front: "f.png", Back: "b.png", Top: "t.png",
		Bottom: "d.png", Left: "l.png", Right: "r.png",
	}
	for _, name := range faces.Ordered() {
		writePNG(t, filepath.Join(dir, name), 8, 8, color.White)
	}
	writePNG(t, filepath.Join(dir, "t.png"), 16, 16, color.White)

	_, err := LoadCubeFaces(dir, faces, nil)
	assert.ErrorIs(t, err, ErrFaceSize)
}

func TestDefaultCubeFacesOrder(t *testing.T) {
	assert.Equal(t,
		[6]string{"posx.jpg", "negx.jpg", "posy.jpg", "negy.jpg", "posz.jpg", "negz.jpg"},
		DefaultCubeFaces().Ordered())
}
