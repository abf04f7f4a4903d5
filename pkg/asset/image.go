package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrFaceSize is returned when cube map faces are not square or differ in size
var ErrFaceSize = errors.New("cube map faces must be square and equally sized")

// IsPowerOfTwo reports whether n is a positive power of two
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// LoadImageRGBA decodes an image file (PNG, JPEG, BMP, TIFF or WebP) into
// tightly packed RGBA. Images with non power-of-two dimensions still load but
// are reported on logger.
func LoadImageRGBA(path string, logger *slog.Logger) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	rgba := ToRGBA(src)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if logger != nil {
		if !IsPowerOfTwo(w) || !IsPowerOfTwo(h) {
			logger.Warn("image is not power-of-2 dimensions", "path", path, "width", w, "height", h)
		}
		logger.Debug("image loaded", "path", path, "format", format, "width", w, "height", h)
	}
	return rgba, nil
}

// ToRGBA converts any image into an *image.RGBA whose bounds start at the
// origin. An RGBA image already in that shape is returned as is.
func ToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return dst
}

// FlipVertical mirrors an image top to bottom in place. OpenGL expects the
// first row of a 2D texture to be the bottom of the image.
func FlipVertical(img *image.RGBA) {
	h := img.Rect.Dy()
	rowLen := img.Rect.Dx() * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// CubeFaces names the six image files of a sky-box
type CubeFaces struct {
	Front  string `toml:"front"`  // -Z
	Back   string `toml:"back"`   // +Z
	Top    string `toml:"top"`    // +Y
	Bottom string `toml:"bottom"` // -Y
	Left   string `toml:"left"`   // -X
	Right  string `toml:"right"`  // +X
}

// DefaultCubeFaces returns the conventional negz/posz/... file names
func DefaultCubeFaces() CubeFaces {
	return CubeFaces{
		Front:  "negz.jpg",
		Back:   "posz.jpg",
		Top:    "posy.jpg",
		Bottom: "negy.jpg",
		Left:   "negx.jpg",
		Right:  "posx.jpg",
	}
}

// Ordered returns the file names in GL cube map target order:
// +X, -X, +Y, -Y, +Z, -Z.
func (c CubeFaces) Ordered() [6]string {
	return [6]string{c.Right, c.Left, c.Top, c.Bottom, c.Back, c.Front}
}

// LoadCubeFaces loads all six faces from dir in GL target order. Faces are
// not flipped; cube maps are addressed by direction.
func LoadCubeFaces(dir string, faces CubeFaces, logger *slog.Logger) ([6]*image.RGBA, error) {
	var out [6]*image.RGBA
	size := -1
	for i, name := range faces.Ordered() {
		if name == "" {
			return out, fmt.Errorf("cube map face %d has no file name", i)
		}
		img, err := LoadImageRGBA(filepath.Join(dir, name), logger)
		if err != nil {
			return out, err
		}
		w, h := img.Rect.Dx(), img.Rect.Dy()
		if w != h || (size >= 0 && w != size) {
			return out, fmt.Errorf("%s is %dx%d: %w", name, w, h, ErrFaceSize)
		}
		size = w
		out[i] = img
	}
	return out, nil
}
