package openglhelper

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// Texture is a 2D or cube map texture object
type Texture struct {
	ID     uint32
	Target uint32
}

// NewTexture2D uploads an RGBA image with mipmaps and repeat wrapping
func NewTexture2D(img *image.RGBA) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("texture image is nil")
	}
	t := &Texture{Target: gl.TEXTURE_2D}
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)

	uploadRGBA(gl.TEXTURE_2D, img)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// NewCubeMap uploads six faces ordered +X, -X, +Y, -Y, +Z, -Z
func NewCubeMap(faces [6]*image.RGBA) (*Texture, error) {
	t := &Texture{Target: gl.TEXTURE_CUBE_MAP}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.ID)

	for i, img := range faces {
		if img == nil {
			t.Delete()
			return nil, fmt.Errorf("cube map face %d is nil", i)
		}
		uploadRGBA(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), img)
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return t, nil
}

func uploadRGBA(target uint32, img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(target, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
}

// Bind activates a texture unit and binds the texture to it
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(t.Target, t.ID)
}

// Delete releases the texture
func (t *Texture) Delete() {
	gl.DeleteTextures(1, &t.ID)
}
