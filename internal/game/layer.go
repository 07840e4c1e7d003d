package game

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"crazycars/internal/assets"
)

// Layer is one image drawn as a textured quad: a track layer placed at a
// fixed world position or a car sprite moved every frame.
type Layer struct {
	Pixels []uint8 // NRGBA8, straight alpha
	W, H   int

	Tex uint32 // OpenGL texture id (created lazily)

	NeedsUpload bool
}

func NewLayer(img image.Image) *Layer {
	n := assets.NRGBA(img)
	w, h := n.Rect.Dx(), n.Rect.Dy()
	pix := n.Pix
	if n.Stride != w*4 {
		pix = make([]uint8, 0, w*h*4)
		for y := 0; y < h; y++ {
			pix = append(pix, n.Pix[y*n.Stride:y*n.Stride+w*4]...)
		}
	}
	return &Layer{Pixels: pix, W: w, H: h, NeedsUpload: true}
}

// EnsureTexture creates the GL texture for a layer if it doesn't have one yet.
func (r *Renderer) EnsureTexture(l *Layer) {
	if l.Tex != 0 {
		return
	}
	gl.GenTextures(1, &l.Tex)
	gl.BindTexture(gl.TEXTURE_2D, l.Tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(l.W), int32(l.H), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(l.Pixels),
	)
	l.NeedsUpload = false
}

// UploadLayer re-uploads pixel data for a layer whose texture already exists.
func (r *Renderer) UploadLayer(l *Layer) {
	r.EnsureTexture(l)
	gl.BindTexture(gl.TEXTURE_2D, l.Tex)
	gl.TexSubImage2D(
		gl.TEXTURE_2D, 0, 0, 0,
		int32(l.W), int32(l.H),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(l.Pixels),
	)
	l.NeedsUpload = false
}

func (r *Renderer) DeleteLayer(l *Layer) {
	if l != nil && l.Tex != 0 {
		gl.DeleteTextures(1, &l.Tex)
		l.Tex = 0
	}
}

// DrawLayer renders l with its top-left corner at (x, y), rotated about its
// centre by heading degrees counter-clockwise on screen.
func (r *Renderer) DrawLayer(l *Layer, x, y, heading float64) {
	if l == nil {
		return
	}
	if l.NeedsUpload {
		r.UploadLayer(l)
	}
	gl.UseProgram(r.layerProg)
	gl.BindVertexArray(r.layerVAO)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform2f(r.uOrigin, float32(x), float32(y))
	gl.Uniform2f(r.uSize, float32(l.W), float32(l.H))
	gl.Uniform1f(r.uRotation, float32(-heading*degToRad))
	gl.BindTexture(gl.TEXTURE_2D, l.Tex)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}
