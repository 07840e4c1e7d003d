package game

import (
	"fmt"
	"image"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"crazycars/internal/assets"
	"crazycars/internal/view"
)

const (
	degToRad = math.Pi / 180

	// MaxPointRender caps the marker buffer: debug waypoints plus recorded ones.
	MaxPointRender = 4096
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type Renderer struct {
	// Layer program.
	layerProg uint32
	layerVAO  uint32
	layerVBO  uint32

	uOrigin     int32
	uSize       int32
	uRotation   int32
	uCamera     int32
	uZoom       int32
	uResolution int32
	uTex        int32
	uTint       int32

	// Marker (waypoint) program.
	pointProg uint32
	pointVAO  uint32
	pointVBO  uint32

	ptUCamera     int32
	ptUZoom       int32
	ptUResolution int32

	// Font/text rendering.
	font         *view.FontAtlas
	fontTex      uint32
	textProg     uint32
	textVAO      uint32
	textVBO      uint32
	textURes     int32
	textUFontTex int32
	textBuf      []float32

	pointBuf []float32
}

func NewRenderer() (*Renderer, error) {
	layerProg, err := linkProgram(layerVertSrc, layerFragSrc)
	if err != nil {
		return nil, fmt.Errorf("layer program: %w", err)
	}
	pointProg, err := linkProgram(pointVertSrc, pointFragSrc)
	if err != nil {
		gl.DeleteProgram(layerProg)
		return nil, fmt.Errorf("point program: %w", err)
	}

	r := &Renderer{
		layerProg: layerProg,
		pointProg: pointProg,
	}

	// Layer VAO/VBO: a unit quad (6 vertices, 2 triangles).
	var lVAO, lVBO uint32
	gl.GenVertexArrays(1, &lVAO)
	gl.GenBuffers(1, &lVBO)
	gl.BindVertexArray(lVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, lVBO)

	quadVerts := [12]float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))
	r.layerVAO = lVAO
	r.layerVBO = lVBO

	gl.UseProgram(layerProg)
	r.uOrigin = gl.GetUniformLocation(layerProg, gl.Str("uOrigin\x00"))
	r.uSize = gl.GetUniformLocation(layerProg, gl.Str("uSize\x00"))
	r.uRotation = gl.GetUniformLocation(layerProg, gl.Str("uRotation\x00"))
	r.uCamera = gl.GetUniformLocation(layerProg, gl.Str("uCamera\x00"))
	r.uZoom = gl.GetUniformLocation(layerProg, gl.Str("uZoom\x00"))
	r.uResolution = gl.GetUniformLocation(layerProg, gl.Str("uResolution\x00"))
	r.uTex = gl.GetUniformLocation(layerProg, gl.Str("uTex\x00"))
	r.uTint = gl.GetUniformLocation(layerProg, gl.Str("uTint\x00"))
	gl.Uniform1i(r.uTex, 0)
	gl.Uniform4f(r.uTint, 1, 1, 1, 1)

	// Point VAO/VBO: streaming buffer, 7 floats per marker (x, y, size, r, g, b, a).
	var pVAO, pVBO uint32
	gl.GenVertexArrays(1, &pVAO)
	gl.GenBuffers(1, &pVBO)
	gl.BindVertexArray(pVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, pVBO)

	stride := int32(7 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, MaxPointRender*int(stride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0) // aWorldPos
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1) // aSize
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, glOffset(2*4))
	gl.EnableVertexAttribArray(2) // aColor
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(3*4))
	r.pointVAO = pVAO
	r.pointVBO = pVBO

	gl.UseProgram(pointProg)
	r.ptUCamera = gl.GetUniformLocation(pointProg, gl.Str("uCamera\x00"))
	r.ptUZoom = gl.GetUniformLocation(pointProg, gl.Str("uZoom\x00"))
	r.ptUResolution = gl.GetUniformLocation(pointProg, gl.Str("uResolution\x00"))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.layerVBO, r.pointVBO, r.textVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.layerVAO, r.pointVAO, r.textVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.layerProg, r.pointProg, r.textProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
	if r.fontTex != 0 {
		gl.DeleteTextures(1, &r.fontTex)
	}
}

// BeginFrame clears the framebuffer and loads the camera into the world
// space programs.
func (r *Renderer) BeginFrame(cam view.Camera, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	cx, cy := cam.EffectivePos()

	gl.UseProgram(r.pointProg)
	gl.Uniform2f(r.ptUCamera, float32(cx), float32(cy))
	gl.Uniform1f(r.ptUZoom, float32(cam.Zoom))
	gl.Uniform2f(r.ptUResolution, float32(fbW), float32(fbH))

	gl.UseProgram(r.layerProg)
	gl.BindVertexArray(r.layerVAO)
	gl.Uniform2f(r.uCamera, float32(cx), float32(cy))
	gl.Uniform1f(r.uZoom, float32(cam.Zoom))
	gl.Uniform2f(r.uResolution, float32(fbW), float32(fbH))
	gl.Uniform1f(r.uRotation, 0)
	gl.Uniform4f(r.uTint, 1, 1, 1, 1)

	gl.ActiveTexture(gl.TEXTURE0)
}

// SetTint multiplies every following layer by c with alpha a; used to dim
// the track behind a banner.
func (r *Renderer) SetTint(c assets.RGB, a float32) {
	cr, cg, cb := c.Floats()
	gl.UseProgram(r.layerProg)
	gl.Uniform4f(r.uTint, cr, cg, cb, a)
}

// QueuePoints adds round markers of the given world size and colour.
func (r *Renderer) QueuePoints(pts []image.Point, size float32, c assets.RGB) {
	cr, cg, cb := c.Floats()
	for _, p := range pts {
		if len(r.pointBuf)/7 >= MaxPointRender {
			return
		}
		r.pointBuf = append(r.pointBuf, float32(p.X), float32(p.Y), size, cr, cg, cb, 1)
	}
}

// FlushPoints draws all queued markers and clears the buffer.
func (r *Renderer) FlushPoints() {
	if len(r.pointBuf) == 0 {
		return
	}
	gl.UseProgram(r.pointProg)
	gl.BindVertexArray(r.pointVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.pointVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.pointBuf)*4, gl.Ptr(r.pointBuf))
	gl.DrawArrays(gl.POINTS, 0, int32(len(r.pointBuf)/7))
	r.pointBuf = r.pointBuf[:0]
}
