// Package render provides the optional graphical sink: a single pixel
// per pond cell, colored by energy and genome, blitted through a GPU
// texture updated once per frame.
package render

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/rountree/nanopond/pond"
)

// Sink receives a full-pond snapshot each frame and displays it. A
// headless run never constructs one.
type Sink interface {
	Draw(p *pond.Pond)
	Close()
}

// RaylibSink renders the pond as a scaled pixel grid: black for a dead
// slot, otherwise a color derived from the cell's first genome codon
// (hue) and its energy (brightness), so a glance at the window shows
// both population density and replicator activity.
type RaylibSink struct {
	width, height int
	scale         int32
	tex           rl.Texture2D
	pixels        []color.RGBA
}

// NewRaylibSink opens a window sized scale pixels per cell (calling
// rl.InitWindow itself) and allocates the backing texture.
func NewRaylibSink(p *pond.Pond, scale int, targetFPS int) *RaylibSink {
	if scale < 1 {
		scale = 1
	}
	width, height := p.Width(), p.Height()

	rl.InitWindow(int32(width*scale), int32(height*scale), "nanopond")
	rl.SetTargetFPS(int32(targetFPS))

	img := rl.GenImageColor(width, height, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(tex, rl.FilterPoint)

	return &RaylibSink{
		width:  width,
		height: height,
		scale:  int32(scale),
		tex:    tex,
		pixels: make([]color.RGBA, width*height),
	}
}

// Draw uploads the current pond state to the texture and blits it to
// the window, scaled to fill it.
func (s *RaylibSink) Draw(p *pond.Pond) {
	p.Each(func(x, y int, c *pond.Cell) {
		s.pixels[y*s.width+x] = cellColor(c)
	})
	rl.UpdateTexture(s.tex, s.pixels)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(s.width), Height: float32(s.height)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: float32(s.width) * float32(s.scale), Height: float32(s.height) * float32(s.scale)}
	rl.DrawTexturePro(s.tex, src, dst, rl.Vector2{}, 0, rl.White)
	rl.EndDrawing()
}

// ShouldClose reports whether the user has asked to close the window.
func (s *RaylibSink) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// Close frees GPU resources and closes the window.
func (s *RaylibSink) Close() {
	rl.UnloadTexture(s.tex)
	rl.CloseWindow()
}

// cellColor maps a cell to a display color: dead cells are black,
// alive cells are colored by their first genome codon (hue bucket)
// and shaded by energy (brighter with more energy).
func cellColor(c *pond.Cell) color.RGBA {
	if !c.Alive() {
		return color.RGBA{A: 255}
	}

	codon := c.Genome.Codon(0, 0)
	hue := float64(codon) / 16.0

	brightness := float64(c.Energy)
	if brightness > 255 {
		brightness = 255
	}
	v := uint8(brightness)

	return hsvToRGB(hue, 0.8, float64(v)/255.0)
}

// hsvToRGB is a minimal HSV→RGB conversion; hue, sat, val all in [0,1].
func hsvToRGB(h, s, v float64) color.RGBA {
	if s == 0 {
		g := uint8(v * 255)
		return color.RGBA{R: g, G: g, B: g, A: 255}
	}

	h6 := h * 6
	i := int(h6)
	f := h6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255}
}
