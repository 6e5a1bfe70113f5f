package viz

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"math"
	"os"

	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/physics"
	"github.com/san-kum/celestial/internal/sim"
)

// ErrNoFrames is returned when saving a recording with nothing captured.
var ErrNoFrames = errors.New("viz: no frames recorded")

// maxFrames caps a recording at one minute of ticks.
const maxFrames = 3600

// Recorder accumulates world frames as paletted images.
type Recorder struct {
	width, height int
	frames        []*image.Paletted
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture draws every body of w, in its own color, scaled from area to the
// recorder size. Frames past maxFrames are dropped.
func (r *Recorder) Capture(w *sim.World, area geom.Rect) {
	if len(r.frames) >= maxFrames {
		return
	}
	img := image.NewPaletted(image.Rect(0, 0, r.width, r.height), palette.Plan9)
	scale := math.Min(float64(r.width)/area.Width(), float64(r.height)/area.Height())
	ox := (float64(r.width) - area.Width()*scale) / 2
	oy := (float64(r.height) - area.Height()*scale) / 2

	fill := func(b *physics.Body, c color.Color) {
		idx := uint8(img.Palette.Index(c))
		cx := (b.Position.X-area.Left)*scale + ox
		cy := (b.Position.Y-area.Up)*scale + oy
		rad := max(b.Radius*scale, 1)
		for y := int(cy - rad); y <= int(cy+rad); y++ {
			for x := int(cx - rad); x <= int(cx+rad); x++ {
				dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
				if dx*dx+dy*dy <= rad*rad && image.Pt(x, y).In(img.Rect) {
					img.SetColorIndex(x, y, idx)
				}
			}
		}
	}

	for i := range w.Fixed() {
		fill(&w.Fixed()[i], w.Fixed()[i].Color)
	}
	for i := range w.Bodies() {
		fill(&w.Bodies()[i], w.Bodies()[i].Color)
	}
	r.frames = append(r.frames, img)
}

// Encode writes the captured frames as a looping GIF.
func (r *Recorder) Encode(out io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	return gif.EncodeAll(out, &anim)
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
