package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
)

var errNoFrames = errors.New("no frames recorded")

// Recorder collects canvas frames for a GIF animation.
type Recorder struct {
	frames []*image.Paletted
	// DotSize is the side of one Braille dot in image pixels.
	DotSize int
}

func NewRecorder() *Recorder {
	return &Recorder{DotSize: 3}
}

func (r *Recorder) Frames() int { return len(r.frames) }

// Capture rasterises the current canvas.
func (r *Recorder) Capture(c *Canvas) {
	sw, sh := c.Dots()
	img := image.NewPaletted(image.Rect(0, 0, sw*r.DotSize, sh*r.DotSize), color.Palette{color.Black, color.White})
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < r.DotSize; py++ {
				for px := 0; px < r.DotSize; px++ {
					img.SetColorIndex(x*r.DotSize+px, y*r.DotSize+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Encode writes the recorded frames as a looping GIF and clears them.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 3)
	}
	r.frames = nil
	return gif.EncodeAll(w, &anim)
}
