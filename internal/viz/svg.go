package viz

import (
	"bufio"
	"fmt"
	"io"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// WriteCanvasSVG draws every lit dot of c as a circle; one dot spans scale
// pixels.
func WriteCanvasSVG(w io.Writer, c *Canvas, scale int) error {
	sw, sh := c.Dots()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, svgHeader, sw*scale, sh*scale, sw*scale, sh*scale)
	fmt.Fprintln(bw, `<g fill="#00ff88">`)

	r := 0.4 * float64(scale)
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if c.Lit(x, y) {
				cx := (float64(x) + 0.5) * float64(scale)
				cy := (float64(y) + 0.5) * float64(scale)
				fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
			}
		}
	}

	fmt.Fprint(bw, "</g>\n</svg>\n")
	return bw.Flush()
}

// WritePathSVG draws pts as one polyline in a size×size image with equal
// axis scaling, marking the first point.
func WritePathSVG(w io.Writer, pts []struct{ X, Y float64 }, size int, stroke string) error {
	if len(pts) < 2 {
		return errTooFewPoints
	}
	f := fitSquare(pts, float64(size))

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, svgHeader, size, size, size, size)
	fmt.Fprintf(bw, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
	for i, p := range pts {
		x, y := f.apply(p.X, p.Y)
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(bw, "%s%.2f,%.2f ", cmd, x, y)
	}
	fmt.Fprint(bw, "\"/>\n")

	x0, y0 := f.apply(pts[0].X, pts[0].Y)
	fmt.Fprintf(bw, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"3\" fill=\"%s\"/>\n</svg>\n", x0, y0, stroke)
	return bw.Flush()
}
