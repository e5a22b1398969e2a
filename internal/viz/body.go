package viz

import (
	"math"
	"sort"

	"github.com/san-kum/attsim/internal/attitude"
)

// Camera projects inertial points onto the canvas. The view looks down the
// inertial −z axis before RotX/RotY are applied.
type Camera struct {
	Distance   float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 5, RotX: -0.5, RotY: 0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) view(p attitude.Vec3) attitude.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p[1], p[2] = p[1]*cx-p[2]*sx, p[1]*sx+p[2]*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p[0], p[2] = p[0]*cy+p[2]*sy, -p[0]*sy+p[2]*cy
	return p.Scale(c.Zoom)
}

// Project returns the dot coordinates and depth of p on a sw×sh dot canvas,
// and whether it lies in front of the camera.
func (c *Camera) Project(p attitude.Vec3, sw, sh int) (int, int, float64, bool) {
	v := c.view(p)
	if v[2] >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - v[2])
	unit := math.Min(float64(sw), float64(sh)) / 3.0
	x := int(v[0]*scale*unit) + sw/2
	y := int(-v[1]*scale*unit) + sh/2
	return x, y, v[2], true
}

type Edge struct {
	Start, End attitude.Vec3
}

// Wireframe is a set of edges in body coordinates.
type Wireframe struct{ Edges []Edge }

func (w *Wireframe) AddEdge(s, e attitude.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }

// BoxFromInertia returns the half extents of the uniform box with the same
// principal inertia ratios as J, scaled so the longest side is 1.
func BoxFromInertia(j attitude.Mat3) attitude.Vec3 {
	var half attitude.Vec3
	for i := 0; i < 3; i++ {
		// a_i² ∝ J_j + J_k − J_i
		sq := j[(i+1)%3][(i+1)%3] + j[(i+2)%3][(i+2)%3] - j[i][i]
		half[i] = math.Sqrt(math.Max(sq, 1e-9))
	}
	longest := math.Max(half[0], math.Max(half[1], half[2]))
	return half.Scale(1 / longest)
}

// BodyWireframe is a box with the given half extents and the three body
// axes drawn out past its faces.
func BodyWireframe(half attitude.Vec3) *Wireframe {
	w := &Wireframe{}
	var v [8]attitude.Vec3
	for i := range v {
		for k := 0; k < 3; k++ {
			v[i][k] = half[k]
			if i&(1<<k) == 0 {
				v[i][k] = -half[k]
			}
		}
	}
	for i := range v {
		for k := 0; k < 3; k++ {
			if j := i | 1<<k; j != i {
				w.AddEdge(v[i], v[j])
			}
		}
	}
	for k := 0; k < 3; k++ {
		var tip attitude.Vec3
		tip[k] = half[k] + 0.4
		w.AddEdge(attitude.Vec3{}, tip)
	}
	return w
}

// Orient maps body-frame edges into the inertial frame for attitude σ_BN.
func (w *Wireframe) Orient(sigma attitude.Vec3) *Wireframe {
	nb := attitude.DCM(sigma).Transpose()
	out := &Wireframe{Edges: make([]Edge, len(w.Edges))}
	for i, e := range w.Edges {
		out.Edges[i] = Edge{nb.MulVec(e.Start), nb.MulVec(e.End)}
	}
	return out
}

// Render draws w far-to-near.
func Render(c *Canvas, w *Wireframe, cam *Camera) {
	sw, sh := c.Dots()
	type projected struct {
		x1, y1, x2, y2 int
		depth          float64
	}
	proj := make([]projected, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.End, sw, sh)
		if v1 && v2 {
			proj = append(proj, projected{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// DrawAttitude clears c and draws the box for σ.
func DrawAttitude(c *Canvas, cam *Camera, box attitude.Vec3, sigma attitude.Vec3) {
	c.Clear()
	Render(c, BodyWireframe(box).Orient(sigma), cam)
}
