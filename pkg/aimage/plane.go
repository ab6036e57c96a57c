package aimage

import "math"

// A Plane is one colour/filter plane of an image: a dense grid of
// float64 samples. Pixel (x, y) lives at values[stride*y + x].
type Plane struct {
	stride int
	values []float64
}

func NewPlane(w, h int) *Plane {
	return &Plane{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (p *Plane) Set(x, y int, v float64) { p.values[p.stride*y+x] = v }
func (p *Plane) Get(x, y int) float64    { return p.values[p.stride*y+x] }
func (p *Plane) Dx() int                 { return p.stride }
func (p *Plane) Dy() int                 { return len(p.values) / p.stride }

func (p *Plane) Fill(v float64) {
	for i := range p.values {
		p.values[i] = v
	}
}

func (p *Plane) Copy() *Plane {
	out := &Plane{stride: p.stride, values: make([]float64, len(p.values))}
	copy(out.values, p.values)
	return out
}

// Values returns the backing slice; callers treat it as read-only.
func (p *Plane) Values() []float64 { return p.values }

// Sample bilinearly interpolates at a continuous position. Positions
// outside the grid return (0, false).
func (p *Plane) Sample(x, y float64) (float64, bool) {
	w, h := p.Dx(), p.Dy()
	if x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
		return 0, false
	}

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1, y1 := x0+1, y0+1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	top := p.Get(x0, y0)*(1-fx) + p.Get(x1, y0)*fx
	bot := p.Get(x0, y1)*(1-fx) + p.Get(x1, y1)*fx
	return top*(1-fy) + bot*fy, true
}
