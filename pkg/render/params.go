// Package render owns the display side of an image block: per-plane
// transfer-function parameters, false-colour rendering of the float
// planes into a raster, annotated output, and Radiance export. The
// numeric stretch here is display preparation only; science values
// never pass through it.
package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/astrokit/astrofile/pkg/aerr"
)

type TransferFunction int

const (
	TransferLinear TransferFunction = iota
	TransferSqrt
	TransferLog
	TransferGamma
)

func (tf TransferFunction) String() string {
	switch tf {
	case TransferSqrt:
		return "sqrt"
	case TransferLog:
		return "log"
	case TransferGamma:
		return "gamma"
	default:
		return "linear"
	}
}

// ParseTransfer maps a config string to a transfer function.
func ParseTransfer(name string) (TransferFunction, error) {
	switch name {
	case "", "linear":
		return TransferLinear, nil
	case "sqrt":
		return TransferSqrt, nil
	case "log":
		return TransferLog, nil
	case "gamma":
		return TransferGamma, nil
	default:
		return TransferLinear, aerr.InvalidArgf("no transfer function named '%s'", name)
	}
}

// PlaneParams holds the display parameters for one image plane.
type PlaneParams struct {
	BlackPoint float64
	WhitePoint float64
	Invert     bool
	Transfer   TransferFunction
	Gamma      float64 // exponent for TransferGamma
	Colour     colorful.Color
	Weight     float64
}

// DefaultPlaneParams renders a plane as neutral grey, linear stretch.
func DefaultPlaneParams(black, white float64) PlaneParams {
	return PlaneParams{
		BlackPoint: black,
		WhitePoint: white,
		Transfer:   TransferLinear,
		Gamma:      1,
		Colour:     colorful.Color{R: 1, G: 1, B: 1},
		Weight:     1,
	}
}

// stretch maps a raw sample into [0, 1] display space.
func (pp PlaneParams) stretch(v float64) float64 {
	span := pp.WhitePoint - pp.BlackPoint
	if span <= 0 {
		span = 1
	}
	t := (v - pp.BlackPoint) / span
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	switch pp.Transfer {
	case TransferSqrt:
		t = math.Sqrt(t)
	case TransferLog:
		t = math.Log1p(t*255) / math.Log(256)
	case TransferGamma:
		g := pp.Gamma
		if g <= 0 {
			g = 1
		}
		t = math.Pow(t, 1/g)
	}

	if pp.Invert {
		t = 1 - t
	}
	return t
}
