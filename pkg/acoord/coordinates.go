// Package acoord holds the equatorial coordinate value type used by the
// coordinate solution and the observation records. Coordinates are
// stored as an (RA, Dec) pair in decimal degrees; the reference system
// and epoch travel with the value but no precession is performed here.
package acoord

import (
	"fmt"
	"math"
)

// J2000 epoch, in Julian days.
const J2000 = 2451545.0

type RefSystem int

const (
	RefNone RefSystem = iota
	RefICRS
	RefFK4
	RefFK5
)

func (r RefSystem) String() string {
	switch r {
	case RefICRS:
		return "ICRS"
	case RefFK4:
		return "FK4"
	case RefFK5:
		return "FK5"
	default:
		return "none"
	}
}

type Coordinates struct {
	RA     float64 // degrees, [0, 360)
	Dec    float64 // degrees, [-90, +90]
	System RefSystem
	Epoch  float64 // Julian days
}

// New normalizes RA into [0, 360) and clamps Dec to the poles.
// The reference system defaults to ICRS at J2000.
func New(ra, dec float64) Coordinates {
	ra = math.Mod(ra, 360)
	if ra < 0 {
		ra += 360
	}
	if dec > 90 {
		dec = 90
	} else if dec < -90 {
		dec = -90
	}
	return Coordinates{RA: ra, Dec: dec, System: RefICRS, Epoch: J2000}
}

// Offset returns the coordinates displaced by (dRA, dDec) degrees,
// where dRA is an on-sky angle (already divided by cos Dec by the
// caller when appropriate).
func (c Coordinates) Offset(dRA, dDec float64) Coordinates {
	out := New(c.RA+dRA, c.Dec+dDec)
	out.System = c.System
	out.Epoch = c.Epoch
	return out
}

// AngularSeparation returns the great-circle distance in degrees.
func (c Coordinates) AngularSeparation(o Coordinates) float64 {
	ra1, dec1 := c.RA*math.Pi/180, c.Dec*math.Pi/180
	ra2, dec2 := o.RA*math.Pi/180, o.Dec*math.Pi/180
	s := math.Sin(dec1)*math.Sin(dec2) + math.Cos(dec1)*math.Cos(dec2)*math.Cos(ra1-ra2)
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return math.Acos(s) * 180 / math.Pi
}

// String renders as sexagesimal "HH MM SS.ss +DD MM SS.s".
func (c Coordinates) String() string {
	raH := c.RA / 15.0
	h := int(raH)
	m := int((raH - float64(h)) * 60)
	s := (raH-float64(h))*3600 - float64(m)*60

	sign := "+"
	dec := c.Dec
	if dec < 0 {
		sign = "-"
		dec = -dec
	}
	dd := int(dec)
	dm := int((dec - float64(dd)) * 60)
	ds := (dec-float64(dd))*3600 - float64(dm)*60

	return fmt.Sprintf("%02d %02d %05.2f %s%02d %02d %04.1f", h, m, s, sign, dd, dm, ds)
}
