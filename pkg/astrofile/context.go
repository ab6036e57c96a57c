package astrofile

import (
	"time"

	"github.com/astrokit/astrofile/pkg/acoord"
	"github.com/astrokit/astrofile/pkg/keyword"
)

// ObservationContext is the structured view of the linked keywords:
// where the observation was made, under what conditions, of what. It
// is derived state - the keywords are authoritative - refreshed on
// every linked-keyword write and on load.
type ObservationContext struct {
	Site    Site
	HasSite bool

	Weather    Weather
	HasWeather bool

	Telescope string

	Target Target

	ObsTime    time.Time
	HasObsTime bool
}

// Site is the observing location, degrees and metres.
type Site struct {
	Latitude  float64
	Longitude float64
	Elevation float64
}

// Weather is the ambient conditions at the start of exposure.
type Weather struct {
	Temperature float64 // Celsius
	Pressure    float64 // hPa
	Humidity    float64 // percent
}

type Target struct {
	Name      string
	Coords    acoord.Coordinates
	HasCoords bool
}

// Context returns the current observation context.
func (f *File) Context() ObservationContext { return f.ctx }

func readFloat(st *keyword.Store, name string) (float64, bool) {
	if !st.Exists(name) {
		return 0, false
	}
	v, err := st.Read(name)
	if err != nil {
		return 0, false
	}
	fv, err := v.AsFloat64()
	if err != nil {
		return 0, false
	}
	return fv, true
}

func readString(st *keyword.Store, name string) (string, bool) {
	if !st.Exists(name) {
		return "", false
	}
	v, err := st.Read(name)
	if err != nil {
		return "", false
	}
	s, err := v.AsString()
	if err != nil {
		return "", false
	}
	return s, true
}

// Timestamp layouts seen in real headers, most specific first.
var dateObsLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// syncContextFrom refreshes the derived context from a keyword store.
// Unparseable values leave the corresponding context field alone; the
// keyword itself is stored regardless.
func (f *File) syncContextFrom(st *keyword.Store) {
	if lat, ok := readFloat(st, keyword.KwSiteLat); ok {
		f.ctx.Site.Latitude = lat
		f.ctx.HasSite = true
	}
	if lon, ok := readFloat(st, keyword.KwSiteLong); ok {
		f.ctx.Site.Longitude = lon
		f.ctx.HasSite = true
	}
	if elev, ok := readFloat(st, keyword.KwSiteElev); ok {
		f.ctx.Site.Elevation = elev
		f.ctx.HasSite = true
	}

	if temp, ok := readFloat(st, keyword.KwAmbTemp); ok {
		f.ctx.Weather.Temperature = temp
		f.ctx.HasWeather = true
	}
	if pres, ok := readFloat(st, keyword.KwPressure); ok {
		f.ctx.Weather.Pressure = pres
		f.ctx.HasWeather = true
	}
	if hum, ok := readFloat(st, keyword.KwHumidity); ok {
		f.ctx.Weather.Humidity = hum
		f.ctx.HasWeather = true
	}

	if scope, ok := readString(st, keyword.KwTelescope); ok {
		f.ctx.Telescope = scope
	}
	if obj, ok := readString(st, keyword.KwObject); ok {
		f.ctx.Target.Name = obj
	}

	ra, okRA := readFloat(st, keyword.KwObjectRA)
	dec, okDec := readFloat(st, keyword.KwObjectDec)
	if okRA && okDec {
		f.ctx.Target.Coords = acoord.New(ra, dec)
		f.ctx.Target.HasCoords = true
	}

	if s, ok := readString(st, keyword.KwDateObs); ok {
		for _, layout := range dateObsLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				f.ctx.ObsTime = t
				f.ctx.HasObsTime = true
				break
			}
		}
	}
}
