// astrofile-demo builds a synthetic observation, runs it through the
// facade (geometry, plate bookkeeping, photometry) and writes an
// annotated render.
package main

import (
	"flag"
	"image"
	"log"
	"math"

	"github.com/astrokit/astrofile/pkg/acoord"
	"github.com/astrokit/astrofile/pkg/amath"
	"github.com/astrokit/astrofile/pkg/astrofile"
	"github.com/astrokit/astrofile/pkg/hdb"
	"github.com/astrokit/astrofile/pkg/keyword"
	"github.com/astrokit/astrofile/pkg/render"
	"github.com/astrokit/astrofile/pkg/wcs"
)

var (
	fConfig   string
	fOutput   string
	fRotate   float64
	fBin      int
)

func init() {
	flag.StringVar(&fConfig, "config", "", "YAML processing configuration")
	flag.StringVar(&fOutput, "o", "demo.png", "annotated render output")
	flag.Float64Var(&fRotate, "rotate", 0, "rotate the primary image, degrees")
	flag.IntVar(&fBin, "bin", 0, "bin the primary image by this factor")
	flag.Parse()

	log.Printf("astrofile-demo starting\n")
}

func main() {
	config := astrofile.NewConfiguration()
	if fConfig != "" {
		var err error
		if config, err = astrofile.LoadConfiguration(fConfig); err != nil {
			log.Fatal(err)
		}
	} else if err := config.FinalizeConfiguration(); err != nil {
		log.Fatal(err)
	}
	if fOutput != "" {
		config.Rendering.OutputFilename = fOutput
	}

	f := buildSyntheticObservation(config)

	if fRotate != 0 {
		if err := f.Rotate(0, fRotate); err != nil {
			log.Fatal(err)
		}
		log.Printf("rotated primary by %.1f deg; solution stale, observations moved\n", fRotate)
	}
	if fBin > 1 {
		if err := f.Bin(0, fBin); err != nil {
			log.Fatal(err)
		}
		log.Printf("binned primary %dx%d\n", fBin, fBin)
	}

	measureStars(f)
	writeRender(f, config)

	log.Printf("done; file dirty=%v\n", f.Dirty())
}

// buildSyntheticObservation fakes a 400x400 star field with headers, a
// linear plate solution and a couple of catalogue stars.
func buildSyntheticObservation(config astrofile.Configuration) *astrofile.File {
	f := astrofile.New("demo.fits")
	ib, err := f.CreatePrimaryImage(400, 400, 1)
	if err != nil {
		log.Fatal(err)
	}

	stars := []amath.Point{amath.Pt(120, 140), amath.Pt(260, 310), amath.Pt(330, 90)}
	p, _ := ib.Image().Plane(0)
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			v := 50.0
			for _, s := range stars {
				dx, dy := float64(x)-s.X, float64(y)-s.Y
				v += 2000 * math.Exp(-(dx*dx+dy*dy)/(2*2.5*2.5))
			}
			p.Set(x, y, v)
		}
	}

	f.KeywordWrite(0, keyword.KwObject, keyword.String("demo field"), "")
	f.KeywordWrite(0, keyword.KwTelescope, keyword.String(config.Telescope), "")
	f.KeywordWrite(0, keyword.KwSiteLat, keyword.Float64(config.Observatory.Latitude), "degrees north")
	f.KeywordWrite(0, keyword.KwExposure, keyword.Float64(120), "seconds")

	scale := 1.8 / 3600 // 1.8 arcsec/pixel
	sol, err := wcs.NewLinear(amath.Pt(200, 200), acoord.New(187.5, 12.2),
		[4]float64{-scale, 0, 0, scale})
	if err != nil {
		log.Fatal(err)
	}
	if err := ib.SetSolution(sol); err != nil {
		log.Fatal(err)
	}

	ab, _ := f.CreateAstrometryBlock()
	for i, s := range stars {
		sky, _ := ib.PixToSky(s)
		ab.Add(hdb.AstrometryObservation{
			Name:   starLabel(i),
			Pix:    s,
			Sky:    sky,
			HasSky: true,
			Source: hdb.CoordReference,
		})
	}
	return f
}

func starLabel(i int) string {
	return string(rune('A' + i))
}

func measureStars(f *astrofile.File) {
	ab, ok := f.Astrometry()
	if !ok {
		return
	}
	pb, _ := f.CreatePhotometryBlock()
	for o := ab.First(); o != nil; o = ab.Next() {
		seed := image.Pt(int(o.Pix.X), int(o.Pix.Y))
		obs, err := f.PointPhotometry(0, seed, 8)
		if err != nil {
			log.Printf("photometry of %s: %v\n", o.Name, err)
			continue
		}
		fwhm, _ := f.FWHM(0, obs.Pix, 12)
		obs.Name = o.Name
		obs.FWHM = fwhm
		pb.Add(obs)
		log.Printf("%s: pix=%v mag=%.2f fwhm=%.1fpx\n", o.Name, obs.Pix, obs.Magnitude, fwhm)
	}
}

func writeRender(f *astrofile.File, config astrofile.Configuration) {
	b, err := f.Block(0)
	if err != nil {
		log.Fatal(err)
	}
	ib := b.(*hdb.ImageBlock)

	lo, hi, err := ib.Image().StretchPoints(0, config.Rendering.BlackQuantile, config.Rendering.WhiteQuantile)
	if err != nil {
		log.Fatal(err)
	}
	pp := render.DefaultPlaneParams(lo, hi)
	pp.Transfer = config.Rendering.TransferFunction
	pp.Gamma = config.Rendering.Gamma
	if err := ib.SetRenderParams(0, pp); err != nil {
		log.Fatal(err)
	}

	raster, err := ib.Rendered(config.Rendering.RenderMode)
	if err != nil {
		log.Fatal(err)
	}

	var marks []render.Mark
	if pb, ok := f.Photometry(); ok {
		for o := pb.First(); o != nil; o = pb.Next() {
			marks = append(marks, render.Mark{Pos: o.Pix, Radius: 10, Label: o.Name})
		}
	}

	out := render.Annotate(raster, marks)
	if err := render.WritePNG(out, config.Rendering.OutputFilename); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s\n", config.Rendering.OutputFilename)
}
