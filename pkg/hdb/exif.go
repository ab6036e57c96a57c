package hdb

import (
	"fmt"
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/astrokit/astrofile/pkg/keyword"
)

// ImportEXIF reads camera metadata from a JPEG/TIFF stream and writes
// the tags we understand into the keyword store. Absent tags are
// skipped; only an unreadable EXIF segment is an error.
func ImportEXIF(reader io.Reader, st *keyword.Store) error {
	ex, err := exif.Decode(reader)
	if err != nil {
		return fmt.Errorf("exif parsing: %v", err)
	}

	if tag, err := ex.Get(exif.ISOSpeedRatings); err == nil {
		if val, err := tag.Int64(0); err == nil {
			st.Write(keyword.KwISOSpeed, keyword.Int64(val), "camera ISO speed")
		}
	}

	if tag, err := ex.Get(exif.FNumber); err == nil {
		if num, denom, err := tag.Rat2(0); err == nil && denom != 0 {
			st.Write(keyword.KwAperture,
				keyword.Float64(float64(num)/float64(denom)), "lens f-number")
		}
	}

	if tag, err := ex.Get(exif.ExposureTime); err == nil {
		if num, denom, err := tag.Rat2(0); err == nil && denom != 0 {
			st.Write(keyword.KwExposure,
				keyword.Float64(float64(num)/float64(denom)), "exposure, seconds")
		}
	}

	if t, err := ex.DateTime(); err == nil {
		st.Write(keyword.KwDateObs,
			keyword.String(t.UTC().Format(time.RFC3339)), "start of exposure")
	}

	return nil
}
