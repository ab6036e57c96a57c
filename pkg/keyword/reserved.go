package keyword

import "strings"

// Reserved structural keywords. These describe the shape and pixel
// depth of a block's payload; generic writes to them are checked by the
// owning block against the actual payload.
const (
	KwSimple   = "SIMPLE"
	KwXtension = "XTENSION"
	KwBitPix   = "BITPIX"
	KwNAxis    = "NAXIS"
	KwBScale   = "BSCALE"
	KwBZero    = "BZERO"
	KwPCount   = "PCOUNT"
	KwGCount   = "GCOUNT"
	KwExtName  = "EXTNAME"
)

// Linked observation keywords. Writes to these are additionally folded
// into the file aggregate's observation context.
const (
	KwObject    = "OBJECT"
	KwObjectRA  = "OBJCTRA"
	KwObjectDec = "OBJCTDEC"
	KwDateObs   = "DATE-OBS"
	KwTelescope = "TELESCOP"
	KwSiteLat   = "SITELAT"
	KwSiteLong  = "SITELONG"
	KwSiteElev  = "SITEELEV"
	KwAmbTemp   = "AMBTEMP"
	KwPressure  = "PRESSURE"
	KwHumidity  = "HUMIDITY"
)

// Frequently read informational keywords.
const (
	KwExposure  = "EXPTIME"
	KwFilter    = "FILTER"
	KwISOSpeed  = "ISOSPEED"
	KwAperture  = "APERTURE"
	KwPixelSzX  = "XPIXSZ"
	KwPixelSzY  = "YPIXSZ"
	KwUUID      = "UUID"
)

// IsShapeReserved reports whether a name is one of the structural
// keywords that must stay consistent with the payload (NAXIS, NAXISn,
// BITPIX, BSCALE, BZERO).
func IsShapeReserved(name string) bool {
	key := Normalize(name)
	switch key {
	case KwBitPix, KwNAxis, KwBScale, KwBZero:
		return true
	}
	if strings.HasPrefix(key, KwNAxis) && len(key) > len(KwNAxis) {
		for _, r := range key[len(KwNAxis):] {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

// IsLinked reports whether a keyword write must be mirrored into the
// aggregate's observation context.
func IsLinked(name string) bool {
	switch Normalize(name) {
	case KwObject, KwObjectRA, KwObjectDec, KwDateObs, KwTelescope,
		KwSiteLat, KwSiteLong, KwSiteElev, KwAmbTemp, KwPressure, KwHumidity:
		return true
	}
	return false
}
