package bti

import "github.com/bodgit/bti/gx"

// SelectFormat picks the texture format that best fits the RGBA pixels and
// reports whether any pixel is not fully opaque.
//
// The checks run in a fixed order. Images where every pixel is gray use I8,
// even if they have alpha which the format can't store. Otherwise RGB5A3 is
// used if any alpha value lies between fully transparent and fully opaque,
// and CMPR for everything else.
func SelectFormat(pix []byte) (gx.Format, bool) {
	gray := true
	var alpha, complexAlpha bool

	for i := 0; i+3 < len(pix); i += 4 {
		r, g, b, a := pix[i], pix[i+1], pix[i+2], pix[i+3]
		if gray && (r != g || g != b) {
			gray = false
		}
		if a != 0xff {
			alpha = true
			if a != 0x00 {
				complexAlpha = true
			}
		}
	}

	switch {
	case gray:
		return gx.I8, alpha
	case complexAlpha:
		return gx.RGB5A3, alpha
	default:
		return gx.CMPR, alpha
	}
}
