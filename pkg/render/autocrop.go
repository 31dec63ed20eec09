package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/mhaertel/inkboard/pkg/theme"
)

// Auto-crop tuning.
const (
	cropThreshold = 5    // per-channel difference that counts as content
	cropMargin    = 25   // breathing room kept beyond the content extent
	cropMinSaving = 0.15 // fraction of pixels a crop must save to be worth it
)

// AutoCrop trims unused background from the bottom and right of img,
// keeping a margin past the furthest content pixel. The top and left are
// never cropped: titles and the outer border anchor there. Crops that
// would save less than 15% of the pixels are skipped, since a marginal
// trim just makes output sizes jitter between runs.
func AutoCrop(img image.Image, bgHex string) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return img
	}

	bgR, bgG, bgB := rgb8(theme.ParseHex(bgHex))

	maxX, maxY := -1, -1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b := rgb8(img.At(x, y))
			if absInt(int(r)-int(bgR)) > cropThreshold ||
				absInt(int(g)-int(bgG)) > cropThreshold ||
				absInt(int(b)-int(bgB)) > cropThreshold {
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < 0 {
		// Entirely background; nothing to anchor a crop to.
		return img
	}

	newW := minInt(w, maxX-bounds.Min.X+1+cropMargin)
	newH := minInt(h, maxY-bounds.Min.Y+1+cropMargin)

	saving := 1 - float64(newW*newH)/float64(w*h)
	if saving < cropMinSaving {
		return img
	}

	return imaging.Crop(img, image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+newW, bounds.Min.Y+newH))
}

// Resize scales img by factor using Lanczos resampling, for --scale
// exports. A factor of 1 (or nonsense) returns the image untouched.
func Resize(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor == 1 {
		return img
	}
	w := int(float64(img.Bounds().Dx()) * factor)
	h := int(float64(img.Bounds().Dy()) * factor)
	if w < 1 || h < 1 {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func rgb8(c color.Color) (uint8, uint8, uint8) {
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
