package texture

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Fit scales img down so neither side exceeds maxSize, keeping the aspect
// ratio. Images already small enough, or maxSize <= 0, are returned as is.
func Fit(img *image.NRGBA, maxSize int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	return toNRGBA(transform.Resize(img, w, h, transform.Linear))
}
