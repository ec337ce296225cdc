package scan

import (
	"image"

	"github.com/disintegration/imaging"
)

// downscale caps the image at maxDim pixels on its longer side and returns
// the factor that maps processed coordinates back to the source image.
// Small images pass through untouched; upscaling never helps the binarizer.
func downscale(img image.Image, maxDim int) (image.Image, float64) {
	if maxDim <= 0 {
		return img, 1.0
	}

	b := img.Bounds()
	longest := b.Dx()
	if b.Dy() > longest {
		longest = b.Dy()
	}
	if longest <= maxDim {
		return img, 1.0
	}

	fitted := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	if fitted.Bounds().Dx() == 0 {
		return img, 1.0
	}
	return fitted, float64(b.Dx()) / float64(fitted.Bounds().Dx())
}
