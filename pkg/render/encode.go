package render

import (
	"image"
	"image/png"
	"io"
	"os"

	"github.com/mhaertel/inkboard/pkg/errors"
)

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding PNG")
	}
	return nil
}

// SavePNG writes img as PNG to path.
func SavePNG(path string, img image.Image) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "creating output file")
	}
	defer f.Close()
	return EncodePNG(f, img)
}
