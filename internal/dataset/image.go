package dataset

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// ThumbnailSize is the square edge used for list thumbnails.
const ThumbnailSize = 100

// LoadImage decodes an image file in any of the supported formats.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Thumbnail loads an image and scales it to fit the thumbnail square,
// preserving aspect ratio.
func Thumbnail(path string) (image.Image, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Box), nil
}
