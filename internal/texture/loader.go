package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for files that are not a decodable image.
var ErrUnsupportedFormat = errors.New("texture: unsupported format")

// LoadTexture reads an image file and returns it as NRGBA.
// PNG, JPEG, GIF, BMP, TIFF and WebP are sniffed from their magic bytes.
// TGA is recognised by extension.
func LoadTexture(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	return decode(path, raw)
}

// decoders is keyed by the extension Sniff reports.
var decoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"jpg":  jpeg.Decode,
	"gif":  gif.Decode,
	"bmp":  bmp.Decode,
	"tif":  tiff.Decode,
	"webp": webp.Decode,
	"tga":  tga.Decode,
}

func decode(path string, raw []byte) (*image.NRGBA, error) {
	format, err := Sniff(path, raw)
	if err != nil {
		return nil, err
	}
	dec, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, path, format)
	}
	img, err := dec(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// Sniff reports the image format of raw as a file extension without the dot.
func Sniff(path string, raw []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return "tga", nil
	}
	if filetype.IsImage(raw) {
		kind, err := filetype.Match(raw)
		if err == nil {
			return kind.Extension, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
