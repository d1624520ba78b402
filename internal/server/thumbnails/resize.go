package thumbnails

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 90

// ErrImageTooLarge is returned for sources or variants over the pixel budgets.
var ErrImageTooLarge = errors.New("image too large")

// Pixel budgets bound the RGBA buffers allocated while decoding and
// resizing (4 bytes per pixel).
var (
	maxSourcePixels    int64 = 40_000_000
	maxThumbnailPixels int64 = 16_000_000
)

// Decoded is an image parsed once and resized many times.
type Decoded struct {
	img    image.Image
	format string
}

// Decode parses png, jpeg, gif, bmp, tiff or webp data. The header is
// checked against the source pixel budget before any pixel is decoded.
func Decode(data []byte) (*Decoded, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("decode image: empty %dx%d image", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxSourcePixels {
		return nil, fmt.Errorf("%w: source is %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &Decoded{img: img, format: format}, nil
}

// Format is the name reported by the decoder ("png", "jpeg", ...).
func (d *Decoded) Format() string { return d.format }

// Resize scales the image to width pixels keeping the aspect ratio and
// encodes it in the source format. webp has no encoder and becomes png.
// Variants over the thumbnail pixel budget are refused with ErrImageTooLarge.
func (d *Decoded) Resize(width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid width %d", width)
	}
	b := d.img.Bounds()
	h64 := int64(b.Dy()) * int64(width) / int64(max(b.Dx(), 1))
	if h64 < 1 {
		h64 = 1
	}
	if int64(width)*h64 > maxThumbnailPixels {
		return nil, fmt.Errorf("%w: %dx%d variant of a %dx%d source", ErrImageTooLarge, width, h64, b.Dx(), b.Dy())
	}
	height := int(h64)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), d.img, b, draw.Over, nil)

	var buf bytes.Buffer
	var err error
	switch d.format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	case "bmp":
		err = bmp.Encode(&buf, dst)
	case "tiff":
		err = tiff.Encode(&buf, dst, nil)
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", d.format, err)
	}
	return buf.Bytes(), nil
}
