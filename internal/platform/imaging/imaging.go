package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

const (
	ThumbnailWidth  = 300
	ThumbnailHeight = 300
)

var ErrUnsupportedImage = errors.New("unsupported or corrupt image")

// Decode returns the image and the registered format name.
func Decode(raw []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, format, nil
}

// Dimensions reads only the header.
func Dimensions(raw []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return cfg.Width, cfg.Height, nil
}

// FitWithin scales (w, h) down to fit a maxW x maxH box, preserving aspect ratio.
// Images already inside the box keep their size.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	rw := float64(maxW) / float64(w)
	rh := float64(maxH) / float64(h)
	r := rw
	if rh < r {
		r = rh
	}
	nw := int(float64(w)*r + 0.5)
	nh := int(float64(h)*r + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// Resize fits img inside maxW x maxH.
func Resize(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	nw, nh := FitWithin(b.Dx(), b.Dy(), maxW, maxH)
	if nw == b.Dx() && nh == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Thumbnail decodes raw, fits it inside the thumbnail box and re-encodes it.
// JPEG input stays JPEG, everything else becomes PNG.
func Thumbnail(raw []byte) ([]byte, error) {
	img, format, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	thumb := Resize(img, ThumbnailWidth, ThumbnailHeight)

	var out bytes.Buffer
	if format == "jpeg" {
		err = jpeg.Encode(&out, thumb, &jpeg.Options{Quality: 85})
	} else {
		err = png.Encode(&out, thumb)
	}
	if err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return out.Bytes(), nil
}

// ToJPEG re-encodes any decodable image as JPEG, fitted within maxW x maxH.
func ToJPEG(raw []byte, maxW, maxH int) ([]byte, error) {
	img, _, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	img = Resize(img, maxW, maxH)

	// JPEG has no alpha; flatten onto white.
	b := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Over)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, flat, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}
