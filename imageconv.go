package html2img

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

// Flatten composites img onto an opaque white canvas of the same size, using
// img's own alpha channel as the mask. Every source pixel format (paletted,
// gray with alpha, RGBA, NRGBA, 16-bit variants) is first promoted to NRGBA,
// so transparency is handled the same way for all of them.
func Flatten(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	bounds := src.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(canvas, src, image.Pt(0, 0), 1.0)
}

// EncodeImage writes img to w in format. JPEG output is flattened onto white
// first because JPEG has no alpha channel. quality is ignored for PNG; for
// JPEG, 0 selects DefaultJPEGQuality.
func EncodeImage(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case FormatPNG:
		if err := imaging.Encode(w, img, imaging.PNG); err != nil {
			return fmt.Errorf("%w: encoding png: %v", ErrConversion, err)
		}
		return nil
	case FormatJPEG:
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		if err := ValidateQuality(quality); err != nil {
			return err
		}
		if err := imaging.Encode(w, Flatten(img), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return fmt.Errorf("%w: encoding jpeg: %v", ErrConversion, err)
		}
		return nil
	}
	return format.Validate()
}

// ConvertBitmap turns a PNG screenshot into the bytes of the requested
// format. PNG input is returned as captured.
func ConvertBitmap(bitmap []byte, format Format, quality int) ([]byte, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if len(bitmap) == 0 {
		return nil, fmt.Errorf("%w: empty bitmap", ErrConversion)
	}
	if format == FormatPNG {
		return bitmap, nil
	}

	img, err := imaging.Decode(bytes.NewReader(bitmap))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding capture: %v", ErrConversion, err)
	}

	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, format, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
