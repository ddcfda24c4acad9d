package transform

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// registered for decoding only
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotImage is returned when the content is not recognized as an image.
	ErrNotImage = errors.New("not an image")
	// ErrUnsupportedFormat is returned when no encoder exists for the output.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// JPEGQuality used when writing jpeg outputs.
const JPEGQuality = 95

// Info describes a decoded source image.
type Info struct {
	MIME   string
	Format string
	Width  int
	Height int
}

// Sniff returns the detected MIME type of data, without parameters.
func Sniff(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i != -1 {
		mt = mt[:i]
	}
	return mt
}

// Decode sniffs data and decodes it when it is an image.
func Decode(data []byte) (image.Image, Info, error) {
	var info Info

	info.MIME = Sniff(data)
	if !strings.HasPrefix(info.MIME, "image/") {
		return nil, info, fmt.Errorf("%w: detected %s", ErrNotImage, info.MIME)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, info, fmt.Errorf("decoding %s: %w", info.MIME, err)
	}

	info.Format = format
	info.Width = img.Bounds().Dx()
	info.Height = img.Bounds().Dy()

	return img, info, nil
}

// Encode writes img to w, picking the encoder from the extension of name,
// or from format when the extension is unknown.
func Encode(w io.Writer, img image.Image, name, format string) error {
	enc := encoderFor(strings.ToLower(path.Ext(name)))
	if enc == nil {
		enc = encoderFor("." + format)
	}

	if enc == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	return enc(w, img)
}

type encoder func(io.Writer, image.Image) error

func encoderFor(ext string) encoder {
	switch ext {
	case ".png":
		return png.Encode
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
		}
	case ".gif":
		return func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}
	case ".bmp":
		return bmp.Encode
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, nil)
		}
	}
	return nil
}

// FlipFile reads the image at src, flips it and writes the result at dst.
// The source is left untouched. On failure no file is left at dst.
func FlipFile(fs afero.Fs, src, dst string) (Info, error) {
	data, err := afero.ReadFile(fs, src)
	if err != nil {
		return Info{}, err
	}

	img, info, err := Decode(data)
	if err != nil {
		return info, err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, Flip(img), dst, info.Format); err != nil {
		return info, err
	}

	if err := fs.MkdirAll(path.Dir(dst), 0755); err != nil {
		return info, err
	}

	if err := afero.WriteFile(fs, dst, buf.Bytes(), 0644); err != nil {
		fs.Remove(dst)
		return info, err
	}

	return info, nil
}
