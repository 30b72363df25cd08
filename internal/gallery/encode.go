package gallery

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format names as reported by image.Decode.
const (
	formatPNG  = "png"
	formatJPEG = "jpeg"
	formatGIF  = "gif"
	formatWebP = "webp"
	formatBMP  = "bmp"
	formatTIFF = "tiff"
)

// acceptedExtensions lists the file extensions valid for each decoded format.
var acceptedExtensions = map[string][]string{
	formatPNG:  {"png"},
	formatJPEG: {"jpg", "jpeg"},
	formatGIF:  {"gif"},
	formatWebP: {"webp"},
	formatBMP:  {"bmp"},
	formatTIFF: {"tif", "tiff"},
}

var mimeTypes = map[string]string{
	formatPNG:  "image/png",
	formatJPEG: "image/jpeg",
	formatGIF:  "image/gif",
	formatWebP: "image/webp",
	formatBMP:  "image/bmp",
	formatTIFF: "image/tiff",
}

func decode(data []byte) (image.Image, string, error) {
	return image.Decode(bytes.NewReader(data))
}

// flatten drops transparency by compositing onto an opaque white canvas.
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flatten(img), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeAs re-encodes img in its source format.
func encodeAs(img image.Image, format string, quality int) ([]byte, error) {
	switch format {
	case formatWebP:
		return encodeWebP(img)
	case formatJPEG:
		return encodeJPEG(img, quality)
	}

	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// thumbnail fits img into a size×size box. Smaller images are not enlarged.
func thumbnail(img image.Image, size int) image.Image {
	return imaging.Fit(img, size, size, imaging.Lanczos)
}
