package gallery

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"iter"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/output"
)

// memRepo is an in-memory mod repository holding image files only.
type memRepo struct {
	images map[string][]byte
}

func (r memRepo) ID() string { return "red-castle" }

func (r memRepo) ListDir(_ context.Context, dir string) iter.Seq[string] {
	if dir != forge.ImageDir {
		return func(func(string) bool) {}
	}
	return slices.Values(slices.Sorted(maps.Keys(r.images)))
}

func (r memRepo) ListDataFiles(context.Context) []forge.DataFile { return nil }

func (r memRepo) GetFile(_ context.Context, p string) ([]byte, bool) {
	data, ok := r.images[p[len(forge.ImageDir)+1:]]
	return data, ok
}

func (r memRepo) PopularitySignal(context.Context) int { return forge.UnknownPopularity }

// memWriter records written files.
type memWriter map[string][]byte

func (w memWriter) WriteFile(logical string, data []byte) error {
	w[logical] = data
	return nil
}

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 200})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func encodeJPEGBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func encodeGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func decodeConfig(t *testing.T, data []byte) image.Config {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg
}

func TestProcess(t *testing.T) {
	repo := memRepo{images: map[string][]byte{
		"banner.png":         encodePNG(t, 64, 16),
		"preview-2.jpg":      encodeJPEGBytes(t, 800, 400),
		"preview-1-a.png":    encodePNG(t, 100, 50),
		"preview-3.gif":      encodeGIF(t, 20, 20),
		"preview-4.png":      []byte("definitely not an image"),
		"preview-5.png":      append([]byte("\x89PNG\r\n\x1a\n"), 0, 1, 2),
		"screenshot.png":     encodePNG(t, 4, 4),
		"preview-6.data.png": encodePNG(t, 4, 4),
	}}
	out := memWriter{}
	p := NewProcessor(out, Options{ThumbnailSize: 360, JPEGQuality: 75}, nil)

	imgs, err := p.Process(context.Background(), repo, "red-castle")
	require.NoError(t, err)

	assert.Equal(t, []Source{
		{Path: "mw/red-castle/image/banner.jpg", MimeType: "image/jpeg"},
		{Path: "mw/red-castle/image/banner.webp", MimeType: "image/webp"},
	}, imgs.Banner)

	require.Len(t, imgs.Previews, 3, "broken and misnamed files are skipped")
	ids := []string{imgs.Previews[0].ID, imgs.Previews[1].ID, imgs.Previews[2].ID}
	assert.Equal(t, []string{"preview-1-a", "preview-2", "preview-3"}, ids)
	assert.Equal(t, "preview-3", imgs.Previews[0].PrevID)
	assert.Equal(t, "preview-2", imgs.Previews[0].NextID)

	t.Run("png becomes jpeg and webp", func(t *testing.T) {
		assert.Equal(t, []Source{
			{Path: "mw/red-castle/image/preview-1-a.jpg", MimeType: "image/jpeg"},
			{Path: "mw/red-castle/image/preview-1-a.webp", MimeType: "image/webp"},
		}, imgs.Previews[0].Sources)
		assert.Equal(t, []Source{
			{Path: "mw/red-castle/image/preview-1-a-thumb.jpg", MimeType: "image/jpeg"},
			{Path: "mw/red-castle/image/preview-1-a-thumb.webp", MimeType: "image/webp"},
		}, imgs.PreviewThumb)
	})

	t.Run("other formats are re-encoded as they are", func(t *testing.T) {
		assert.Equal(t, []Source{{Path: "mw/red-castle/image/preview-2.jpg", MimeType: "image/jpeg"}}, imgs.Previews[1].Sources)
		assert.Equal(t, []Source{{Path: "mw/red-castle/image/preview-3.gif", MimeType: "image/gif"}}, imgs.Previews[2].Sources)
	})

	t.Run("thumbnails fit the box without upscaling", func(t *testing.T) {
		big := decodeConfig(t, out["mw/red-castle/image/preview-2-thumb.jpg"])
		assert.Equal(t, 360, big.Width)
		assert.Equal(t, 180, big.Height)

		small := decodeConfig(t, out["mw/red-castle/image/preview-3-thumb.jpg"])
		assert.Equal(t, 20, small.Width)
		assert.Equal(t, 20, small.Height)
	})

	t.Run("banners get no thumbnail", func(t *testing.T) {
		assert.NotContains(t, out, "mw/red-castle/image/banner-thumb.jpg")
	})
}

func TestProcessExtensionMismatchDoesNotBlock(t *testing.T) {
	repo := memRepo{images: map[string][]byte{"preview-1.png": encodeJPEGBytes(t, 10, 10)}}
	p := NewProcessor(memWriter{}, Options{}, nil)

	imgs, err := p.Process(context.Background(), repo, "red-castle")
	require.NoError(t, err)
	require.Len(t, imgs.Previews, 1)
	assert.Equal(t, []Source{{Path: "mw/red-castle/image/preview-1.png", MimeType: "image/jpeg"}}, imgs.Previews[0].Sources)
}

func TestProcessSkipTranscode(t *testing.T) {
	data := encodePNG(t, 500, 500)
	repo := memRepo{images: map[string][]byte{"preview-1.png": data}}
	out := memWriter{}
	p := NewProcessor(out, Options{SkipTranscode: true}, nil)

	imgs, err := p.Process(context.Background(), repo, "red-castle")
	require.NoError(t, err)

	want := []Source{{Path: "mw/red-castle/image/preview-1.png", MimeType: "image/png"}}
	assert.Equal(t, want, imgs.Previews[0].Sources)
	assert.Equal(t, want, imgs.PreviewThumb)
	assert.Equal(t, data, out["mw/red-castle/image/preview-1.png"])
	assert.Len(t, out, 1)
}

func TestProcessNoImages(t *testing.T) {
	p := NewProcessor(memWriter{}, Options{}, nil)
	imgs, err := p.Process(context.Background(), memRepo{}, "red-castle")
	require.NoError(t, err)
	assert.False(t, imgs.HasGallery())
	assert.Nil(t, imgs.Banner)
}

func TestProcessSandboxEscapeIsFatal(t *testing.T) {
	sb, err := output.New(t.TempDir())
	require.NoError(t, err)
	repo := memRepo{images: map[string][]byte{"banner.png": encodePNG(t, 4, 4)}}
	p := NewProcessor(sb, Options{}, nil)

	_, err = p.Process(context.Background(), repo, "../../../escape")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Equal(t, errors.CategorySecurity, errors.GetCategory(err))
}
