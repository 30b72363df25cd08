package gallery

import (
	"context"
	"image"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/metrics"
	"gitlab.com/nextmod/nextmod/internal/sitepath"
)

// Writer stores published files by logical path. *output.Sandbox implements it.
type Writer interface {
	WriteFile(logical string, data []byte) error
}

// Options tune the image pipeline.
type Options struct {
	// SkipTranscode publishes the original bytes only, without thumbnails.
	SkipTranscode bool
	ThumbnailSize int
	JPEGQuality   int
}

// Processor publishes the images of mods.
type Processor struct {
	out      Writer
	opts     Options
	recorder metrics.Recorder
}

// NewProcessor creates a processor writing through out.
func NewProcessor(out Writer, opts Options, recorder metrics.Recorder) *Processor {
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = 360
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 75
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Processor{out: out, opts: opts, recorder: recorder}
}

// Process publishes every image of repo under mw/<modID>/image/. Per-file
// problems are logged and skipped; the returned error is always fatal.
func (p *Processor) Process(ctx context.Context, repo forge.Repository, modID string) (Images, error) {
	var (
		banner   []Source
		previews []PreviewEntry
	)

	for name := range repo.ListDir(ctx, forge.ImageDir) {
		pic, err := ParsePictureName(name)
		if err != nil {
			slog.Warn("Skipping image", logfields.Mod(modID), logfields.File(name), logfields.Error(err))
			p.recorder.IncImageResult("unknown", metrics.ResultSkipped)
			continue
		}

		sources, thumbs, err := p.publish(ctx, repo, modID, name, pic)
		if err != nil {
			if errors.IsFatal(err) {
				p.recorder.IncImageResult(string(pic.Type), metrics.ResultFatal)
				return Images{}, err
			}
			slog.Warn("Failed to process image", logfields.Mod(modID), logfields.File(name), logfields.Error(err))
			p.recorder.IncImageResult(string(pic.Type), metrics.ResultFailed)
			continue
		}
		p.recorder.IncImageResult(string(pic.Type), metrics.ResultSuccess)

		switch pic.Type {
		case TypeBanner:
			banner = sources
		case TypePreview:
			previews = append(previews, PreviewEntry{ID: pic.ID(), Sources: sources, ThumbSources: thumbs})
		}
	}

	return newImages(banner, previews), nil
}

// publish writes all renditions of one file. Thumbnails are only produced for previews.
func (p *Processor) publish(ctx context.Context, repo forge.Repository, modID, name string, pic Picture) ([]Source, []Source, error) {
	data, ok := repo.GetFile(ctx, path.Join(forge.ImageDir, name))
	if !ok {
		return nil, nil, errors.ImageError("image could not be read").WithContext("file", name).Build()
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, nil, errors.ImageError("file is not an image").
			WithContext("file", name).
			WithContext("detected", mime.String()).
			Build()
	}

	out := imageWriter{out: p.out, dir: path.Join(sitepath.ItemDir(modID), forge.ImageDir), recorder: p.recorder}

	if p.opts.SkipTranscode {
		src, err := out.write(pic.OutName(pic.BaseExt), mime.String(), data)
		if err != nil {
			return nil, nil, err
		}
		sources := []Source{src}
		return sources, sources, nil
	}

	img, format, err := decode(data)
	if err != nil {
		return nil, nil, errors.ImageError("failed to decode image").
			WithCause(err).
			WithContext("file", name).
			Build()
	}
	if !slices.Contains(acceptedExtensions[format], strings.ToLower(pic.BaseExt)) {
		slog.Error("Image file extension does not match actual image type",
			logfields.Mod(modID), logfields.File(name), logfields.Format(format), slog.String("extension", pic.BaseExt))
	}

	var sources []Source
	if format == formatPNG {
		sources, err = p.webPair(out, pic, img)
	} else {
		sources, err = p.reencode(out, pic, img, format)
	}
	if err != nil {
		return nil, nil, err
	}

	if pic.Type != TypePreview {
		return sources, nil, nil
	}
	thumbs, err := p.webPair(out, pic, thumbnail(img, p.opts.ThumbnailSize), "thumb")
	if err != nil {
		return nil, nil, err
	}
	return sources, thumbs, nil
}

// webPair publishes img as a flattened JPEG and a lossless WebP.
func (p *Processor) webPair(out imageWriter, pic Picture, img image.Image, suffix ...string) ([]Source, error) {
	jpg, err := encodeJPEG(img, p.opts.JPEGQuality)
	if err != nil {
		return nil, errors.ImageError("failed to encode JPEG").WithCause(err).Build()
	}
	webp, err := encodeWebP(img)
	if err != nil {
		return nil, errors.ImageError("failed to encode WebP").WithCause(err).Build()
	}

	jpgSrc, err := out.write(pic.OutName("jpg", suffix...), "image/jpeg", jpg)
	if err != nil {
		return nil, err
	}
	webpSrc, err := out.write(pic.OutName("webp", suffix...), "image/webp", webp)
	if err != nil {
		return nil, err
	}
	return []Source{jpgSrc, webpSrc}, nil
}

// reencode publishes img in its own format under the original extension.
func (p *Processor) reencode(out imageWriter, pic Picture, img image.Image, format string) ([]Source, error) {
	data, err := encodeAs(img, format, p.opts.JPEGQuality)
	if err != nil {
		return nil, errors.ImageError("failed to re-encode image").
			WithCause(err).
			WithContext("format", format).
			Build()
	}
	src, err := out.write(pic.OutName(pic.BaseExt), mimeTypes[format], data)
	if err != nil {
		return nil, err
	}
	return []Source{src}, nil
}

// imageWriter writes into one mod's image directory.
type imageWriter struct {
	out      Writer
	dir      string
	recorder metrics.Recorder
}

func (w imageWriter) write(name, mime string, data []byte) (Source, error) {
	logical := path.Join(w.dir, name)
	if err := w.out.WriteFile(logical, data); err != nil {
		return Source{}, err
	}
	w.recorder.IncFileWritten("image", len(data))
	return Source{Path: logical, MimeType: mime}, nil
}
