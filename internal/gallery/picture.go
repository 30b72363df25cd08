package gallery

import (
	"strings"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// PictureType classifies an image by its file name prefix.
type PictureType string

const (
	TypeBanner  PictureType = "banner"
	TypePreview PictureType = "preview"
)

// Picture is a parsed image file name.
type Picture struct {
	BaseName    string
	BaseExt     string
	Type        PictureType
	Number      string
	Variant     string
	Description string
}

// ParsePictureName parses an image file name. Errors are warnings: the file
// is skipped and the mod continues.
func ParsePictureName(filename string) (Picture, error) {
	base, ext, ok := strings.Cut(filename, ".")
	if !ok || strings.Contains(ext, ".") {
		return Picture{}, errors.ValidationError("image files must have exactly one extension").
			WithContext("file", filename).
			Build()
	}

	parts := strings.SplitN(base, "-", 4)
	switch PictureType(parts[0]) {
	case TypeBanner:
		return Picture{BaseName: base, BaseExt: ext, Type: TypeBanner}, nil
	case TypePreview:
		if len(parts) < 2 {
			return Picture{}, errors.ValidationError("preview images require at least a number").
				WithContext("file", filename).
				Build()
		}
		p := Picture{BaseName: base, BaseExt: ext, Type: TypePreview, Number: parts[1]}
		switch len(parts) {
		case 3:
			if parts[2] == "a" || parts[2] == "b" {
				p.Variant = parts[2]
			} else {
				p.Description = parts[2]
			}
		case 4:
			p.Variant = parts[2]
			p.Description = parts[3]
		}
		return p, nil
	default:
		return Picture{}, errors.ValidationError("unknown image type prefix").
			WithContext("file", filename).
			WithContext("prefix", parts[0]).
			Build()
	}
}

// ID identifies the picture within its mod. The description never takes part.
func (p Picture) ID() string {
	if p.Type == TypeBanner {
		return string(TypeBanner)
	}
	id := string(TypePreview) + "-" + p.Number
	if p.Variant != "" {
		id += "-" + p.Variant
	}
	return id
}

// OutName is the published file name for ext, with optional suffixes such as "thumb".
func (p Picture) OutName(ext string, suffix ...string) string {
	name := p.ID()
	for _, s := range suffix {
		name += "-" + s
	}
	return name + "." + ext
}
