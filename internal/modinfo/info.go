package modinfo

// Section headers recognized in mod-info.md.
const (
	HeaderName        = "Name"
	HeaderCreatedBy   = "Created by"
	HeaderCategory    = "Category"
	HeaderDescription = "Description"
	HeaderTags        = "Tags"
	HeaderReleaseDate = "Release date"
	HeaderUpdateDate  = "Last update date"
	HeaderVersion     = "Version"
)

// infoParser fills an Info. Single-value headers take the first line that
// follows and then forget the header, so stray lines are ignored. Multi-value
// headers stay active and append each line.
type infoParser struct {
	info   *Info
	header string
}

func (p *infoParser) Header(text string) { p.header = text }

func (p *infoParser) Item(text string) { p.Text(text) }

func (p *infoParser) Text(line string) {
	switch p.header {
	case HeaderName:
		p.info.Name = line
		p.header = ""
	case HeaderCreatedBy:
		p.info.Creators = append(p.info.Creators, NewCreator(line))
	case HeaderCategory:
		p.info.Category = NewCategory(line)
		p.header = ""
	case HeaderDescription:
		p.info.Description = line
		p.header = ""
	case HeaderTags:
		p.info.Tags = append(p.info.Tags, NewTag(line))
	case HeaderReleaseDate:
		p.info.ReleaseDate = line
		p.header = ""
	case HeaderUpdateDate:
		p.info.UpdateDate = line
		p.header = ""
	case HeaderVersion:
		p.info.Version = line
		p.header = ""
	}
}

// ParseInfo parses mod-info.md content. Nil content yields a zero Info.
func ParseInfo(content []byte) Info {
	var info Info
	Parse(content, &infoParser{info: &info})
	return info
}

// tagsParser reads tags.md: every line before the first header, or under a
// "Tags" header, is one tag.
type tagsParser struct {
	tags   []Tag
	header string
	seen   bool
}

func (p *tagsParser) Header(text string) {
	p.header = text
	p.seen = true
}

func (p *tagsParser) Item(text string) { p.Text(text) }

func (p *tagsParser) Text(line string) {
	if !p.seen || p.header == HeaderTags {
		p.tags = append(p.tags, NewTag(line))
	}
}

// ParseTags parses tags.md content.
func ParseTags(content []byte) []Tag {
	p := &tagsParser{}
	Parse(content, p)
	return p.tags
}

// WithTags returns a copy of info with extra appended after its own tags.
func (info Info) WithTags(extra []Tag) Info {
	if len(extra) == 0 {
		return info
	}
	tags := make([]Tag, 0, len(info.Tags)+len(extra))
	tags = append(tags, info.Tags...)
	info.Tags = append(tags, extra...)
	return info
}
