package modinfo

import (
	"os"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// HeaderInstanceName is the only header of nextmod-config.md.
const HeaderInstanceName = "Instance Name"

// Instance is the site-wide configuration read from nextmod-config.md.
type Instance struct {
	Name string
}

type instanceParser struct {
	inst   *Instance
	header string
}

func (p *instanceParser) Header(text string) { p.header = text }
func (p *instanceParser) Item(text string)   { p.Text(text) }
func (p *instanceParser) Text(line string) {
	if p.header == HeaderInstanceName {
		p.inst.Name = line
		p.header = ""
	}
}

// ParseInstance parses nextmod-config.md content.
func ParseInstance(content []byte) Instance {
	var inst Instance
	Parse(content, &instanceParser{inst: &inst})
	return inst
}

// LoadInstance reads the instance file at path. The file is required; a
// missing or unreadable file is a fatal configuration error.
func LoadInstance(path string) (Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Instance{}, errors.ConfigError("instance configuration not readable").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return ParseInstance(data), nil
}
