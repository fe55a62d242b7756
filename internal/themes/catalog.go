package themes

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/codr1/wfxconsole/assets"
)

type catalogFile struct {
	Themes []Theme `yaml:"themes"`
}

// ParseCatalog reads a YAML theme catalogue. Unknown fields are rejected.
func ParseCatalog(r io.Reader) (*Registry, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file catalogFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyRegistry
		}
		return nil, fmt.Errorf("parse theme catalogue: %w", err)
	}
	return NewRegistry(file.Themes...)
}

// LoadCatalog parses the embedded assets/themes.yaml.
func LoadCatalog() (*Registry, error) {
	file, err := assets.ThemesFS.Open(assets.ThemesPath)
	if err != nil {
		return nil, fmt.Errorf("open embedded themes file: %w", err)
	}
	defer file.Close()

	return ParseCatalog(file)
}
