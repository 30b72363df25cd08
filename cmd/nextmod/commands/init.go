package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/modinfo"
	"gitlab.com/nextmod/nextmod/internal/site"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force   bool   `help:"Overwrite existing configuration file"`
	Example string `help:"Also scaffold an example mod repository under this directory" type:"path"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(root.Config, i.Force, i.Example, os.Stdout)
}

// RunInit writes the example configuration and, when exampleDir is set, an
// example mod that the local source can build.
func RunInit(configPath string, force bool, exampleDir string, w io.Writer) error {
	_, _ = fmt.Fprintln(w, "Initializing nextmod project")
	_, _ = fmt.Fprintf(w, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(w, "Initialization failed")
		return err
	}

	if exampleDir != "" {
		dir := filepath.Join(exampleDir, "example-mod")
		_, _ = fmt.Fprintf(w, "Writing example mod to %s\n", dir)
		if err := scaffoldMod(dir, force); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(w, "initialized successfully")
	return nil
}

func exampleInfo() modinfo.Info {
	named := func(name string) (string, string) { return modinfo.CreateIDFromName(name), name }

	creatorID, creatorName := named("Example Author")
	categoryID, categoryName := named("Maps")
	tagID, tagName := named("Example")
	return modinfo.Info{
		Name:        "Example Mod",
		Creators:    []modinfo.Creator{{ID: creatorID, Name: creatorName}},
		Category:    modinfo.Category{ID: categoryID, Name: categoryName},
		Description: "A starting point for a new mod repository.",
		Tags:        []modinfo.Tag{{ID: tagID, Name: tagName}},
		ReleaseDate: "2024-01-01",
		UpdateDate:  "2024-01-01",
		Version:     "1.0",
	}
}

func scaffoldMod(dir string, force bool) error {
	infoPath := filepath.Join(dir, forge.ModInfoFile)
	if _, err := os.Stat(infoPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("example mod already exists: %s (use --force to overwrite)", dir)).Build()
	}

	files := map[string][]byte{
		infoPath: exampleInfo().Markdown(),
		filepath.Join(dir, forge.PageDir, site.PageSource): []byte("# About this mod\n\nDescribe the mod here.\n"),
		filepath.Join(dir, forge.DataDir, "readme.txt"):    []byte("Files under data/ are listed on the mod page.\n"),
	}
	for p, data := range files {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return errors.FileSystemError("failed to create directory").
				WithCause(err).
				WithContext("path", filepath.Dir(p)).
				Build()
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return errors.FileSystemError("failed to write example file").
				WithCause(err).
				WithContext("path", p).
				Build()
		}
	}
	return nil
}
