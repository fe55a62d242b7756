package assets

import (
	"embed"
	"io/fs"
)

//go:embed themes.yaml
var ThemesFS embed.FS

const ThemesPath = "themes.yaml"

//go:embed static
var staticFS embed.FS

// Static returns the embedded stylesheet and scripts rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
