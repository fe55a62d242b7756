package layouts

import (
	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/templates/markup"
	"github.com/codr1/wfxconsole/internal/themes"
)

// ThemeStyle renders the active theme's custom properties. The client
// script replaces its text when the theme changes.
func ThemeStyle(theme themes.Theme) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<style id="theme-vars">`)
		// CSSVars only contains validated hex colours and gradients.
		w.Raw(themeCSSVars(theme))
		w.Raw(`</style>`)
	})
}

func themeCSSVars(theme themes.Theme) string {
	if theme.ID == "" || theme.Validate() != nil {
		return ""
	}
	return theme.CSSVars()
}
