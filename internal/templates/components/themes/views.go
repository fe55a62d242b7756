package themes

import (
	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/templates/markup"
)

// Switcher is the header dropdown. Each option posts its id and the page
// updates from the themeChanged trigger.
func Switcher(options []Option) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		var current Option
		for _, opt := range options {
			if opt.IsActive {
				current = opt
			}
		}
		w.Raw(`<details class="theme-switcher">`)
		w.Printf(`<summary class="theme-switcher__toggle" title="Change theme"><i class="%s"></i> <span>%s</span></summary>`,
			current.Icon, current.Name)
		w.Raw(`<div class="theme-switcher__menu">`)
		for _, opt := range options {
			w.Printf(`<button type="button" class="theme-option%s" data-theme-option="%s" hx-post="/api/v1/theme" hx-vals='{"theme_id":"%s"}' hx-swap="none">`,
				markup.If(opt.IsActive, " active"), opt.ID, opt.ID)
			w.Printf(`<span class="theme-option__swatch" style="background: %s"></span>`, opt.Colors.Gradient)
			w.Printf(`<i class="%s"></i><span>%s</span>`, opt.Icon, opt.Name)
			if opt.IsActive {
				w.Raw(`<i class="pi pi-check"></i>`)
			}
			w.Raw(`</button>`)
		}
		w.Raw(`</div></details>`)
	})
}
