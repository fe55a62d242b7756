package settings

import (
	"github.com/a-h/templ"

	themetempl "github.com/codr1/wfxconsole/internal/templates/components/themes"
	"github.com/codr1/wfxconsole/internal/templates/markup"
	"github.com/codr1/wfxconsole/internal/widgets"
)

type previewButton struct {
	label, variant, icon string
}

var previewButtons = [][]previewButton{
	{
		{"Primary", "primary", "pi pi-check"},
		{"Secondary", "secondary", "pi pi-star"},
		{"Success", "success", "pi pi-check-circle"},
		{"Warning", "warning", "pi pi-exclamation-triangle"},
		{"Danger", "danger", "pi pi-times-circle"},
	},
	{
		{"Outlined", "outlined", "pi pi-bookmark"},
		{"Text", "text", "pi pi-link"},
	},
}

type preference struct {
	name, label, desc string
	value             func(Preferences) bool
}

var preferenceRows = []preference{
	{"compactMode", "Compact Mode", "Reduce spacing and padding", func(p Preferences) bool { return p.CompactMode }},
	{"animations", "Animations", "Enable interface animations", func(p Preferences) bool { return p.Animations }},
	{"sidebarCollapsed", "Collapsed Sidebar", "Start with the sidebar collapsed", func(p Preferences) bool { return p.SidebarCollapsed }},
}

func Page(data SettingsData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div class="settings">`)
		w.Raw(`<div class="settings__header"><h2>Settings</h2><p>Customize your application experience</p></div>`)

		section(w, "pi pi-palette", "Appearance", "Choose your preferred color theme")
		w.Component(ThemeCards(data.Themes))
		w.Raw(`</section>`)

		section(w, "pi pi-eye", "Preview", "See how elements look with current theme")
		w.Raw(`<div class="preview-container">`)
		for _, row := range previewButtons {
			w.Raw(`<div class="preview-row">`)
			for _, b := range row {
				c, err := widgets.Render(widgets.UIButton, widgets.Props{"label": b.label, "variant": b.variant, "icon": b.icon}, nil)
				if err != nil {
					w.Fail(err)
					return
				}
				w.Component(c)
			}
			w.Raw(`</div>`)
		}
		w.Raw(`</div></section>`)

		section(w, "pi pi-cog", "Preferences", "General application preferences")
		w.Component(PreferencesForm(data.Preferences))
		w.Raw(`</section></div>`)
	})
}

func section(w *markup.Writer, icon, title, desc string) {
	w.Raw(`<section class="settings__section">`)
	w.Printf(`<div class="section-header"><i class="%s"></i><div><h3>%s</h3><p>%s</p></div></div>`, icon, title, desc)
}

// ThemeCards is the settings theme grid with colour dots and a dark badge.
func ThemeCards(options []themetempl.Option) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div id="theme-grid" class="theme-grid">`)
		for _, opt := range options {
			w.Printf(`<button type="button" class="theme-card%s" data-theme-option="%s" hx-post="/api/v1/theme" hx-vals='{"theme_id":"%s"}' hx-target="#theme-grid" hx-swap="outerHTML">`,
				markup.If(opt.IsActive, " active"), opt.ID, opt.ID)
			w.Printf(`<div class="theme-card__preview" style="background: %s"><i class="%s"></i></div>`, opt.Colors.Gradient, opt.Icon)
			w.Printf(`<div class="theme-card__colors"><span class="color-dot" style="background: %s"></span><span class="color-dot" style="background: %s"></span></div>`,
				opt.Colors.Primary, opt.SecondaryColor())
			w.Printf(`<div class="theme-card__label"><span class="theme-card__name">%s</span>`, opt.Name)
			if opt.IsDark {
				w.Raw(`<span class="theme-card__badge">Dark</span>`)
			}
			if opt.IsActive {
				w.Raw(`<i class="pi pi-check"></i>`)
			}
			w.Raw(`</div></button>`)
		}
		w.Raw(`</div>`)
	})
}

// PreferencesForm renders one switch per preference, saved on change.
func PreferencesForm(prefs Preferences) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<form id="preferences" class="preferences-list" hx-post="/api/v1/settings/preferences" hx-trigger="change" hx-target="#preferences" hx-swap="outerHTML">`)
		for _, row := range preferenceRows {
			control, err := widgets.NewControl(widgets.UISwitch, row.name)
			if err != nil {
				w.Fail(err)
				return
			}
			control.WriteValue(row.value(prefs))
			c, err := control.Render(widgets.Props{"inputId": row.name}, nil)
			if err != nil {
				w.Fail(err)
				return
			}
			w.Raw(`<div class="preference-item">`)
			w.Printf(`<div class="preference-info"><label class="preference-label" for="%s">%s</label><span class="preference-desc">%s</span></div>`,
				row.name, row.label, row.desc)
			w.Component(c)
			w.Raw(`</div>`)
		}
		w.Raw(`</form>`)
	})
}
