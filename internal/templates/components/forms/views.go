package forms

import (
	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/templates/markup"
)

func Page(data FormData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div class="forms-demo"><h2>Forms Demo</h2><p>Wrapper controls bound to a server-validated form</p>`)
		w.Component(Form(data))
		w.Raw(`</div>`)
	})
}

// Form is the swappable form body; submit and reset replace it in place.
func Form(data FormData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<form id="forms-demo" class="demo-form" hx-post="/forms" hx-target="#forms-demo" hx-swap="outerHTML" hx-disabled-elt="find button[type='submit']" novalidate>`)
		for _, section := range data.Sections {
			w.Raw(`<div class="form-section">`)
			w.Printf(`<h3 class="form-section__title"><i class="%s"></i> %s</h3>`, section.Icon, section.Title)
			w.Printf(`<div class="form-grid%s">`, markup.If(section.Single, " form-grid--single"))
			for _, field := range section.Fields {
				w.Printf(`<div class="form-field%s">`, markup.If(field.Error != "", " form-field--invalid"))
				if field.Label != "" {
					w.Printf(`<label for="%s">%s%s</label>`, field.Name, field.Label, markup.If(field.Required, " *"))
				}
				w.Component(field.Component)
				if field.Error != "" {
					w.Printf(`<small class="field-error">%s</small>`, field.Error)
				}
				w.Raw(`</div>`)
			}
			w.Raw(`</div></div>`)
		}

		w.Raw(`<div class="form-actions">`)
		for _, action := range data.Actions {
			w.Component(action)
		}
		w.Raw(`</div>`)

		if data.Summary != nil {
			w.Raw(`<div class="form-summary"><h3>Submitted values</h3><dl>`)
			for _, row := range data.Summary.Rows {
				w.Printf(`<dt>%s</dt><dd>%s</dd>`, row[0], row[1])
			}
			w.Raw(`</dl></div>`)
		}
		w.Raw(`</form>`)
	})
}
