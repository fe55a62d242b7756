package library

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/templates/markup"
)

func Index(data IndexData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div class="wfx-library"><header class="wfx-library__header">`)
		w.Raw(`<div class="header-content"><div class="header-icon"><i class="pi pi-box"></i></div>`)
		w.Raw(`<div class="header-text"><h1>WFX Common Library</h1><p>A collection of reusable wrapper components for PrimeNG</p></div></div>`)
		w.Printf(`<div class="header-stats"><div class="stat"><span class="stat-value">%d</span><span class="stat-label">Components</span></div>`, data.Total)
		w.Printf(`<div class="stat"><span class="stat-value">%d</span><span class="stat-label">Libraries</span></div></div>`, len(data.Groups))
		w.Raw(`</header>`)

		for _, group := range data.Groups {
			w.Raw(`<section class="wfx-library__category">`)
			w.Printf(`<h2 class="category-title"><i class="%s"></i> %s</h2>`, group.Icon, group.Title)
			w.Raw(`<div class="component-grid">`)
			for _, spec := range group.Specs {
				w.Printf(`<a href="/library/%s" class="component-card">`, spec.Name)
				w.Printf(`<div class="card-content"><h3>%s</h3><p>%s</p></div>`, spec.Name, spec.Summary)
				w.Printf(`<div class="card-meta"><code>&lt;%s&gt;</code> %d props, %d events</div>`, spec.Element, len(spec.Props), len(spec.Events))
				w.Raw(`</a>`)
			}
			w.Raw(`</div></section>`)
		}
		w.Raw(`</div>`)
	})
}

func Showcase(data ShowcaseData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		spec := data.Spec
		w.Raw(`<div class="wfx-showcase">`)
		w.Raw(`<a href="/library" class="back-link"><i class="pi pi-arrow-left"></i> Library</a>`)
		w.Printf(`<h2>%s</h2><p>%s</p>`, spec.Name, spec.Summary)
		w.Printf(`<p class="showcase__element">Renders <code>&lt;%s&gt;</code>`, spec.Element)
		if spec.FormControl {
			w.Printf(` and binds a %s form value`, spec.ValueKind.String())
		}
		w.Raw(`.</p>`)

		for _, ex := range data.Examples {
			w.Raw(`<section class="showcase__example">`)
			w.Printf(`<h3>%s</h3>`, ex.Title)
			if ex.Description != "" {
				w.Printf(`<p>%s</p>`, ex.Description)
			}
			var source strings.Builder
			w.Raw(`<div class="showcase__instances">`)
			for _, instance := range ex.Instances {
				var b strings.Builder
				if err := instance.Render(w.Context(), &b); err != nil {
					w.Fail(err)
					return
				}
				w.Raw(b.String())
				source.WriteString(b.String())
				source.WriteString("\n")
			}
			w.Raw(`</div>`)
			w.Printf(`<pre class="code-block"><code>%s</code></pre>`, strings.TrimSpace(source.String()))
			w.Raw(`</section>`)
		}

		w.Raw(`<section class="showcase__api"><h3>Properties</h3>`)
		w.Raw(`<table class="api-table"><thead><tr><th>Name</th><th>Kind</th><th>Default</th><th>Values</th></tr></thead><tbody>`)
		for _, prop := range spec.Props {
			w.Printf(`<tr><td><code>%s</code></td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				prop.Name, prop.Kind.String(), prop.Default, strings.Join(prop.Values, ", "))
		}
		w.Raw(`</tbody></table>`)

		w.Raw(`<h3>Events</h3>`)
		if len(spec.Events) == 0 {
			w.Raw(`<p>None.</p>`)
		} else {
			w.Raw(`<ul class="api-events">`)
			for _, event := range spec.Events {
				w.Printf(`<li><code>%s</code></li>`, event)
			}
			w.Raw(`</ul>`)
		}
		w.Raw(`</section></div>`)
	})
}
