package passthrough

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/templates/markup"
)

func Page(data PassthroughData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div class="passthrough-demo">`)
		w.Raw(`<div class="demo-header"><h2>Passthrough Demo</h2><p>Props reach the underlying widget untouched, including pt styling objects</p></div>`)
		for _, demo := range data.Demos {
			w.Raw(`<section class="demo-section">`)
			w.Printf(`<h3><i class="%s"></i> %s</h3><p class="section-desc">%s</p>`, demo.Icon, demo.Title, demo.Description)
			w.Raw(`<div class="demo-row">`)
			for _, instance := range demo.Instances {
				w.Component(instance)
			}
			w.Raw(`</div></section>`)
		}
		w.Component(PlaygroundPanel(data.Playground))
		w.Raw(`</div>`)
	})
}

// PlaygroundPanel is swapped in place on every render request.
func PlaygroundPanel(p Playground) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<section id="playground" class="demo-section">`)
		w.Raw(`<h3><i class="pi pi-sliders-h"></i> Playground</h3>`)
		w.Raw(`<p class="section-desc">Props use query-string form, for example <code>label=Save&amp;severity=success&amp;raised=true</code></p>`)
		w.Raw(`<form hx-get="/passthrough/render" hx-target="#playground" hx-swap="outerHTML" hx-push-url="false">`)
		w.Raw(`<select name="widget">`)
		for _, name := range p.Widgets {
			w.Printf(`<option value="%s"%s>%s</option>`, name, markup.HTML(markup.If(name == p.Widget, " selected")), name)
		}
		w.Raw(`</select>`)
		w.Printf(`<input type="text" name="props" value="%s" placeholder="label=Hello">`, p.Props)
		w.Raw(`<button type="submit">Render</button></form>`)

		if p.Error != "" {
			w.Printf(`<div class="error-banner">%s</div>`, p.Error)
		}
		if p.Result != nil {
			var b strings.Builder
			if err := p.Result.Render(w.Context(), &b); err != nil {
				w.Fail(err)
				return
			}
			w.Raw(`<div class="demo-row">`)
			w.Raw(b.String())
			w.Raw(`</div>`)
			w.Printf(`<pre class="code-block"><code>%s</code></pre>`, b.String())
		}
		w.Raw(`</section>`)
	})
}
