package dashboard

import (
	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/templates/markup"
)

func Page(data DashboardData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div class="dashboard"><h2>Dashboard</h2>`)
		w.Printf(`<p class="dashboard__subtitle">%s</p>`, data.Subtitle)
		w.Raw(`<div class="dashboard__cards">`)
		for _, card := range data.Cards {
			iconClass := "dashboard__card-icon"
			if card.Variant != "" {
				iconClass += " dashboard__card-icon--" + card.Variant
			}
			w.Raw(`<div class="dashboard__card">`)
			w.Printf(`<div class="%s"><i class="%s"></i></div>`, iconClass, card.Icon)
			w.Printf(`<div class="dashboard__card-content"><span class="dashboard__card-value">%s</span><span class="dashboard__card-label">%s</span></div>`,
				card.Value, card.Label)
			w.Raw(`</div>`)
		}
		w.Raw(`</div></div>`)
	})
}
