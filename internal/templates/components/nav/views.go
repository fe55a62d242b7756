package nav

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/templates/markup"
)

// Sidebar renders the navigation with the item matching activePath marked.
func Sidebar(activePath string, collapsed bool) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Printf(`<aside id="sidebar" class="sidebar%s">`, markup.If(collapsed, " sidebar--collapsed"))
		w.Raw(`<nav class="sidebar__nav">`)
		for _, item := range Items {
			active := item.IsActive(activePath)
			w.Printf(`<a href="%s" class="sidebar__item%s"%s>`,
				item.Path,
				markup.If(active, " sidebar__item--active"),
				markup.HTML(markup.If(active, ` aria-current="page"`)))
			w.Printf(`<i class="%s"></i>`, item.Icon)
			if !collapsed {
				w.Printf(`<span>%s</span>`, item.Label)
			}
			w.Raw(`</a>`)
		}
		w.Raw(`</nav>`)

		icon := "pi pi-angle-left"
		if collapsed {
			icon = "pi pi-angle-right"
		}
		w.Raw(`<div class="sidebar__footer">`)
		toggle := url.Values{"collapsed": {strconv.FormatBool(!collapsed)}, "path": {activePath}}
		w.Printf(`<button class="sidebar__collapse-btn" hx-post="/api/v1/settings/sidebar?%s" hx-target="#sidebar" hx-swap="outerHTML">`,
			toggle.Encode())
		w.Printf(`<i class="%s"></i></button>`, icon)
		w.Raw(`</div></aside>`)
	})
}

// Menu renders the compact mobile menu.
func Menu(activePath string) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div id="mobile-menu" class="mobile-menu"><ul>`)
		for _, item := range Items {
			w.Printf(`<li><a href="%s" class="%s"><i class="%s"></i> %s</a></li>`,
				item.Path, markup.If(item.IsActive(activePath), "active"), item.Icon, item.Label)
		}
		w.Raw(`<li><button hx-get="/menu/close" hx-target="#mobile-menu" hx-swap="outerHTML">Close</button></li>`)
		w.Raw(`</ul></div>`)
	})
}
