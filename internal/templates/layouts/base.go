package layouts

import (
	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/templates/components/nav"
	themetempl "github.com/codr1/wfxconsole/internal/templates/components/themes"
	"github.com/codr1/wfxconsole/internal/templates/markup"
	"github.com/codr1/wfxconsole/internal/themes"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Page carries what the shell needs around a feature's content.
type Page struct {
	AppName string
	Title   string
	Path    string
	// MarkerValue is the rendered data-theme attribute.
	MarkerValue string
	Theme       themes.Theme
	Themes      []themes.Theme
	Toasts      []notify.Message

	Compact          bool
	Animations       bool
	SidebarCollapsed bool
	Authenticated    bool
}

// Base renders the full shell: header with theme switcher, sidebar, content
// and toast region.
func Base(page Page, content templ.Component) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		head(w, page)

		classes := markup.If(page.Compact, "compact") + markup.If(!page.Animations, " no-animations")
		w.Printf(`<body class="%s" hx-boost="true">`, classes)
		w.Raw(`<div class="shell">`)

		w.Raw(`<header class="header"><div class="header__left">`)
		w.Printf(`<h1 class="header__title">%s</h1>`, page.AppName)
		w.Raw(`</div><div class="header__right">`)
		w.Component(themetempl.Switcher(themetempl.NewOptions(page.Themes, page.Theme.ID)))
		if page.Authenticated {
			w.Raw(`<form method="post" action="/logout" class="header__logout"><button type="submit"><i class="pi pi-sign-out"></i></button></form>`)
		}
		w.Raw(`</div></header>`)

		w.Raw(`<div class="shell__body">`)
		w.Component(nav.Sidebar(page.Path, page.SidebarCollapsed))
		w.Raw(`<main id="main" class="shell__content">`)
		w.Component(content)
		w.Raw(`</main></div></div>`)

		w.Component(Toasts(page.Toasts))
		w.Raw(`<script src="/static/app.js" defer></script>`)
		w.Raw(`</body></html>`)
	})
}

// Bare renders a page without the shell, used by the login screen.
func Bare(page Page, content templ.Component) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		head(w, page)
		w.Raw(`<body class="bare">`)
		w.Component(content)
		w.Component(Toasts(page.Toasts))
		w.Raw(`<script src="/static/app.js" defer></script>`)
		w.Raw(`</body></html>`)
	})
}

func head(w *markup.Writer, page Page) {
	marker := page.MarkerValue
	if marker == "" {
		marker = page.Theme.ID
	}
	title := page.AppName
	if page.Title != "" {
		title = page.Title + " | " + page.AppName
	}

	w.Raw(`<!DOCTYPE html>`)
	w.Printf(`<html lang="en" data-theme="%s">`, marker)
	w.Raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	w.Printf(`<title>%s</title>`, title)
	w.Raw(`<link rel="stylesheet" href="https://unpkg.com/primeicons@7.0.0/primeicons.css">`)
	w.Raw(`<link rel="stylesheet" href="/static/app.css">`)
	w.Component(ThemeStyle(page.Theme))
	w.Printf(`<script src="%s"></script>`, htmxSrc)
	w.Raw(`</head>`)
}

// Toasts renders queued messages into the toast region.
func Toasts(messages []notify.Message) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div id="toast-region" aria-live="polite">`)
		for _, msg := range messages {
			w.Printf(`<div class="toast toast--%s" data-toast data-life="%d" data-sticky="%t"><strong>%s</strong>`,
				string(msg.Severity), msg.Life, msg.Sticky, msg.Summary)
			if msg.Detail != "" {
				w.Printf(`<p>%s</p>`, msg.Detail)
			}
			w.Raw(`</div>`)
		}
		w.Raw(`</div>`)
	})
}
