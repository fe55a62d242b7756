package library

import (
	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/widgets"
)

type Group struct {
	Library string
	Title   string
	Icon    string
	Specs   []widgets.Spec
}

type IndexData struct {
	Groups []Group
	Total  int
}

// Example is one labelled row of live instances on a showcase page.
type Example struct {
	Title       string
	Description string
	Instances   []templ.Component
}

type ShowcaseData struct {
	Spec     widgets.Spec
	Examples []Example
}
