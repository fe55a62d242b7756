package passthrough

import "github.com/a-h/templ"

type Demo struct {
	Title       string
	Icon        string
	Description string
	Instances   []templ.Component
}

// Playground renders one wrapper from user-supplied props.
type Playground struct {
	Widgets []string
	Widget  string
	// Props is the raw query-string form of the submitted props.
	Props  string
	Result templ.Component
	Error  string
}

type PassthroughData struct {
	Demos      []Demo
	Playground Playground
}
