package forms

import "github.com/a-h/templ"

type Field struct {
	Name      string
	Label     string
	Required  bool
	Component templ.Component
	Error     string
}

type Section struct {
	Title  string
	Icon   string
	Single bool
	Fields []Field
}

// Summary lists normalised values after a successful submit.
type Summary struct {
	Rows [][2]string
}

type FormData struct {
	Sections []Section
	Actions  []templ.Component
	Summary  *Summary
}
