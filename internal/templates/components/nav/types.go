package nav

import "strings"

type Item struct {
	Label string
	Icon  string
	Path  string
}

// Items is the sidebar in display order.
var Items = []Item{
	{Label: "Dashboard", Icon: "pi pi-home", Path: "/"},
	{Label: "Users", Icon: "pi pi-users", Path: "/users"},
	{Label: "Forms", Icon: "pi pi-file-edit", Path: "/forms"},
	{Label: "Passthrough", Icon: "pi pi-sliders-h", Path: "/passthrough"},
	{Label: "Library", Icon: "pi pi-box", Path: "/library"},
	{Label: "Data Grid", Icon: "pi pi-table", Path: "/grid"},
	{Label: "Settings", Icon: "pi pi-cog", Path: "/settings"},
}

// IsActive matches "/" exactly and every other item by path prefix.
func (i Item) IsActive(path string) bool {
	if i.Path == "/" {
		return path == "/"
	}
	return path == i.Path || strings.HasPrefix(path, i.Path+"/")
}

// Title returns the label of the item matching path, or fallback.
func Title(path, fallback string) string {
	for _, item := range Items {
		if item.IsActive(path) {
			return item.Label
		}
	}
	return fallback
}
