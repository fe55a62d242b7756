package grid

import (
	"fmt"
	"strings"

	"github.com/codr1/wfxconsole/internal/themes"
)

type Border struct {
	Color string `json:"color"`
	Width int    `json:"width"`
	Style string `json:"style"`
}

// Params are the grid's theme parameters.
type Params struct {
	HeaderBackgroundColor      string `json:"headerBackgroundColor"`
	HeaderTextColor            string `json:"headerTextColor"`
	BackgroundColor            string `json:"backgroundColor"`
	ForegroundColor            string `json:"foregroundColor"`
	OddRowBackgroundColor      string `json:"oddRowBackgroundColor"`
	RowHoverColor              string `json:"rowHoverColor"`
	SelectedRowBackgroundColor string `json:"selectedRowBackgroundColor"`
	AccentColor                string `json:"accentColor"`
	FontSize                   int    `json:"fontSize"`
	BorderColor                string `json:"borderColor"`
	RowBorder                  Border `json:"rowBorder"`
}

// BaseParams is the light palette before any theme accent is applied.
var BaseParams = Params{
	HeaderBackgroundColor:      "#f8fafc",
	HeaderTextColor:            "#334155",
	BackgroundColor:            "#ffffff",
	ForegroundColor:            "#1e293b",
	OddRowBackgroundColor:      "#fafbfc",
	RowHoverColor:              "#e0f2fe",
	SelectedRowBackgroundColor: "#dbeafe",
	AccentColor:                "#0ea5e9",
	FontSize:                   14,
	BorderColor:                "#e2e8f0",
	RowBorder:                  Border{Color: "#f1f5f9", Width: 1, Style: "solid"},
}

// ParamsFor derives grid parameters from the active theme. Dark themes get a
// dark palette with the accent mixed toward the surface.
func ParamsFor(theme themes.Theme) Params {
	p := BaseParams
	primary := theme.Colors.Primary
	p.AccentColor = primary
	p.HeaderBackgroundColor = themes.Lighten(primary, 0.9)
	p.RowHoverColor = themes.Lighten(primary, 0.85)
	p.SelectedRowBackgroundColor = themes.Lighten(primary, 0.75)

	if theme.IsDark {
		p.HeaderBackgroundColor = "#1e293b"
		p.HeaderTextColor = "#e2e8f0"
		p.BackgroundColor = "#0f172a"
		p.ForegroundColor = "#e2e8f0"
		p.OddRowBackgroundColor = "#131c31"
		p.RowHoverColor = "#1e293b"
		p.SelectedRowBackgroundColor = "#334155"
		p.BorderColor = "#334155"
		p.RowBorder = Border{Color: "#1e293b", Width: 1, Style: "solid"}
		p.AccentColor = themes.Lighten(primary, 0.2)
	}
	return p
}

// CSS renders p as custom properties scoped to the grid container.
func (p Params) CSS(selector string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s{", selector)
	fmt.Fprintf(&b, "--grid-header-bg:%s;", p.HeaderBackgroundColor)
	fmt.Fprintf(&b, "--grid-header-fg:%s;", p.HeaderTextColor)
	fmt.Fprintf(&b, "--grid-bg:%s;", p.BackgroundColor)
	fmt.Fprintf(&b, "--grid-fg:%s;", p.ForegroundColor)
	fmt.Fprintf(&b, "--grid-odd-row-bg:%s;", p.OddRowBackgroundColor)
	fmt.Fprintf(&b, "--grid-row-hover:%s;", p.RowHoverColor)
	fmt.Fprintf(&b, "--grid-row-selected:%s;", p.SelectedRowBackgroundColor)
	fmt.Fprintf(&b, "--grid-accent:%s;", p.AccentColor)
	fmt.Fprintf(&b, "--grid-font-size:%dpx;", p.FontSize)
	fmt.Fprintf(&b, "--grid-border:%s;", p.BorderColor)
	fmt.Fprintf(&b, "--grid-row-border:%dpx %s %s;", p.RowBorder.Width, p.RowBorder.Style, p.RowBorder.Color)
	b.WriteString("}")
	return b.String()
}
