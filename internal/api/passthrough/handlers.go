// internal/api/passthrough/handlers.go
package passthrough

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/api/shell"
	passthroughtempl "github.com/codr1/wfxconsole/internal/templates/components/passthrough"
	"github.com/codr1/wfxconsole/internal/widgets"
)

const (
	defaultWidget = "wfx-button"
	defaultProps  = "label=Hello&severity=success&raised=true"
)

var registry = widgets.Default

func InitHandlers(r *widgets.Registry) {
	if r != nil {
		registry = r
	}
}

// /passthrough
func HandlePage(w http.ResponseWriter, r *http.Request) {
	demos, err := demos()
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to build passthrough demos")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	data := passthroughtempl.PassthroughData{
		Demos:      demos,
		Playground: Playground(defaultWidget, defaultProps),
	}
	shell.Render(w, r, "Passthrough", passthroughtempl.Page(data))
}

// /passthrough/render
func HandleRender(w http.ResponseWriter, r *http.Request) {
	widget := apiutil.FirstNonEmpty(r.URL.Query().Get("widget"), defaultWidget)
	panel := Playground(widget, r.URL.Query().Get("props"))
	if panel.Error != "" {
		log.Ctx(r.Context()).Debug().Str("widget", widget).Str("error", panel.Error).Msg("Playground render rejected")
	}
	apiutil.RenderHTMLComponent(r.Context(), w, passthroughtempl.PlaygroundPanel(panel), nil, "Failed to render playground", "Failed to render playground")
}

// Playground renders widget with props given in query-string form. Contract
// violations are reported in the panel rather than as an HTTP error.
func Playground(widget, rawProps string) passthroughtempl.Playground {
	panel := passthroughtempl.Playground{Widget: widget, Props: rawProps}
	for _, spec := range registry.All() {
		panel.Widgets = append(panel.Widgets, spec.Name)
	}

	spec, ok := registry.Get(widget)
	if !ok {
		panel.Error = fmt.Sprintf("Unknown widget %q", widget)
		return panel
	}
	values, err := url.ParseQuery(rawProps)
	if err != nil {
		panel.Error = "Props must be in query-string form: " + err.Error()
		return panel
	}
	raw := make(map[string]string, len(values))
	for name := range values {
		raw[name] = values.Get(name)
	}
	props, err := widgets.CoerceProps(spec, raw)
	if err != nil {
		panel.Error = err.Error()
		return panel
	}
	component, err := widgets.Render(spec, props, nil)
	if err != nil {
		panel.Error = err.Error()
		return panel
	}
	panel.Result = component
	return panel
}

func demos() ([]passthroughtempl.Demo, error) {
	type instance struct {
		spec  widgets.Spec
		props widgets.Props
	}
	sets := []struct {
		title, icon, desc string
		instances         []instance
	}{
		{
			title: "Pass-through styling", icon: "pi pi-palette",
			desc: "The pt object is forwarded as JSON without inspection",
			instances: []instance{
				{widgets.WfxButton, widgets.Props{"label": "Rounded", "pt": map[string]any{"root": map[string]string{"class": "pt-rounded"}}}},
				{widgets.WfxButton, widgets.Props{"label": "Uppercase", "pt": map[string]any{"label": map[string]string{"style": "text-transform: uppercase"}}}},
			},
		},
		{
			title: "Severity and shape", icon: "pi pi-star",
			desc: "Enum and boolean props map one to one onto the widget",
			instances: []instance{
				{widgets.WfxButton, widgets.Props{"label": "Success", "severity": "success", "raised": true}},
				{widgets.WfxButton, widgets.Props{"label": "Danger", "severity": "danger", "outlined": true}},
				{widgets.WfxButton, widgets.Props{"label": "Help", "severity": "help", "rounded": true, "badge": "3"}},
			},
		},
		{
			title: "Inputs", icon: "pi pi-pencil",
			desc: "Defaults are omitted and everything else is written as an attribute",
			instances: []instance{
				{widgets.WfxInput, widgets.Props{"placeholder": "Plain input", "type": "text"}},
				{widgets.WfxInput, widgets.Props{"placeholder": "Disabled", "disabled": true}},
			},
		},
	}

	out := make([]passthroughtempl.Demo, 0, len(sets))
	for _, set := range sets {
		demo := passthroughtempl.Demo{Title: set.title, Icon: set.icon, Description: set.desc}
		for _, in := range set.instances {
			c, err := widgets.Render(in.spec, in.props, nil)
			if err != nil {
				return nil, err
			}
			demo.Instances = append(demo.Instances, c)
		}
		out = append(out, demo)
	}
	return out, nil
}
