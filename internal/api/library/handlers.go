// internal/api/library/handlers.go
package library

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/api/shell"
	"github.com/codr1/wfxconsole/internal/notify"
	librarytempl "github.com/codr1/wfxconsole/internal/templates/components/library"
	"github.com/codr1/wfxconsole/internal/widgets"
)

const maxVariants = 4

var registry = widgets.Default

func InitHandlers(r *widgets.Registry) {
	if r != nil {
		registry = r
	}
}

// /library
func HandleIndex(w http.ResponseWriter, r *http.Request) {
	groups := []librarytempl.Group{
		{Library: widgets.LibraryWFX, Title: "WFX Components", Icon: "pi pi-th-large", Specs: registry.ByLibrary(widgets.LibraryWFX)},
		{Library: widgets.LibraryUI, Title: "UI Components", Icon: "pi pi-palette", Specs: registry.ByLibrary(widgets.LibraryUI)},
	}
	total := 0
	for _, g := range groups {
		total += len(g.Specs)
	}
	shell.Render(w, r, "Library", librarytempl.Index(librarytempl.IndexData{Groups: groups, Total: total}))
}

// /library/{widget}
func HandleShowcase(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("widget")
	spec, ok := registry.Get(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	examples, err := Examples(spec)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("widget", name).Msg("Failed to build showcase")
		http.Error(w, "Failed to render showcase", http.StatusInternalServerError)
		return
	}
	shell.Render(w, r, spec.Name, librarytempl.Showcase(librarytempl.ShowcaseData{Spec: spec, Examples: examples}))
}

// /api/v1/library/widgets
func HandleWidgetsList(w http.ResponseWriter, r *http.Request) {
	apiutil.WriteJSON(w, http.StatusOK, registry.All())
}

// /api/v1/library/events receives events fired by showcase instances and
// echoes them back as a toast.
func HandleEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	name := r.FormValue("widget")
	event := r.FormValue("event")

	spec, ok := registry.Get(name)
	if !ok {
		http.Error(w, "Unknown widget", http.StatusBadRequest)
		return
	}
	if !spec.HasEvent(event) {
		http.Error(w, fmt.Sprintf("%s has no event %q", name, event), http.StatusBadRequest)
		return
	}

	log.Ctx(r.Context()).Debug().Str("widget", name).Str("event", event).Msg("Showcase event")
	shell.Toast(w, r, notify.SeverityInfo, notify.Options{Summary: name, Detail: event + " fired"})
	w.WriteHeader(http.StatusNoContent)
}

// EventHandlers wires every declared event of spec to the showcase event
// endpoint.
func EventHandlers(spec widgets.Spec) widgets.Handlers {
	handlers := make(widgets.Handlers, len(spec.Events))
	for _, event := range spec.Events {
		handlers[event] = fmt.Sprintf(
			"htmx.ajax('POST', '/api/v1/library/events', {values: {widget: '%s', event: '%s'}, swap: 'none'})",
			spec.Name, event)
	}
	return handlers
}

// Examples builds the live instances shown for spec: a basic instance, one
// row per visual enum prop and a row of states.
func Examples(spec widgets.Spec) ([]librarytempl.Example, error) {
	handlers := EventHandlers(spec)
	base := basicProps(spec)

	basic, err := widgets.Render(spec, base, handlers, children(spec)...)
	if err != nil {
		return nil, err
	}
	examples := []librarytempl.Example{{
		Title:       "Basic",
		Description: "Default configuration. Events post back to the server and show a toast.",
		Instances:   []templ.Component{basic},
	}}

	for _, name := range []string{"severity", "variant", "size"} {
		prop, ok := spec.Prop(name)
		if !ok || prop.Kind != widgets.KindEnum {
			continue
		}
		var instances []templ.Component
		for _, value := range prop.Values[:min(len(prop.Values), maxVariants)] {
			props := with(base, name, value)
			if _, ok := spec.Prop("label"); ok {
				props["label"] = value
			}
			c, err := widgets.Render(spec, props, nil, children(spec)...)
			if err != nil {
				return nil, err
			}
			instances = append(instances, c)
		}
		examples = append(examples, librarytempl.Example{Title: title(name), Instances: instances})
	}

	var states []templ.Component
	for _, name := range []string{"disabled", "loading", "invalid", "readonly"} {
		if prop, ok := spec.Prop(name); !ok || prop.Kind != widgets.KindBool {
			continue
		}
		c, err := widgets.Render(spec, with(base, name, true), nil, children(spec)...)
		if err != nil {
			return nil, err
		}
		states = append(states, c)
	}
	if len(states) > 0 {
		examples = append(examples, librarytempl.Example{Title: "States", Instances: states})
	}
	return examples, nil
}

func basicProps(spec widgets.Spec) widgets.Props {
	props := widgets.Props{}
	set := func(name string, value any) {
		if _, ok := spec.Prop(name); ok {
			props[name] = value
		}
	}
	set("label", "Save")
	set("header", "Header")
	set("placeholder", "Type here")
	set("inputId", spec.Name+"-demo")
	if prop, ok := spec.Prop("options"); ok && prop.Kind == widgets.KindJSON {
		props["options"] = []map[string]string{{"label": "Option A", "value": "a"}, {"label": "Option B", "value": "b"}}
	}
	return props
}

func children(spec widgets.Spec) []templ.Component {
	switch spec.Name {
	case "wfx-card", "wfx-dialog":
		return []templ.Component{templ.Raw(`<p>Content projected into the wrapper.</p>`)}
	}
	return nil
}

func with(base widgets.Props, name string, value any) widgets.Props {
	props := make(widgets.Props, len(base)+1)
	for k, v := range base {
		props[k] = v
	}
	props[name] = value
	return props
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
