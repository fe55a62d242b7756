package widgets

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, component templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := component.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

func TestRenderForwardsDeclaredProps(t *testing.T) {
	component, err := Render(WfxButton, Props{
		"label":    "Save",
		"severity": "success",
		"disabled": true,
		"tabindex": 2,
	}, Handlers{"onBlur": "blurred()", "onClick": "save()"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got := render(t, component)
	want := `<p-button data-wrapper="wfx-button" label="Save" disabled="true" tabindex="2" severity="success" hx-on:onClick="save()" hx-on:onBlur="blurred()"></p-button>`
	if got != want {
		t.Fatalf("Render() = %s, want %s", got, want)
	}
}

func TestRenderOmitsDefaults(t *testing.T) {
	component := MustRender(WfxToast, Props{"position": "top-right", "life": 3000, "key": "main"}, nil)
	got := render(t, component)
	if strings.Contains(got, "position=") || strings.Contains(got, "life=") {
		t.Fatalf("Render() = %s, want defaults omitted", got)
	}
	if !strings.Contains(got, `key="main"`) {
		t.Fatalf("Render() = %s, want key attribute", got)
	}
}

func TestRenderEscapesValues(t *testing.T) {
	component := MustRender(WfxCard, Props{"header": `"><script>`}, nil)
	got := render(t, component)
	if strings.Contains(got, "<script>") {
		t.Fatalf("Render() = %s, want escaped header", got)
	}
}

func TestRenderChildren(t *testing.T) {
	child := MustRender(UIButton, Props{"label": "OK"}, nil)
	got := render(t, MustRender(WfxCard, Props{"header": "Card"}, nil, child))
	want := `<p-card data-wrapper="wfx-card" header="Card"><p-button data-wrapper="ui-button" label="OK"></p-button></p-card>`
	if got != want {
		t.Fatalf("Render() = %s, want %s", got, want)
	}
}

func TestRenderJSONProp(t *testing.T) {
	options := []map[string]string{{"label": "Admin", "value": "admin"}}
	got := render(t, MustRender(UIDropdown, Props{"options": options}, nil))
	want := `options="[{&#34;label&#34;:&#34;Admin&#34;,&#34;value&#34;:&#34;admin&#34;}]"`
	if !strings.Contains(got, want) {
		t.Fatalf("Render() = %s, want it to contain %s", got, want)
	}
}

func TestRenderRejectsContractViolations(t *testing.T) {
	tests := []struct {
		name     string
		spec     Spec
		props    Props
		handlers Handlers
		want     error
	}{
		{name: "unknown_prop", spec: WfxButton, props: Props{"colour": "red"}, want: ErrUnknownProp},
		{name: "bool_as_string", spec: WfxButton, props: Props{"disabled": "yes"}, want: ErrPropKind},
		{name: "number_as_string", spec: UIDataTable, props: Props{"rows": "10"}, want: ErrPropKind},
		{name: "enum_out_of_range", spec: UIButton, props: Props{"variant": "ghost"}, want: ErrPropKind},
		{name: "unknown_event", spec: UIButton, handlers: Handlers{"onHover": "x()"}, want: ErrUnknownEvent},
		{name: "event_of_other_wrapper", spec: UISwitch, handlers: Handlers{"onClick": "x()"}, want: ErrUnknownEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.spec, tt.props, tt.handlers)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Render() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCoerceProps(t *testing.T) {
	props, err := CoerceProps(UIDataTable, map[string]string{
		"rows":         "25",
		"paginator":    "false",
		"emptyMessage": "Nothing here",
		"columns":      `[{"field":"id"}]`,
	})
	if err != nil {
		t.Fatalf("CoerceProps() error = %v", err)
	}
	if props["rows"] != 25.0 {
		t.Fatalf("rows = %v, want 25", props["rows"])
	}
	if props["paginator"] != false {
		t.Fatalf("paginator = %v, want false", props["paginator"])
	}
	if _, err := Render(UIDataTable, props, nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if _, err := CoerceProps(UIDataTable, map[string]string{"rows": "many"}); !errors.Is(err, ErrPropKind) {
		t.Fatalf("CoerceProps() error = %v, want %v", err, ErrPropKind)
	}
	if _, err := CoerceProps(UIDataTable, map[string]string{"pageSize": "5"}); !errors.Is(err, ErrUnknownProp) {
		t.Fatalf("CoerceProps() error = %v, want %v", err, ErrUnknownProp)
	}
}

func TestDefaultRegistry(t *testing.T) {
	if got := len(Default.All()); got != 20 {
		t.Fatalf("len(All()) = %d, want 20", got)
	}
	if got := len(Default.ByLibrary(LibraryWFX)); got != 9 {
		t.Fatalf("len(ByLibrary(wfx)) = %d, want 9", got)
	}

	seen := make(map[string]bool)
	for _, spec := range Default.All() {
		if seen[spec.Name] {
			t.Fatalf("duplicate wrapper %q", spec.Name)
		}
		seen[spec.Name] = true

		props := make(map[string]bool)
		for _, prop := range spec.Props {
			if props[prop.Name] {
				t.Fatalf("%s declares %q twice", spec.Name, prop.Name)
			}
			props[prop.Name] = true
			if prop.Kind == KindEnum && prop.Default != "" && !strings.Contains(" "+strings.Join(prop.Values, " ")+" ", " "+prop.Default+" ") {
				t.Fatalf("%s.%s default %q is not an allowed value", spec.Name, prop.Name, prop.Default)
			}
		}
		if spec.FormControl {
			if _, ok := spec.Prop("disabled"); !ok {
				t.Fatalf("%s is a form control without a disabled prop", spec.Name)
			}
		}
	}

	spec, ok := Default.Get("ui-multiselect")
	if !ok || spec.Element != "p-multiselect" {
		t.Fatalf("Get(ui-multiselect) = %+v, %v", spec, ok)
	}
	if _, ok := Default.Get("wfx-carousel"); ok {
		t.Fatalf("Get(wfx-carousel) found, want missing")
	}
}

func TestControlAccessor(t *testing.T) {
	control, err := NewControl(WfxInput, "email")
	if err != nil {
		t.Fatalf("NewControl() error = %v", err)
	}

	var changes []any
	touched := 0
	control.RegisterOnChange(func(v any) { changes = append(changes, v) })
	control.RegisterOnTouched(func() { touched++ })

	control.WriteValue("model@example.com")
	if len(changes) != 0 {
		t.Fatalf("WriteValue() fired onChange")
	}
	control.SetValue("view@example.com")
	control.Touch()
	control.Touch()

	if len(changes) != 1 || changes[0] != "view@example.com" {
		t.Fatalf("changes = %v, want [view@example.com]", changes)
	}
	if touched != 1 {
		t.Fatalf("touched = %d, want 1", touched)
	}

	control.SetDisabled(true)
	component, err := control.Render(Props{"placeholder": "Email"}, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := render(t, component)
	for _, want := range []string{`name="email"`, `disabled="true"`, `<input type="hidden" name="email" value="view@example.com">`} {
		if !strings.Contains(got, want) {
			t.Fatalf("Render() = %s, want it to contain %s", got, want)
		}
	}

	if _, err := NewControl(WfxCard, "card"); err == nil {
		t.Fatalf("NewControl(card) error = nil, want error")
	}
}

func TestBindForm(t *testing.T) {
	name, _ := NewControl(UIInput, "name")
	agree, _ := NewControl(UICheckbox, "agree")
	newsletter, _ := NewControl(UISwitch, "newsletter")
	age, _ := NewControl(UIInputNumber, "age")
	tags, _ := NewControl(UIMultiselect, "tags")
	locked, _ := NewControl(UIInput, "locked")
	locked.SetDisabled(true)
	locked.WriteValue("keep")

	form := url.Values{
		"name":   {"Ada"},
		"agree":  {"on"},
		"age":    {"36"},
		"tags":   {"a", "b"},
		"locked": {"changed"},
	}
	if err := BindForm(form, name, agree, newsletter, age, tags, locked); err != nil {
		t.Fatalf("BindForm() error = %v", err)
	}

	if name.Value() != "Ada" {
		t.Fatalf("name = %v, want Ada", name.Value())
	}
	if agree.Value() != true {
		t.Fatalf("agree = %v, want true", agree.Value())
	}
	if newsletter.Value() != false {
		t.Fatalf("newsletter = %v, want false", newsletter.Value())
	}
	if age.Value() != 36.0 {
		t.Fatalf("age = %v, want 36", age.Value())
	}
	if got := tags.Value().([]string); len(got) != 2 || got[1] != "b" {
		t.Fatalf("tags = %v, want [a b]", got)
	}
	if locked.Value() != "keep" {
		t.Fatalf("locked = %v, want keep", locked.Value())
	}

	if err := BindForm(url.Values{"age": {"old"}}, age); !errors.Is(err, ErrPropKind) {
		t.Fatalf("BindForm() error = %v, want %v", err, ErrPropKind)
	}
}
