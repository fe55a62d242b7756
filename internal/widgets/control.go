package widgets

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/a-h/templ"
)

// ValueAccessor is the contract between a form and a form-control wrapper.
type ValueAccessor interface {
	WriteValue(value any)
	RegisterOnChange(fn func(any))
	RegisterOnTouched(fn func())
	SetDisabled(disabled bool)
}

// Control binds a form-control wrapper to a named form field.
type Control struct {
	Spec Spec
	Name string

	mu        sync.Mutex
	value     any
	disabled  bool
	touched   bool
	onChange  func(any)
	onTouched func()
}

var _ ValueAccessor = (*Control)(nil)

func NewControl(spec Spec, name string) (*Control, error) {
	if !spec.FormControl {
		return nil, fmt.Errorf("%s is not a form control", spec.Name)
	}
	return &Control{Spec: spec, Name: name}, nil
}

// WriteValue sets the value from the model side. It does not fire onChange.
func (c *Control) WriteValue(value any) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// SetValue sets the value from the view side and notifies the change handler.
func (c *Control) SetValue(value any) {
	c.mu.Lock()
	c.value = value
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(value)
	}
}

// Touch marks the control as touched, notifying once.
func (c *Control) Touch() {
	c.mu.Lock()
	first := !c.touched
	c.touched = true
	fn := c.onTouched
	c.mu.Unlock()
	if first && fn != nil {
		fn()
	}
}

func (c *Control) RegisterOnChange(fn func(any)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Control) RegisterOnTouched(fn func()) {
	c.mu.Lock()
	c.onTouched = fn
	c.mu.Unlock()
}

func (c *Control) SetDisabled(disabled bool) {
	c.mu.Lock()
	c.disabled = disabled
	c.mu.Unlock()
}

func (c *Control) Value() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *Control) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

func (c *Control) Touched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}

// Render renders the wrapper with the control's name, value and disabled
// state merged into props.
func (c *Control) Render(props Props, handlers Handlers) (templ.Component, error) {
	merged := make(Props, len(props)+2)
	for k, v := range props {
		merged[k] = v
	}
	if _, ok := c.Spec.Prop("name"); ok {
		merged["name"] = c.Name
	}
	if c.Disabled() {
		merged["disabled"] = true
	}

	component, err := Render(c.Spec, merged, handlers)
	if err != nil {
		return nil, err
	}
	value := c.Value()
	if value == nil {
		return component, nil
	}
	encoded, err := encodeProp(Prop{Name: "value", Kind: c.Spec.ValueKind}, value)
	if err != nil {
		return nil, fmt.Errorf("%s value: %w", c.Spec.Name, err)
	}
	return templ.Join(component, hiddenInput(c.Name, encoded)), nil
}

// hiddenInput carries the bound value so plain form posts include it.
func hiddenInput(name, value string) templ.Component {
	return templ.Raw(`<input type="hidden" name="` + templ.EscapeString(name) + `" value="` + templ.EscapeString(value) + `">`)
}

// BindForm writes submitted form values into controls through SetValue,
// converting to each control's value kind. Disabled controls and fields
// absent from the form are skipped. Boolean controls read an absent field as
// false, matching unchecked checkbox posts.
func BindForm(form url.Values, controls ...*Control) error {
	for _, c := range controls {
		if c.Disabled() {
			continue
		}
		raw, present := form[c.Name]
		if c.Spec.ValueKind == KindBool {
			checked := false
			if present && len(raw) > 0 {
				parsed, err := strconv.ParseBool(raw[len(raw)-1])
				if err != nil {
					checked = raw[len(raw)-1] == "on"
				} else {
					checked = parsed
				}
			}
			c.SetValue(checked)
			continue
		}
		if !present {
			continue
		}
		switch c.Spec.ValueKind {
		case KindNumber:
			if raw[0] == "" {
				c.SetValue(nil)
				continue
			}
			f, err := strconv.ParseFloat(raw[0], 64)
			if err != nil {
				return fmt.Errorf("%s: %w: %q is not a number", c.Name, ErrPropKind, raw[0])
			}
			c.SetValue(f)
		case KindJSON:
			c.SetValue(append([]string(nil), raw...))
		default:
			c.SetValue(raw[0])
		}
	}
	return nil
}
