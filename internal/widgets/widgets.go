// Package widgets describes the wrapper components as data. Each Spec names
// the underlying widget element, the subset of its properties the wrapper
// exposes and the events it re-emits. Render enforces that contract and
// forwards values unchanged.
package widgets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

type Kind int

const (
	KindString Kind = iota
	KindBool
	KindNumber
	KindEnum
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindEnum:
		return "enum"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Prop is one exposed property. Default is the widget's own default in
// attribute form; an empty Default means the widget leaves it unset.
type Prop struct {
	Name    string   `json:"name"`
	Kind    Kind     `json:"kind"`
	Default string   `json:"default,omitempty"`
	Values  []string `json:"values,omitempty"`
	Doc     string   `json:"doc,omitempty"`
}

// Spec is the declaration of one wrapper component.
type Spec struct {
	Name        string   `json:"name"`
	Library     string   `json:"library"`
	Element     string   `json:"element"`
	Summary     string   `json:"summary"`
	Props       []Prop   `json:"props"`
	Events      []string `json:"events"`
	FormControl bool     `json:"formControl"`
	// ValueKind is the kind of the bound form value for form controls.
	ValueKind Kind `json:"valueKind"`
}

func (s Spec) Prop(name string) (Prop, bool) {
	for _, prop := range s.Props {
		if prop.Name == name {
			return prop, true
		}
	}
	return Prop{}, false
}

func (s Spec) HasEvent(name string) bool {
	return slices.Contains(s.Events, name)
}

// Props are property values keyed by name. Values are string, bool, any
// integer or float type, or for json props anything encoding/json accepts.
type Props map[string]any

// Handlers map event names to client-side handler expressions.
type Handlers map[string]string

var (
	ErrUnknownProp  = errors.New("unknown property")
	ErrPropKind     = errors.New("property has the wrong kind")
	ErrUnknownEvent = errors.New("unknown event")
)

// Render validates props and handlers against spec and returns the element.
// Props equal to their declared default are omitted. Children render inside
// the element in order.
func Render(spec Spec, props Props, handlers Handlers, children ...templ.Component) (templ.Component, error) {
	attrs := make([]attr, 0, len(props)+len(handlers))

	for name := range props {
		if _, ok := spec.Prop(name); !ok {
			return nil, fmt.Errorf("%w %q on %s", ErrUnknownProp, name, spec.Name)
		}
	}
	for _, prop := range spec.Props {
		value, ok := props[prop.Name]
		if !ok || value == nil {
			continue
		}
		encoded, err := encodeProp(prop, value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", spec.Name, prop.Name, err)
		}
		if prop.Default != "" && encoded == prop.Default {
			continue
		}
		attrs = append(attrs, attr{name: prop.Name, value: encoded})
	}

	events := make([]string, 0, len(handlers))
	for event := range handlers {
		if !spec.HasEvent(event) {
			return nil, fmt.Errorf("%w %q on %s", ErrUnknownEvent, event, spec.Name)
		}
		events = append(events, event)
	}
	slices.SortFunc(events, func(a, b string) int {
		return slices.Index(spec.Events, a) - slices.Index(spec.Events, b)
	})
	for _, event := range events {
		attrs = append(attrs, attr{name: "hx-on:" + event, value: handlers[event]})
	}

	return element(spec.Element, spec.Name, attrs, children), nil
}

// MustRender is Render for statically known props; it panics on a contract
// violation.
func MustRender(spec Spec, props Props, handlers Handlers, children ...templ.Component) templ.Component {
	component, err := Render(spec, props, handlers, children...)
	if err != nil {
		panic(err)
	}
	return component
}

type attr struct {
	name  string
	value string
}

func element(tag, wrapper string, attrs []attr, children []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<")
		b.WriteString(tag)
		b.WriteString(` data-wrapper="`)
		b.WriteString(templ.EscapeString(wrapper))
		b.WriteString(`"`)
		for _, a := range attrs {
			b.WriteString(" ")
			b.WriteString(a.name)
			b.WriteString(`="`)
			b.WriteString(templ.EscapeString(a.value))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// encodeProp checks value against the prop kind and returns the attribute
// form. Values are never transformed beyond formatting.
func encodeProp(prop Prop, value any) (string, error) {
	switch prop.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return "", kindError(prop, value)
		}
		return s, nil
	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return "", kindError(prop, value)
		}
		if !slices.Contains(prop.Values, s) {
			return "", fmt.Errorf("%w: %q is not one of %s", ErrPropKind, s, strings.Join(prop.Values, ", "))
		}
		return s, nil
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return "", kindError(prop, value)
		}
		return strconv.FormatBool(b), nil
	case KindNumber:
		f, ok := toFloat(value)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", kindError(prop, value)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case KindJSON:
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPropKind, err)
		}
		return string(encoded), nil
	default:
		return "", fmt.Errorf("%w: unsupported kind %d", ErrPropKind, prop.Kind)
	}
}

func kindError(prop Prop, value any) error {
	return fmt.Errorf("%w: want %s, got %T", ErrPropKind, prop.Kind, value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// CoerceProps converts string values, such as query parameters, into typed
// props according to spec. Names the spec does not declare are rejected.
func CoerceProps(spec Spec, raw map[string]string) (Props, error) {
	props := make(Props, len(raw))
	for name, value := range raw {
		prop, ok := spec.Prop(name)
		if !ok {
			return nil, fmt.Errorf("%w %q on %s", ErrUnknownProp, name, spec.Name)
		}
		switch prop.Kind {
		case KindString, KindEnum:
			props[name] = value
		case KindBool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w: %q is not a boolean", spec.Name, name, ErrPropKind, value)
			}
			props[name] = b
		case KindNumber:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w: %q is not a number", spec.Name, name, ErrPropKind, value)
			}
			props[name] = f
		case KindJSON:
			var decoded any
			if err := json.Unmarshal([]byte(value), &decoded); err != nil {
				return nil, fmt.Errorf("%s.%s: %w: %v", spec.Name, name, ErrPropKind, err)
			}
			props[name] = decoded
		}
	}
	return props, nil
}
