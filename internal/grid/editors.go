package grid

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/widgets"
)

type EditorKind string

const (
	EditorInput      EditorKind = "input"
	EditorDropdown   EditorKind = "dropdown"
	EditorDatepicker EditorKind = "datepicker"
)

// CellEditor is the grid's cell editor contract.
type CellEditor interface {
	// Init receives the cell's current value.
	Init(value string) error
	// Value is the edited value written back to the row.
	Value() string
	IsPopup() bool
	IsCancelBeforeStart() bool
	IsCancelAfterEnd() bool
	// Component renders the editor for the named form field.
	Component(name string) (templ.Component, error)
}

var ErrNotEditable = errors.New("column is not editable")

// NewEditor returns a fresh editor for col.
func NewEditor(col Column) (CellEditor, error) {
	if !col.Editable {
		return nil, fmt.Errorf("%w: %s", ErrNotEditable, col.Field)
	}
	switch col.Editor {
	case EditorInput:
		return &InputEditor{}, nil
	case EditorDropdown:
		return &DropdownEditor{}, nil
	case EditorDatepicker:
		return &DatepickerEditor{}, nil
	default:
		return nil, fmt.Errorf("unknown cell editor %q", col.Editor)
	}
}

type InputEditor struct {
	value string
}

func (e *InputEditor) Init(value string) error {
	e.value = value
	return nil
}

func (e *InputEditor) Value() string             { return e.value }
func (e *InputEditor) IsPopup() bool             { return false }
func (e *InputEditor) IsCancelBeforeStart() bool { return false }
func (e *InputEditor) IsCancelAfterEnd() bool    { return false }

func (e *InputEditor) Component(name string) (templ.Component, error) {
	return bound(widgets.WfxInput, name, e.value, widgets.Props{
		"autofocus": true,
		"pSize":     "small",
		"fluid":     true,
	}, widgets.Handlers{
		"onKeyDown": "if(event.key==='Enter'){htmx.trigger(this,'commit')}else if(event.key==='Escape'){htmx.trigger(this,'cancel')}",
	})
}

// bound renders spec as a form control named name holding value.
func bound(spec widgets.Spec, name, value string, props widgets.Props, handlers widgets.Handlers) (templ.Component, error) {
	control, err := widgets.NewControl(spec, name)
	if err != nil {
		return nil, err
	}
	if value != "" {
		control.WriteValue(value)
	}
	return control.Render(props, handlers)
}

// Option is one dropdown choice.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StatusOptions are offered when a dropdown editor has no options of its own.
var StatusOptions = []Option{
	{Label: "Success", Value: "Success"},
	{Label: "Failed", Value: "Failed"},
	{Label: "Pending", Value: "Pending"},
	{Label: "In Progress", Value: "In Progress"},
}

type DropdownEditor struct {
	Options []Option
	value   string
}

func (e *DropdownEditor) options() []Option {
	if len(e.Options) == 0 {
		return StatusOptions
	}
	return e.Options
}

// Init accepts any value, including one outside the options, so existing
// data is shown unchanged until the user picks.
func (e *DropdownEditor) Init(value string) error {
	e.value = value
	return nil
}

// Select sets the chosen option. Values outside the options are rejected.
func (e *DropdownEditor) Select(value string) error {
	for _, opt := range e.options() {
		if opt.Value == value {
			e.value = value
			return nil
		}
	}
	return fmt.Errorf("%q is not an allowed option", value)
}

func (e *DropdownEditor) Value() string             { return e.value }
func (e *DropdownEditor) IsPopup() bool             { return false }
func (e *DropdownEditor) IsCancelBeforeStart() bool { return false }
func (e *DropdownEditor) IsCancelAfterEnd() bool    { return false }

func (e *DropdownEditor) Component(name string) (templ.Component, error) {
	return bound(widgets.WfxSelect, name, e.value, widgets.Props{
		"options":     e.options(),
		"optionLabel": "label",
		"optionValue": "value",
		"appendTo":    "body",
		"autofocus":   true,
		"fluid":       true,
		"size":        "small",
	}, widgets.Handlers{
		"onChange": "htmx.trigger(this,'commit')",
	})
}

type DatepickerEditor struct {
	value time.Time
	set   bool
}

// DateFormat is the datepicker's display format.
const DateFormat = "mm/dd/yy"

const datepickerInputLayout = "01/02/2006"

// Init parses the cell's timestamp. An empty value leaves the editor unset.
func (e *DatepickerEditor) Init(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		e.set = false
		return nil
	}
	t, ok := parseDate(value, time.UTC)
	if !ok {
		parsed, err := time.ParseInLocation(datepickerInputLayout, value, time.UTC)
		if err != nil {
			return fmt.Errorf("%q is not a valid date", value)
		}
		t = parsed
	}
	e.value = t
	e.set = true
	return nil
}

// Value returns the date as an ISO 8601 UTC timestamp with millisecond
// precision, or "" when unset.
func (e *DatepickerEditor) Value() string {
	if !e.set {
		return ""
	}
	return e.value.UTC().Format("2006-01-02T15:04:05.000Z")
}

func (e *DatepickerEditor) IsPopup() bool             { return false }
func (e *DatepickerEditor) IsCancelBeforeStart() bool { return false }
func (e *DatepickerEditor) IsCancelAfterEnd() bool    { return false }

func (e *DatepickerEditor) Component(name string) (templ.Component, error) {
	props := widgets.Props{
		"dateFormat": DateFormat,
		"appendTo":   "body",
		"showIcon":   true,
		"autofocus":  true,
	}
	if e.set {
		props["defaultDate"] = e.value.UTC().Format("2006-01-02")
	}
	return bound(widgets.WfxDatepicker, name, e.Value(), props, widgets.Handlers{
		"onClose": "htmx.trigger(this,'commit')",
	})
}
