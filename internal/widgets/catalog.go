package widgets

import (
	"slices"
	"strings"
)

const (
	LibraryWFX = "wfx"
	LibraryUI  = "ui"
)

func str(name, def string) Prop { return Prop{Name: name, Kind: KindString, Default: def} }
func flag(name string, def bool) Prop {
	p := Prop{Name: name, Kind: KindBool, Default: "false"}
	if def {
		p.Default = "true"
	}
	return p
}
func num(name, def string) Prop { return Prop{Name: name, Kind: KindNumber, Default: def} }
func enum(name, def string, values ...string) Prop {
	return Prop{Name: name, Kind: KindEnum, Default: def, Values: values}
}
func obj(name string) Prop { return Prop{Name: name, Kind: KindJSON} }

var severities = []string{"primary", "secondary", "success", "info", "warn", "danger", "help", "contrast"}

var (
	WfxButton = Spec{
		Name: "wfx-button", Library: LibraryWFX, Element: "p-button",
		Summary: "Button with severity, icon, badge and loading states.",
		Props: []Prop{
			str("label", ""), str("type", "button"), str("icon", ""),
			enum("iconPos", "left", "left", "right", "top", "bottom"),
			flag("disabled", false), flag("autofocus", false), num("tabindex", ""),
			enum("severity", "", severities...),
			enum("size", "", "small", "large"),
			enum("variant", "", "text", "outlined"),
			flag("raised", false), flag("rounded", false), flag("text", false), flag("plain", false),
			flag("outlined", false), flag("link", false), flag("fluid", false),
			obj("style"), str("styleClass", ""),
			flag("loading", false), str("loadingIcon", ""),
			str("badge", ""), enum("badgeSeverity", "secondary", severities...), str("badgeClass", ""),
			str("ariaLabel", ""), obj("pt"), obj("ptOptions"), obj("dt"), flag("unstyled", false),
			obj("buttonProps"),
		},
		Events: []string{"onClick", "onFocus", "onBlur"},
	}

	WfxCard = Spec{
		Name: "wfx-card", Library: LibraryWFX, Element: "p-card",
		Summary: "Content container with header and subheader.",
		Props: []Prop{
			str("header", ""), str("subheader", ""), obj("style"), str("styleClass", ""),
			obj("pt"), obj("ptOptions"), obj("dt"), flag("unstyled", false),
		},
	}

	WfxCheckbox = Spec{
		Name: "wfx-checkbox", Library: LibraryWFX, Element: "p-checkbox",
		Summary:     "Checkbox with binary or multi-value modes.",
		FormControl: true, ValueKind: KindBool,
		Props: []Prop{
			obj("value"), flag("binary", false), str("inputId", ""), str("name", ""),
			flag("disabled", false), flag("readonly", false), flag("required", false), flag("autofocus", false),
			num("tabindex", ""), enum("size", "", "small", "large"), enum("variant", "", "filled", "outlined"),
			flag("invalid", false), str("styleClass", ""), obj("inputStyle"), str("inputClass", ""),
			flag("indeterminate", false), obj("trueValue"), obj("falseValue"), str("checkboxIcon", ""),
			obj("pt"), obj("ptOptions"), obj("dt"), flag("unstyled", false),
			str("ariaLabel", ""), str("ariaLabelledBy", ""),
		},
		Events: []string{"onChange", "onFocus", "onBlur"},
	}

	WfxDatepicker = Spec{
		Name: "wfx-datepicker", Library: LibraryWFX, Element: "p-datepicker",
		Summary:     "Date, range and time picker.",
		FormControl: true, ValueKind: KindString,
		Props: []Prop{
			str("placeholder", ""), str("inputId", ""), str("name", ""),
			flag("disabled", false), flag("required", false), flag("autofocus", false), num("tabindex", ""),
			enum("size", "", "small", "large"), enum("variant", "", "filled", "outlined"),
			flag("fluid", false), flag("invalid", false), str("styleClass", ""), obj("inputStyle"),
			str("inputStyleClass", ""), str("panelStyleClass", ""), obj("panelStyle"),
			str("dateFormat", ""), str("multipleSeparator", ","), str("rangeSeparator", "-"),
			enum("selectionMode", "single", "single", "multiple", "range"), num("maxDateCount", ""),
			str("minDate", ""), str("maxDate", ""), obj("disabledDates"), obj("disabledDays"),
			enum("view", "date", "date", "month", "year"), num("numberOfMonths", "1"),
			num("firstDayOfWeek", ""), str("defaultDate", ""),
			flag("inline", false), flag("showOtherMonths", true), flag("selectOtherMonths", false),
			flag("showIcon", false), str("icon", ""), flag("showClear", false), flag("showWeek", false),
			flag("showButtonBar", false), flag("showTime", false), flag("timeOnly", false),
			enum("hourFormat", "", "12", "24"), num("stepHour", "1"), num("stepMinute", "1"), num("stepSecond", "1"),
			flag("showSeconds", false), flag("readonlyInput", false), flag("showOnFocus", true),
			flag("keepInvalid", false), str("appendTo", "body"), flag("hideOnDateTimeSelect", true),
			flag("touchUI", false), obj("pt"), obj("ptOptions"), obj("dt"), flag("unstyled", false),
			str("ariaLabel", ""), str("ariaLabelledBy", ""),
		},
		Events: []string{
			"onSelect", "onFocus", "onBlur", "onClear", "onInput", "onShow", "onClose",
			"onTodayClick", "onClearClick", "onMonthChange", "onYearChange",
		},
	}

	WfxDialog = Spec{
		Name: "wfx-dialog", Library: LibraryWFX, Element: "p-dialog",
		Summary: "Overlay window with header, drag, resize and maximize.",
		Props: []Prop{
			flag("visible", false), str("header", ""),
			enum("position", "center", "center", "top", "bottom", "left", "right", "topleft", "topright", "bottomleft", "bottomright"),
			flag("draggable", true), flag("resizable", true), flag("modal", false), flag("closeOnEscape", true),
			flag("dismissableMask", false), flag("closable", true), flag("maximizable", false),
			flag("blockScroll", false), flag("keepInViewport", true), flag("focusTrap", true),
			flag("focusOnShow", true), flag("showHeader", true), str("closeIcon", ""), str("closeAriaLabel", ""),
			str("minimizeIcon", ""), str("maximizeIcon", ""), obj("style"), str("styleClass", ""),
			obj("contentStyle"), str("contentStyleClass", ""), str("maskStyleClass", ""), obj("maskStyle"),
			flag("autoZIndex", true), num("baseZIndex", "0"), num("minX", "0"), num("minY", "0"),
			obj("breakpoints"), str("appendTo", "body"), obj("pt"), obj("ptOptions"), obj("dt"), flag("unstyled", false),
		},
		Events: []string{"visibleChange", "onShow", "onHide", "onResizeInit", "onResizeEnd", "onDragEnd", "onMaximize"},
	}

	WfxInput = Spec{
		Name: "wfx-input", Library: LibraryWFX, Element: "p-inputtext",
		Summary:     "Single-line text input.",
		FormControl: true, ValueKind: KindString,
		Props: []Prop{
			enum("type", "text", "text", "email", "password", "number", "tel", "url", "search"),
			str("placeholder", ""), flag("disabled", false), flag("readonly", false), flag("required", false),
			flag("autofocus", false), str("inputId", ""), str("name", ""), num("tabindex", ""),
			num("maxlength", ""), num("minlength", ""), str("pattern", ""), str("autocomplete", ""),
			enum("pSize", "", "small", "large"), enum("variant", "", "filled", "outlined"),
			flag("fluid", false), flag("invalid", false), obj("style"), str("styleClass", ""),
			obj("pt"), obj("ptOptions"), obj("dt"), flag("unstyled", false),
			str("ariaLabel", ""), str("ariaLabelledBy", ""), str("ariaDescribedBy", ""),
		},
		Events: []string{"onInput", "onFocus", "onBlur", "onKeyDown", "onKeyUp", "valueChange"},
	}

	WfxSelect = Spec{
		Name: "wfx-select", Library: LibraryWFX, Element: "p-select",
		Summary:     "Single selection from a list of options with filtering and grouping.",
		FormControl: true, ValueKind: KindString,
		Props: []Prop{
			obj("options"), str("optionLabel", ""), str("optionValue", ""), str("optionDisabled", ""),
			str("placeholder", ""), str("id", ""), str("inputId", ""), str("name", ""),
			flag("disabled", false), flag("readonly", false), flag("required", false), flag("autofocus", false),
			num("tabindex", "0"), enum("size", "", "small", "large"), enum("variant", "", "filled", "outlined"),
			flag("fluid", false), flag("invalid", false), str("styleClass", ""), obj("panelStyle"),
			str("panelStyleClass", ""), str("scrollHeight", "200px"), flag("showClear", false),
			flag("checkmark", false), str("dropdownIcon", ""), flag("loading", false), str("loadingIcon", ""),
			flag("editable", false), flag("filter", false), str("filterPlaceholder", ""), str("filterBy", ""),
			enum("filterMatchMode", "contains", "contains", "startsWith", "endsWith", "equals", "notEquals", "in", "lt", "lte", "gt", "gte"),
			flag("resetFilterOnHide", false), flag("autofocusFilter", true), flag("group", false),
			str("optionGroupLabel", "label"), str("optionGroupChildren", "items"),
			flag("virtualScroll", false), num("virtualScrollItemSize", ""),
			str("emptyFilterMessage", ""), str("emptyMessage", ""), str("tooltip", ""),
			enum("tooltipPosition", "right", "right", "left", "top", "bottom"), str("tooltipStyleClass", ""),
			str("appendTo", "body"), obj("pt"), obj("ptOptions"), obj("dt"), flag("unstyled", false),
			str("ariaLabel", ""), str("ariaLabelledBy", ""),
		},
		Events: []string{"onChange", "onFilter", "onFocus", "onBlur", "onClick", "onShow", "onHide", "onClear"},
	}

	WfxTable = Spec{
		Name: "wfx-table", Library: LibraryWFX, Element: "p-table",
		Summary: "Data table with pagination, sorting, selection and scrolling.",
		Props: []Prop{
			obj("value"), obj("columns"), str("dataKey", ""), flag("paginator", false), num("rows", ""),
			obj("rowsPerPageOptions"), enum("paginatorPosition", "bottom", "top", "bottom", "both"),
			flag("showCurrentPageReport", false), str("currentPageReportTemplate", "{currentPage} of {totalPages}"),
			num("totalRecords", "0"), enum("sortMode", "single", "single", "multiple"), str("sortField", ""),
			num("sortOrder", ""), enum("selectionMode", "", "single", "multiple"), obj("selection"),
			obj("globalFilterFields"), enum("size", "", "small", "large"), flag("showGridlines", false),
			flag("stripedRows", false), flag("rowHover", false), str("styleClass", ""), obj("tableStyle"),
			str("tableStyleClass", ""), flag("scrollable", false), str("scrollHeight", ""),
			flag("loading", false), str("loadingIcon", ""), flag("lazy", false),
			flag("resizableColumns", false), flag("reorderableColumns", false),
			obj("pt"), obj("ptOptions"), obj("dt"), flag("unstyled", false),
		},
		Events: []string{"selectionChange", "onRowSelect", "onRowUnselect", "onPage", "onSort", "onFilter", "onLazyLoad"},
	}

	WfxToast = Spec{
		Name: "wfx-toast", Library: LibraryWFX, Element: "p-toast",
		Summary: "Notification stack.",
		Props: []Prop{
			str("key", ""),
			enum("position", "top-right", "top-right", "top-left", "bottom-right", "bottom-left", "top-center", "bottom-center", "center"),
			num("life", "3000"), flag("preventOpenDuplicates", false), flag("preventDuplicates", false),
			flag("autoZIndex", true), num("baseZIndex", "0"), str("styleClass", ""), obj("breakpoints"),
			obj("pt"), obj("ptOptions"), obj("dt"), flag("unstyled", false),
		},
		Events: []string{"onClose"},
	}

	UIButton = Spec{
		Name: "ui-button", Library: LibraryUI, Element: "p-button",
		Summary: "Application button with a fixed variant palette.",
		Props: []Prop{
			str("label", ""), str("icon", ""), enum("iconPos", "left", "left", "right", "top", "bottom"),
			enum("variant", "primary", "primary", "secondary", "success", "warning", "danger", "info", "text", "outlined"),
			enum("size", "medium", "small", "medium", "large"),
			flag("loading", false), flag("disabled", false), str("styleClass", ""),
		},
		Events: []string{"onClick"},
	}

	UICheckbox = Spec{
		Name: "ui-checkbox", Library: LibraryUI, Element: "p-checkbox",
		Summary:     "Labelled binary checkbox.",
		FormControl: true, ValueKind: KindBool,
		Props: []Prop{
			str("label", ""), flag("disabled", false), flag("binary", true), str("inputId", ""), str("styleClass", ""),
		},
		Events: []string{"onChange"},
	}

	UIDatepicker = Spec{
		Name: "ui-datepicker", Library: LibraryUI, Element: "p-datepicker",
		Summary:     "Date picker with application defaults.",
		FormControl: true, ValueKind: KindString,
		Props: []Prop{
			str("placeholder", "Select date"), flag("disabled", false), flag("showIcon", true),
			flag("showTime", false), flag("showSeconds", false), str("dateFormat", "mm/dd/yy"),
			str("minDate", ""), str("maxDate", ""),
			enum("selectionMode", "single", "single", "multiple", "range"),
			flag("showButtonBar", false), str("styleClass", ""),
		},
		Events: []string{"onSelect"},
	}

	UIInput = Spec{
		Name: "ui-input", Library: LibraryUI, Element: "p-inputtext",
		Summary:     "Text input with application defaults.",
		FormControl: true, ValueKind: KindString,
		Props: []Prop{
			enum("type", "text", "text", "email", "password", "number", "tel", "url"),
			str("placeholder", ""), flag("disabled", false), flag("readonly", false), str("styleClass", ""),
		},
		Events: []string{"onBlur", "onFocus"},
	}

	UISwitch = Spec{
		Name: "ui-switch", Library: LibraryUI, Element: "p-toggleswitch",
		Summary:     "Labelled on/off switch.",
		FormControl: true, ValueKind: KindBool,
		Props:       []Prop{str("label", ""), flag("disabled", false), str("inputId", ""), str("styleClass", "")},
		Events:      []string{"onChange"},
	}

	UIRadioGroup = Spec{
		Name: "ui-radio-group", Library: LibraryUI, Element: "p-radiobutton",
		Summary:     "Group of radio buttons built from an option list.",
		FormControl: true, ValueKind: KindString,
		Props:       []Prop{obj("options"), str("name", ""), flag("disabled", false), str("styleClass", "")},
		Events:      []string{"onChange"},
	}

	UITextarea = Spec{
		Name: "ui-textarea", Library: LibraryUI, Element: "p-textarea",
		Summary:     "Multi-line text input.",
		FormControl: true, ValueKind: KindString,
		Props: []Prop{
			str("placeholder", ""), flag("disabled", false), flag("readonly", false),
			num("rows", "5"), num("cols", "30"), flag("autoResize", false), str("styleClass", ""),
		},
		Events: []string{"onBlur", "onFocus"},
	}

	UIMultiselect = Spec{
		Name: "ui-multiselect", Library: LibraryUI, Element: "p-multiselect",
		Summary:     "Multiple selection from an option list.",
		FormControl: true, ValueKind: KindJSON,
		Props: []Prop{
			obj("options"), str("optionLabel", "label"), str("optionValue", "value"),
			str("placeholder", "Select items"), flag("disabled", false), flag("showClear", false),
			flag("filter", true), num("maxSelectedLabels", "3"), str("selectedItemsLabel", "{0} items selected"),
			enum("display", "comma", "comma", "chip"), str("styleClass", ""),
		},
		Events: []string{"onChange"},
	}

	UIInputNumber = Spec{
		Name: "ui-input-number", Library: LibraryUI, Element: "p-inputnumber",
		Summary:     "Numeric input with decimal or currency formatting.",
		FormControl: true, ValueKind: KindNumber,
		Props: []Prop{
			str("placeholder", ""), flag("disabled", false), num("min", ""), num("max", ""), num("step", "1"),
			flag("showButtons", false), enum("buttonLayout", "stacked", "stacked", "horizontal", "vertical"),
			enum("mode", "decimal", "decimal", "currency"), str("currency", "USD"), str("locale", "en-US"),
			str("prefix", ""), str("suffix", ""), num("minFractionDigits", ""), num("maxFractionDigits", ""),
			str("styleClass", ""),
		},
		Events: []string{"onBlur", "onFocus"},
	}

	UIDropdown = Spec{
		Name: "ui-dropdown", Library: LibraryUI, Element: "p-select",
		Summary:     "Single selection with application defaults.",
		FormControl: true, ValueKind: KindString,
		Props: []Prop{
			obj("options"), str("optionLabel", "label"), str("optionValue", "value"),
			str("placeholder", "Select an option"), flag("disabled", false), flag("showClear", false),
			flag("filter", false), str("filterPlaceholder", "Search..."), str("styleClass", ""),
		},
		Events: []string{"onChange"},
	}

	UIDataTable = Spec{
		Name: "ui-data-table", Library: LibraryUI, Element: "p-table",
		Summary: "Paginated data table with application defaults.",
		Props: []Prop{
			obj("data"), obj("columns"), flag("paginator", true), num("rows", "10"), num("totalRecords", "0"),
			flag("lazy", false), flag("loading", false), flag("showGridlines", false), flag("stripedRows", true),
			str("emptyMessage", "No records found"), str("styleClass", ""),
		},
		Events: []string{"onLazyLoad", "onSort"},
	}
)

// Registry is the set of declared wrappers.
type Registry struct {
	specs []Spec
}

func NewRegistry(specs ...Spec) *Registry {
	sorted := slices.Clone(specs)
	slices.SortStableFunc(sorted, func(a, b Spec) int {
		if a.Library != b.Library {
			return strings.Compare(b.Library, a.Library)
		}
		return strings.Compare(a.Name, b.Name)
	})
	return &Registry{specs: sorted}
}

// Default holds every wrapper the console ships.
var Default = NewRegistry(
	WfxButton, WfxCard, WfxCheckbox, WfxDatepicker, WfxDialog, WfxInput, WfxSelect, WfxTable, WfxToast,
	UIButton, UICheckbox, UIDatepicker, UIInput, UISwitch, UIRadioGroup, UITextarea, UIMultiselect,
	UIInputNumber, UIDropdown, UIDataTable,
)

func (r *Registry) Get(name string) (Spec, bool) {
	for _, spec := range r.specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

func (r *Registry) All() []Spec {
	return slices.Clone(r.specs)
}

// ByLibrary returns the wrappers belonging to library, in name order.
func (r *Registry) ByLibrary(library string) []Spec {
	var specs []Spec
	for _, spec := range r.specs {
		if spec.Library == library {
			specs = append(specs, spec)
		}
	}
	return specs
}
