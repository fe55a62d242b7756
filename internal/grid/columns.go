package grid

import (
	"strconv"
	"strings"
	"time"
)

type FilterKind string

const (
	FilterText   FilterKind = "agTextColumnFilter"
	FilterNumber FilterKind = "agNumberColumnFilter"
	FilterDate   FilterKind = "agDateColumnFilter"
)

type Renderer int

const (
	RenderPlain Renderer = iota
	RenderStatus
	RenderDate
	RenderError
)

// StatusVocabulary selects which value maps to the success pill.
type StatusVocabulary int

const (
	// FileStatus treats "completed" as success.
	FileStatus StatusVocabulary = iota
	// StepStatus treats "success" as success.
	StepStatus
)

type Column struct {
	Field    string           `json:"field"`
	Header   string           `json:"headerName"`
	Width    int              `json:"width,omitempty"`
	Flex     int              `json:"flex,omitempty"`
	MinWidth int              `json:"minWidth,omitempty"`
	Filter   FilterKind       `json:"filter"`
	Renderer Renderer         `json:"-"`
	Status   StatusVocabulary `json:"-"`
	Editable bool             `json:"editable"`
	Editor   EditorKind       `json:"cellEditor,omitempty"`
}

// DefaultColumn holds the settings every column inherits.
var DefaultColumn = struct {
	Sortable  bool `json:"sortable"`
	Filter    bool `json:"filter"`
	Resizable bool `json:"resizable"`
	MinWidth  int  `json:"minWidth"`
}{Sortable: true, Filter: true, Resizable: true, MinWidth: 100}

var PageSizes = []int{10, 25, 50}

// Columns returns the grid's column model in display order.
func Columns() []Column {
	return []Column{
		{Field: "EDIPackageImportID", Header: "Import ID", Width: 110, Filter: FilterNumber},
		{Field: "fileName", Header: "File Name", Flex: 1, MinWidth: 250, Filter: FilterText, Editable: true, Editor: EditorInput},
		{Field: "filetype", Header: "File Type", Width: 120, Filter: FilterText},
		{Field: "fileFormat", Header: "Format", Width: 100, Filter: FilterText},
		{Field: "status", Header: "Status", Width: 120, Filter: FilterText, Renderer: RenderStatus, Status: FileStatus, Editable: true, Editor: EditorDropdown},
		{Field: "TransactionStatus", Header: "Transaction Status", Width: 150, Filter: FilterText, Renderer: RenderStatus, Status: StepStatus, Editable: true, Editor: EditorDropdown},
		{Field: "DataImported", Header: "Data Imported", Width: 130, Filter: FilterText, Renderer: RenderStatus, Status: StepStatus},
		{Field: "DataValidated", Header: "Data Validated", Width: 130, Filter: FilterText, Renderer: RenderStatus, Status: StepStatus},
		{Field: "MappingResolved", Header: "Mapping Resolved", Width: 150, Filter: FilterText, Renderer: RenderStatus, Status: StepStatus},
		{Field: "uploadedOn", Header: "Uploaded On", Width: 170, Filter: FilterDate, Renderer: RenderDate},
		{Field: "processedOn", Header: "Processed On", Width: 170, Filter: FilterDate, Renderer: RenderDate, Editable: true, Editor: EditorDatepicker},
		{Field: "TransactionType", Header: "Transaction Type", Width: 140, Filter: FilterText},
		{Field: "MasterPackageName", Header: "Master Package", Width: 200, Filter: FilterText, Editable: true, Editor: EditorInput},
		{Field: "entityId", Header: "Entity ID", Width: 220, Filter: FilterText},
		{Field: "packageBundleId", Header: "Bundle ID", Width: 110, Filter: FilterNumber},
		{Field: "EDIPackageImportGroupId", Header: "Group ID", Width: 110, Filter: FilterNumber},
		{Field: "ErrorMessage", Header: "Error Message", Flex: 1, MinWidth: 200, Filter: FilterText, Renderer: RenderError},
	}
}

// ColumnByField finds a column by its field name.
func ColumnByField(field string) (Column, bool) {
	for _, col := range Columns() {
		if col.Field == field {
			return col, true
		}
	}
	return Column{}, false
}

// Value returns the row's value for field in display form.
func (r Row) Value(field string) string {
	switch field {
	case "EDIPackageImportID":
		return strconv.FormatInt(r.EDIPackageImportID, 10)
	case "fileName":
		return r.FileName
	case "filetype":
		return r.FileType
	case "fileFormat":
		return r.FileFormat
	case "entityId":
		return r.EntityID
	case "status":
		return r.Status
	case "uploadedOn":
		return r.UploadedOn
	case "processedOn":
		return r.ProcessedOn
	case "packageBundleId":
		return strconv.FormatInt(r.PackageBundleID, 10)
	case "lastModified":
		return r.LastModified
	case "TransactionType":
		return r.TransactionType
	case "MasterPackageName":
		return r.MasterPackageName
	case "DataImported":
		return r.DataImported
	case "DataValidated":
		return r.DataValidated
	case "MappingResolved":
		return r.MappingResolved
	case "TransactionStatus":
		return r.TransactionStatus
	case "EDIPackageImportGroupId":
		return strconv.FormatInt(r.EDIPackageImportGroupID, 10)
	case "ErrorMessage":
		return r.ErrorMessage
	default:
		return ""
	}
}

// StatusClass maps a status value to its pill class. Anything that is not
// the vocabulary's success value or "failed" renders as pending.
func StatusClass(vocab StatusVocabulary, value string) string {
	success := "success"
	if vocab == FileStatus {
		success = "completed"
	}
	switch strings.ToLower(value) {
	case success:
		return "status-success"
	case "failed":
		return "status-error"
	default:
		return "status-pending"
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders a timestamp the way the grid displays it. Values that
// do not parse are shown as given.
func FormatDate(raw string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	t, ok := parseDate(raw, loc)
	if !ok {
		return raw
	}
	return t.In(loc).Format("1/2/2006, 3:04:05 PM")
}

func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
