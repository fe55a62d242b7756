// internal/api/forms/handlers.go
package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/api/shell"
	"github.com/codr1/wfxconsole/internal/config"
	"github.com/codr1/wfxconsole/internal/notify"
	formstempl "github.com/codr1/wfxconsole/internal/templates/components/forms"
	"github.com/codr1/wfxconsole/internal/users"
	"github.com/codr1/wfxconsole/internal/widgets"
)

var (
	submitDelay   = 1500 * time.Millisecond
	defaultRegion = "US"
	validate      = validator.New(validator.WithRequiredStructEnabled())
)

// InitHandlers applies the forms section of cfg.
func InitHandlers(cfg *config.Config) {
	if cfg == nil {
		return
	}
	submitDelay = cfg.Forms.SubmitDelay
	if cfg.Forms.DefaultRegion != "" {
		defaultRegion = strings.ToUpper(cfg.Forms.DefaultRegion)
	}
}

// Submission is the validated form model.
type Submission struct {
	FirstName       string   `json:"firstName" validate:"required,max=100"`
	LastName        string   `json:"lastName" validate:"required,max=100"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"omitempty,e164"`
	BirthDate       string   `json:"birthDate"`
	AppointmentDate string   `json:"appointmentDate"`
	Age             *float64 `json:"age" validate:"omitempty,gte=0,lte=150"`
	Salary          *float64 `json:"salary" validate:"omitempty,gte=0"`
	Country         string   `json:"country" validate:"required,oneof=US UK CA AU DE FR IN JP"`
	Skills          []string `json:"skills" validate:"max=8,dive,oneof=angular react vue typescript nodejs python java sql"`
	Gender          string   `json:"gender" validate:"omitempty,oneof=male female other"`
	Experience      string   `json:"experience" validate:"omitempty,oneof=entry mid senior expert"`
	Bio             string   `json:"bio" validate:"max=1000"`
	Newsletter      bool     `json:"newsletter"`
	Terms           bool     `json:"terms" validate:"eq=true"`
	Notifications   bool     `json:"notifications"`
	DarkMode        bool     `json:"darkMode"`
}

type option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var (
	countryOptions = []option{
		{"United States", "US"}, {"United Kingdom", "UK"}, {"Canada", "CA"}, {"Australia", "AU"},
		{"Germany", "DE"}, {"France", "FR"}, {"India", "IN"}, {"Japan", "JP"},
	}
	skillOptions = []option{
		{"Angular", "angular"}, {"React", "react"}, {"Vue.js", "vue"}, {"TypeScript", "typescript"},
		{"Node.js", "nodejs"}, {"Python", "python"}, {"Java", "java"}, {"SQL", "sql"},
	}
	genderOptions     = []option{{"Male", "male"}, {"Female", "female"}, {"Other", "other"}}
	experienceOptions = []option{
		{"Entry Level (0-2 years)", "entry"}, {"Mid Level (3-5 years)", "mid"},
		{"Senior (5-10 years)", "senior"}, {"Expert (10+ years)", "expert"},
	}
)

type fieldDef struct {
	name     string
	label    string
	required bool
	spec     widgets.Spec
	props    widgets.Props
}

type sectionDef struct {
	title  string
	icon   string
	single bool
	fields []fieldDef
}

var sections = []sectionDef{
	{title: "Personal Information", icon: "pi pi-user", fields: []fieldDef{
		{"firstName", "First Name", true, widgets.UIInput, widgets.Props{"placeholder": "Enter first name"}},
		{"lastName", "Last Name", true, widgets.UIInput, widgets.Props{"placeholder": "Enter last name"}},
		{"email", "Email", true, widgets.UIInput, widgets.Props{"type": "email", "placeholder": "Enter email address"}},
		{"phone", "Phone Number", false, widgets.UIInput, widgets.Props{"type": "tel", "placeholder": "Enter phone number"}},
	}},
	{title: "Date & Numbers", icon: "pi pi-calendar", fields: []fieldDef{
		{"birthDate", "Birth Date", false, widgets.UIDatepicker, widgets.Props{"placeholder": "Select birth date", "showButtonBar": true}},
		{"appointmentDate", "Appointment Date & Time", false, widgets.UIDatepicker, widgets.Props{"placeholder": "Select date and time", "showTime": true, "dateFormat": "dd/mm/yy"}},
		{"age", "Age", false, widgets.UIInputNumber, widgets.Props{"placeholder": "Enter age", "min": 0, "max": 150, "showButtons": true}},
		{"salary", "Expected Salary", false, widgets.UIInputNumber, widgets.Props{"placeholder": "Enter salary", "mode": "currency", "currency": "USD", "minFractionDigits": 2}},
	}},
	{title: "Selection Options", icon: "pi pi-list", fields: []fieldDef{
		{"country", "Country", true, widgets.UIDropdown, widgets.Props{"options": countryOptions, "placeholder": "Select a country", "filter": true, "showClear": true}},
		{"skills", "Skills", false, widgets.UIMultiselect, widgets.Props{"options": skillOptions, "placeholder": "Select skills", "display": "chip"}},
		{"gender", "Gender", false, widgets.UIRadioGroup, widgets.Props{"options": genderOptions, "styleClass": "horizontal"}},
		{"experience", "Experience Level", false, widgets.UIRadioGroup, widgets.Props{"options": experienceOptions}},
	}},
	{title: "Additional Information", icon: "pi pi-info-circle", single: true, fields: []fieldDef{
		{"bio", "Bio / Description", false, widgets.UITextarea, widgets.Props{"placeholder": "Tell us about yourself...", "rows": 4, "autoResize": true}},
	}},
	{title: "Preferences", icon: "pi pi-sliders-h", fields: []fieldDef{
		{"newsletter", "", false, widgets.UICheckbox, widgets.Props{"label": "Subscribe to newsletter"}},
		{"terms", "", true, widgets.UICheckbox, widgets.Props{"label": "I agree to the terms and conditions *"}},
		{"notifications", "", false, widgets.UISwitch, widgets.Props{"label": "Enable notifications"}},
		{"darkMode", "", false, widgets.UISwitch, widgets.Props{"label": "Dark mode"}},
	}},
}

// fieldMessages override validator messages where the form has friendlier text.
var fieldMessages = map[string]string{
	"firstName": "First name is required",
	"lastName":  "Last name is required",
	"email":     "Valid email is required",
	"country":   "Country is required",
	"terms":     "You must accept the terms",
}

// DefaultSubmission is the state of a fresh or reset form.
func DefaultSubmission() Submission {
	return Submission{Notifications: true, Skills: []string{}}
}

// /forms
func HandlePage(w http.ResponseWriter, r *http.Request) {
	data, err := buildForm(DefaultSubmission(), nil, nil)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to build form")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	shell.Render(w, r, "Forms", formstempl.Page(data))
}

// /forms (POST)
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	sub, err := bindSubmission(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	errs := Validate(&sub, defaultRegion)
	if len(errs) > 0 {
		logger.Debug().Int("errors", len(errs)).Msg("Form submission rejected")
		shell.Toast(w, r, notify.SeverityError, notify.Options{Summary: "Validation Error", Detail: "Please fill in all required fields."})
		renderForm(w, r, sub, errs, nil)
		return
	}

	if err := simulateLatency(ctx, submitDelay); err != nil {
		logger.Info().Err(err).Msg("Form submission abandoned")
		return
	}

	logger.Info().Str("email", sub.Email).Str("country", sub.Country).Msg("Form submitted")
	shell.Toast(w, r, notify.SeveritySuccess, notify.Options{Summary: "Success", Detail: "Form submitted successfully!"})
	renderForm(w, r, sub, nil, summarize(sub))
}

// /forms/reset (POST)
func HandleReset(w http.ResponseWriter, r *http.Request) {
	shell.Toast(w, r, notify.SeverityInfo, notify.Options{Summary: "Form Reset", Detail: "All fields have been cleared."})
	renderForm(w, r, DefaultSubmission(), nil, nil)
}

func renderForm(w http.ResponseWriter, r *http.Request, sub Submission, errs map[string]string, summary *formstempl.Summary) {
	data, err := buildForm(sub, errs, summary)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to build form")
		http.Error(w, "Failed to render form", http.StatusInternalServerError)
		return
	}
	apiutil.RenderHTMLComponent(r.Context(), w, formstempl.Form(data), nil, "Failed to render form", "Failed to render form")
}

// simulateLatency stands in for a remote call. It returns early with the
// context's error when the client goes away.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Validate checks sub, normalising Phone to E.164 in place. It returns
// messages keyed by field name.
func Validate(sub *Submission, region string) map[string]string {
	errs := map[string]string{}

	if raw := strings.TrimSpace(sub.Phone); raw != "" {
		normalized, err := NormalizePhone(raw, phoneRegion(sub.Country, region))
		if err != nil {
			errs["phone"] = "must be a valid phone number"
		} else {
			sub.Phone = normalized
		}
	}
	for _, field := range []struct {
		name  string
		value string
	}{{"birthDate", sub.BirthDate}, {"appointmentDate", sub.AppointmentDate}} {
		if field.value != "" && !validDate(field.value) {
			errs[field.name] = "must be a valid date"
		}
	}

	err := users.ValidateStruct(validate, sub)
	var verr *users.ValidationError
	if errors.As(err, &verr) {
		for name, msg := range verr.Fields {
			if _, ok := errs[name]; ok {
				continue
			}
			if friendly, ok := fieldMessages[name]; ok {
				msg = friendly
			}
			errs[name] = msg
		}
	}
	return errs
}

// NormalizePhone parses raw in region and formats it as E.164.
func NormalizePhone(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%q is not a valid number for %s", raw, region)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// phoneRegion maps the selected country to a CLDR region code.
func phoneRegion(country, fallback string) string {
	switch country {
	case "":
		return fallback
	case "UK":
		return "GB"
	default:
		return country
	}
}

var dateLayouts = []string{"01/02/2006", "02/01/2006", "02/01/2006 15:04", "2006-01-02", time.RFC3339}

func validDate(raw string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return true
		}
	}
	return false
}

func newControls() (map[string]*widgets.Control, []*widgets.Control, error) {
	byName := map[string]*widgets.Control{}
	var all []*widgets.Control
	for _, section := range sections {
		for _, field := range section.fields {
			c, err := widgets.NewControl(field.spec, field.name)
			if err != nil {
				return nil, nil, err
			}
			byName[field.name] = c
			all = append(all, c)
		}
	}
	return byName, all, nil
}

// bindSubmission reads the posted form through the wrapper controls.
func bindSubmission(r *http.Request) (Submission, error) {
	byName, all, err := newControls()
	if err != nil {
		return Submission{}, err
	}
	if err := widgets.BindForm(r.Form, all...); err != nil {
		return Submission{}, err
	}

	str := func(name string) string {
		s, _ := byName[name].Value().(string)
		return strings.TrimSpace(s)
	}
	flag := func(name string) bool {
		b, _ := byName[name].Value().(bool)
		return b
	}
	num := func(name string) *float64 {
		if f, ok := byName[name].Value().(float64); ok {
			return &f
		}
		return nil
	}

	return Submission{
		FirstName:       str("firstName"),
		LastName:        str("lastName"),
		Email:           str("email"),
		Phone:           str("phone"),
		BirthDate:       str("birthDate"),
		AppointmentDate: str("appointmentDate"),
		Age:             num("age"),
		Salary:          num("salary"),
		Country:         str("country"),
		Skills:          stringList(byName["skills"].Value()),
		Gender:          str("gender"),
		Experience:      str("experience"),
		Bio:             str("bio"),
		Newsletter:      flag("newsletter"),
		Terms:           flag("terms"),
		Notifications:   flag("notifications"),
		DarkMode:        flag("darkMode"),
	}, nil
}

// stringList accepts repeated form values or a single JSON array, which is
// how the multiselect's hidden input posts its value back.
func stringList(v any) []string {
	values, _ := v.([]string)
	if len(values) == 1 && strings.HasPrefix(values[0], "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(values[0]), &decoded); err == nil {
			return decoded
		}
	}
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func buildForm(sub Submission, errs map[string]string, summary *formstempl.Summary) (formstempl.FormData, error) {
	byName, _, err := newControls()
	if err != nil {
		return formstempl.FormData{}, err
	}
	values := map[string]any{
		"firstName": sub.FirstName, "lastName": sub.LastName, "email": sub.Email, "phone": sub.Phone,
		"birthDate": sub.BirthDate, "appointmentDate": sub.AppointmentDate,
		"country": sub.Country, "skills": sub.Skills, "gender": sub.Gender, "experience": sub.Experience,
		"bio": sub.Bio, "newsletter": sub.Newsletter, "terms": sub.Terms,
		"notifications": sub.Notifications, "darkMode": sub.DarkMode,
	}
	if sub.Age != nil {
		values["age"] = *sub.Age
	}
	if sub.Salary != nil {
		values["salary"] = *sub.Salary
	}

	data := formstempl.FormData{Summary: summary}
	for _, section := range sections {
		out := formstempl.Section{Title: section.title, Icon: section.icon, Single: section.single}
		for _, field := range section.fields {
			control := byName[field.name]
			if v, ok := values[field.name]; ok {
				control.WriteValue(v)
			}
			props := field.props
			if _, ok := field.spec.Prop("inputId"); ok {
				props = withProp(props, "inputId", field.name)
			}
			if errs[field.name] != "" {
				if _, ok := field.spec.Prop("styleClass"); ok && field.spec.Name != widgets.UIRadioGroup.Name {
					props = withProp(props, "styleClass", "ng-invalid ng-dirty")
				}
			}
			component, err := control.Render(props, nil)
			if err != nil {
				return formstempl.FormData{}, fmt.Errorf("%s: %w", field.name, err)
			}
			out.Fields = append(out.Fields, formstempl.Field{
				Name:      field.name,
				Label:     field.label,
				Required:  field.required && field.label != "",
				Component: component,
				Error:     errs[field.name],
			})
		}
		data.Sections = append(data.Sections, out)
	}

	reset, err := widgets.Render(widgets.UIButton, widgets.Props{"label": "Reset", "variant": "outlined", "icon": "pi pi-refresh"},
		widgets.Handlers{"onClick": "htmx.ajax('POST', '/forms/reset', {target: '#forms-demo', swap: 'outerHTML'})"})
	if err != nil {
		return formstempl.FormData{}, err
	}
	submit := templ.Raw(`<button type="submit" class="p-button"><i class="pi pi-check"></i> Submit</button>`)
	data.Actions = []templ.Component{reset, submit}
	return data, nil
}

func withProp(props widgets.Props, name string, value any) widgets.Props {
	out := make(widgets.Props, len(props)+1)
	for k, v := range props {
		out[k] = v
	}
	out[name] = value
	return out
}

func summarize(sub Submission) *formstempl.Summary {
	rows := [][2]string{
		{"Name", strings.TrimSpace(sub.FirstName + " " + sub.LastName)},
		{"Email", sub.Email},
	}
	if sub.Phone != "" {
		rows = append(rows, [2]string{"Phone (E.164)", sub.Phone})
	}
	rows = append(rows, [2]string{"Country", sub.Country})
	if len(sub.Skills) > 0 {
		rows = append(rows, [2]string{"Skills", strings.Join(sub.Skills, ", ")})
	}
	if sub.Age != nil {
		rows = append(rows, [2]string{"Age", strconv.FormatFloat(*sub.Age, 'f', -1, 64)})
	}
	if sub.Salary != nil {
		rows = append(rows, [2]string{"Expected Salary", strconv.FormatFloat(*sub.Salary, 'f', 2, 64)})
	}
	rows = append(rows,
		[2]string{"Newsletter", strconv.FormatBool(sub.Newsletter)},
		[2]string{"Notifications", strconv.FormatBool(sub.Notifications)},
	)
	return &formstempl.Summary{Rows: rows}
}
