// internal/api/users/handlers.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/api/htmx"
	"github.com/codr1/wfxconsole/internal/api/shell"
	"github.com/codr1/wfxconsole/internal/notify"
	userstempl "github.com/codr1/wfxconsole/internal/templates/components/users"
	"github.com/codr1/wfxconsole/internal/users"
)

type userService interface {
	List(ctx context.Context, filters users.Filters) (users.Page[users.User], error)
	Get(ctx context.Context, id string) (users.User, error)
	Create(ctx context.Context, req users.CreateUserRequest) (users.User, error)
	Update(ctx context.Context, id string, req users.UpdateUserRequest) (users.User, error)
	Delete(ctx context.Context, id string) error
}

var service userService

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *users.Service) {
	if svc == nil {
		log.Warn().Msg("InitHandlers called with nil user service; user handlers will be unavailable")
		return
	}
	service = svc
}

func loadService(w http.ResponseWriter, r *http.Request) userService {
	if service == nil {
		log.Ctx(r.Context()).Error().Msg("User service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil
	}
	return service
}

// /users
func HandleUsersPage(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	filters, err := filtersFromQuery(r)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	page, err := svc.List(r.Context(), filters)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	shell.Render(w, r, "Users", userstempl.Page(userstempl.UsersData{Filters: filters, Page: page}))
}

// /users/list
func HandleUsersList(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	filters, err := filtersFromQuery(r)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	page, err := svc.List(r.Context(), filters)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	apiutil.RenderHTMLComponent(r.Context(), w, userstempl.Table(userstempl.UsersData{Filters: filters, Page: page}), nil,
		"Failed to render user table", "Failed to render user table")
}

// /users (POST) creates a user from the page form and re-renders the form;
// the table is refreshed through the usersChanged trigger.
func HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	req := users.CreateUserRequest{
		Email:     r.FormValue("email"),
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Role:      r.FormValue("role"),
		Password:  r.FormValue("password"),
	}

	user, err := svc.Create(r.Context(), req)
	if err != nil {
		values := map[string]string{
			"email": req.Email, "firstName": req.FirstName, "lastName": req.LastName, "role": req.Role,
		}
		var verr *users.ValidationError
		switch {
		case errors.As(err, &verr):
			renderCreateForm(w, r, http.StatusUnprocessableEntity, values, verr.Fields)
		case errors.Is(err, users.ErrDuplicate):
			renderCreateForm(w, r, http.StatusConflict, values, map[string]string{"email": "is already in use"})
		default:
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to create user")
			renderCreateForm(w, r, http.StatusInternalServerError, values, map[string]string{"": "Could not create user"})
		}
		return
	}

	notify.SetTrigger(w, "usersChanged", map[string]string{"id": user.ID})
	shell.Toast(w, r, notify.SeveritySuccess, notify.Options{Summary: "User created", Detail: user.FullName()})
	renderCreateForm(w, r, http.StatusOK, nil, nil)
}

func renderCreateForm(w http.ResponseWriter, r *http.Request, status int, values, errs map[string]string) {
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, userstempl.CreateForm(values, errs), nil,
		"Failed to render user form", "Failed to render user form")
}

// /api/v1/users
func HandleListUsers(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	filters, err := filtersFromQuery(r)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	page, err := svc.List(r.Context(), filters)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, page); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write users response")
	}
}

// /api/v1/users/{id}
func HandleGetUser(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	user, err := svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, user); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write user response")
	}
}

// /api/v1/users (POST)
func HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	var req users.CreateUserRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return
	}
	user, err := svc.Create(r.Context(), req)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/users/"+user.ID)
	if err := apiutil.WriteJSON(w, http.StatusCreated, user); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write user response")
	}
}

// /api/v1/users/{id} (PUT)
func HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	var req users.UpdateUserRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return
	}
	user, err := svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, user); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write user response")
	}
}

// /api/v1/users/{id} (DELETE). htmx callers get an empty body so the row is
// swapped out.
func HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	svc := loadService(w, r)
	if svc == nil {
		return
	}
	if err := svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeUserError(w, r, err)
		return
	}
	if htmx.IsRequest(r) {
		shell.Toast(w, r, notify.SeverityInfo, notify.Options{Summary: "User deleted"})
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func filtersFromQuery(r *http.Request) (users.Filters, error) {
	q := r.URL.Query()
	filters := users.Filters{
		Search: strings.TrimSpace(apiutil.FirstNonEmpty(q.Get("q"), q.Get("search"))),
		Role:   q.Get("role"),
		Status: q.Get("status"),
	}
	var err error
	if filters.Page, err = apiutil.ParseOptionalIntField(q.Get("page"), "page", 1); err != nil {
		return filters, err
	}
	if filters.PageSize, err = apiutil.ParseOptionalIntField(q.Get("pageSize"), "pageSize", users.DefaultPageSize); err != nil {
		return filters, err
	}
	return filters, nil
}

func writeUserError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *users.ValidationError
	var ferr apiutil.FieldError
	switch {
	case errors.As(err, &verr):
		if apiutil.IsJSONRequest(r) || strings.HasPrefix(r.URL.Path, "/api/") {
			writeJSONError(w, http.StatusBadRequest, "Validation failed", verr.Fields)
			return
		}
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.As(err, &ferr):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: ferr.Error(), Err: err})
	case errors.Is(err, users.ErrNotFound):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "User not found", Err: err})
	case errors.Is(err, users.ErrDuplicate):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusConflict, Message: "Email already in use", Err: err})
	default:
		apiutil.WriteError(w, r, err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	payload := map[string]any{"error": message}
	if len(fields) > 0 {
		payload["fields"] = fields
	}
	_ = apiutil.WriteJSON(w, status, payload)
}
