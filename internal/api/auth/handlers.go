package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/api/shell"
	"github.com/codr1/wfxconsole/internal/config"
	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/ratelimit"
	"github.com/codr1/wfxconsole/internal/storage"
	authtempl "github.com/codr1/wfxconsole/internal/templates/components/auth"
	"github.com/codr1/wfxconsole/internal/users"
)

const invalidCredentials = "Invalid username or password"

type passwordChecker interface {
	CheckPassword(ctx context.Context, email, password string) (users.User, bool, error)
}

var (
	appConfig *config.Config
	store     *storage.Store
	limiter   *ratelimit.Limiter
	accounts  passwordChecker
)

// InitHandlers wires the login handlers. userSvc may be nil, in which case
// only the configured admin account can sign in.
func InitHandlers(cfg *config.Config, s *storage.Store, l *ratelimit.Limiter, userSvc *users.Service) {
	appConfig = cfg
	store = s
	limiter = l
	accounts = nil
	if userSvc != nil {
		accounts = userSvc
	}
}

func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if client, err := authz.RequireClient(ctx); err == nil && client != nil {
		http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
		return
	}

	data := authtempl.LoginData{Next: safeNext(r.URL.Query().Get("next"))}
	shell.RenderBare(w, r, http.StatusOK, "Sign in", authtempl.LoginForm(data))
}

func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	if appConfig == nil || store == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	data := authtempl.LoginData{Username: username, Next: safeNext(r.FormValue("next"))}
	if username == "" || password == "" {
		data.Error = "Username and password are required"
		shell.RenderBare(w, r, http.StatusBadRequest, "Sign in", authtempl.LoginForm(data))
		return
	}

	ip := ratelimit.GetClientIP(r, appConfig.Auth.TrustProxy)
	if limiter != nil {
		if result := limiter.CheckLogin(username, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded(ctx, "login", username, ip, result.Reason)
			w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			data.Error = "Too many failed attempts. Try again later."
			shell.RenderBare(w, r, http.StatusTooManyRequests, "Sign in", authtempl.LoginForm(data))
			return
		}
	}

	ok, err := checkCredentials(ctx, username, password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check credentials")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !ok {
		if limiter != nil && limiter.RecordLoginFailure(username, ip) {
			ratelimit.LogRateLimitExceeded(ctx, "login", username, ip, "lockout")
		}
		logger.Info().Str("username", ratelimit.SanitizeIdentifier(username)).Msg("Failed login")
		data.Error = invalidCredentials
		shell.RenderBare(w, r, http.StatusUnauthorized, "Sign in", authtempl.LoginForm(data))
		return
	}
	if limiter != nil {
		limiter.ResetLogin(username)
	}

	client := authz.ClientFromContext(ctx)
	if err := CreateSession(ctx, w, client); err != nil {
		logger.Error().Err(err).Msg("Failed to create session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := client.Notify.Success(ctx, notify.Options{Summary: "Signed in", Detail: "Welcome back, " + username}); err != nil {
		logger.Warn().Err(err).Msg("Failed to queue sign-in toast")
	}

	logger.Info().Str("username", ratelimit.SanitizeIdentifier(username)).Msg("Signed in")
	http.Redirect(w, r, data.Next, http.StatusSeeOther)
}

func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w, authz.ClientFromContext(r.Context()))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// checkCredentials accepts the configured admin account or any user with a
// stored password hash.
func checkCredentials(ctx context.Context, username, password string) (bool, error) {
	if appConfig.Auth.PasswordHash != "" && strings.EqualFold(username, appConfig.Auth.Username) {
		return VerifyPassword(appConfig.Auth.PasswordHash, password), nil
	}
	if accounts == nil || !strings.Contains(username, "@") {
		return false, nil
	}
	_, ok, err := accounts.CheckPassword(ctx, username, password)
	return ok, err
}
