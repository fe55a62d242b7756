// internal/api/dashboard/handlers.go
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/api/shell"
	dashboardtempl "github.com/codr1/wfxconsole/internal/templates/components/dashboard"
	"github.com/codr1/wfxconsole/internal/users"
)

const dashboardQueryTimeout = 5 * time.Second

type userCounter interface {
	List(ctx context.Context, filters users.Filters) (users.Page[users.User], error)
}

var (
	accounts  userCounter
	startedAt = time.Now()
	now       = time.Now
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(userSvc *users.Service) {
	if userSvc == nil {
		log.Warn().Msg("InitHandlers called with nil user service; dashboard counts will be empty")
		return
	}
	accounts = userSvc
}

// HandleDashboardPage renders the dashboard for GET /.
func HandleDashboardPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dashboardQueryTimeout)
	defer cancel()

	shell.Render(w, r, "Dashboard", dashboardtempl.Page(buildDashboardData(ctx)))
}

func buildDashboardData(ctx context.Context) dashboardtempl.DashboardData {
	data := dashboardtempl.DashboardData{Subtitle: "Welcome to the Enterprise Application"}

	total, pending := "n/a", "n/a"
	if accounts != nil {
		if n, err := countUsers(ctx, users.Filters{}); err == nil {
			total = formatCount(n)
		} else {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to count users")
		}
		if n, err := countUsers(ctx, users.Filters{Status: "pending"}); err == nil {
			pending = formatCount(n)
		} else {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to count pending users")
		}
	}

	data.Cards = []dashboardtempl.Card{
		{Icon: "pi pi-users", Value: total, Label: "Total Users"},
		{Icon: "pi pi-check-circle", Value: formatUptime(now().Sub(startedAt)), Label: "Uptime", Variant: "success"},
		{Icon: "pi pi-exclamation-triangle", Value: pending, Label: "Pending Users", Variant: "warning"},
	}
	if client := authz.ClientFromContext(ctx); client != nil && client.Theme != nil {
		current := client.Theme.Current()
		data.Cards = append(data.Cards, dashboardtempl.Card{Icon: "pi pi-palette", Value: current.Name, Label: "Active Theme"})
	}
	return data
}

func countUsers(ctx context.Context, filters users.Filters) (int64, error) {
	filters.PageSize = 1
	page, err := accounts.List(ctx, filters)
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

// formatCount groups thousands with commas.
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + formatCount(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func formatUptime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just started"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd %dh", int(d.Hours())/24, int(d.Hours())%24)
	}
}
