package dashboard

import (
	"net/http"

	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
)

// Service defines dashboard route handlers consumed by this route module.
type Service interface {
	HandleDashboard(w http.ResponseWriter, r *http.Request)
	HandleDashboardCalendar(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires dashboard routes into the provided mux. The root path
// redirects to the dashboard; any other unmatched path is not found.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Root, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != routepath.Root {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, routepath.Dashboard, http.StatusFound)
	})
	mux.HandleFunc(routepath.Dashboard, service.HandleDashboard)
	mux.HandleFunc(routepath.DashboardCalendar, service.HandleDashboardCalendar)
}
