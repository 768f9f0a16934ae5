package account

import (
	"net/http"

	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
)

// Service defines staff account handlers consumed by this route module.
type Service interface {
	HandlePasswordChange(w http.ResponseWriter, r *http.Request)
	HandleEmployees(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires account routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.AccountPassword, service.HandlePasswordChange)
	mux.HandleFunc(routepath.AccountEmployees, service.HandleEmployees)
}
