package feeds

import (
	"net/http"

	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
)

// Service defines the read-only feed handlers: complaints, notifications,
// and transactions.
type Service interface {
	HandleComplaints(w http.ResponseWriter, r *http.Request)
	HandleNotifications(w http.ResponseWriter, r *http.Request)
	HandleTransactions(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires feed routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Complaints, service.HandleComplaints)
	mux.HandleFunc(routepath.Notifications, service.HandleNotifications)
	mux.HandleFunc(routepath.Transactions, service.HandleTransactions)
}
