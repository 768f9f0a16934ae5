package listings

import (
	"net/http"

	sharedpath "github.com/atlasdata/alfurij-admin/internal/services/admin/module/sharedpath"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
)

// Service defines listing moderation handlers consumed by this route module.
type Service interface {
	HandleListingsPage(w http.ResponseWriter, r *http.Request)
	HandleListingCreate(w http.ResponseWriter, r *http.Request)
	HandleListingDetail(w http.ResponseWriter, r *http.Request, listingID string)
	HandleListingApprove(w http.ResponseWriter, r *http.Request, listingID string)
	HandleListingReject(w http.ResponseWriter, r *http.Request, listingID string)
}

// RegisterRoutes wires listing routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Listings, service.HandleListingsPage)
	mux.HandleFunc(routepath.ListingsNew, service.HandleListingCreate)
	mux.HandleFunc(routepath.ListingsPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandleListingPath(w, r, service)
	})
}

// HandleListingPath parses listing subroutes and dispatches to service handlers.
func HandleListingPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	parts, ok := sharedpath.Suffix(w, r, routepath.ListingsPrefix)
	if !ok {
		return
	}
	switch {
	case len(parts) == 1:
		service.HandleListingDetail(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "approve":
		service.HandleListingApprove(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "reject":
		service.HandleListingReject(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}
