package catalog

import (
	"net/http"

	sharedpath "github.com/atlasdata/alfurij-admin/internal/services/admin/module/sharedpath"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
)

// Service defines handlers for the marketplace catalog: home banners and
// truck models.
type Service interface {
	HandleBannersPage(w http.ResponseWriter, r *http.Request)
	HandleBannerDelete(w http.ResponseWriter, r *http.Request, bannerID string)
	HandleBannerMove(w http.ResponseWriter, r *http.Request, bannerID string)
	HandleModelsPage(w http.ResponseWriter, r *http.Request)
	HandleModelUpdate(w http.ResponseWriter, r *http.Request, modelID string)
	HandleModelDelete(w http.ResponseWriter, r *http.Request, modelID string)
	HandleModelsDeleteAll(w http.ResponseWriter, r *http.Request)
}

// RegisterRoutes wires catalog routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Banners, service.HandleBannersPage)
	mux.HandleFunc(routepath.BannersPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandleBannerPath(w, r, service)
	})
	mux.HandleFunc(routepath.Models, service.HandleModelsPage)
	mux.HandleFunc(routepath.ModelsDeleteAll, service.HandleModelsDeleteAll)
	mux.HandleFunc(routepath.ModelsPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandleModelPath(w, r, service)
	})
}

// HandleBannerPath parses banner subroutes and dispatches to service handlers.
func HandleBannerPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	parts, ok := sharedpath.Suffix(w, r, routepath.BannersPrefix)
	if !ok {
		return
	}
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	switch parts[1] {
	case "delete":
		service.HandleBannerDelete(w, r, parts[0])
	case "move":
		service.HandleBannerMove(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}

// HandleModelPath parses model subroutes and dispatches to service handlers.
func HandleModelPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	parts, ok := sharedpath.Suffix(w, r, routepath.ModelsPrefix)
	if !ok {
		return
	}
	switch {
	case len(parts) == 1:
		service.HandleModelUpdate(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "delete":
		service.HandleModelDelete(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}
