package auctions

import (
	"net/http"

	sharedpath "github.com/atlasdata/alfurij-admin/internal/services/admin/module/sharedpath"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
)

// Service defines auction board, detail, and stream control handlers.
type Service interface {
	HandleAuctionsPage(w http.ResponseWriter, r *http.Request)
	HandleLiveBoard(w http.ResponseWriter, r *http.Request)
	HandleAuctionDetail(w http.ResponseWriter, r *http.Request, status string, auctionID string)
	HandleStreamControl(w http.ResponseWriter, r *http.Request, auctionID string)
	HandleStreamFeed(w http.ResponseWriter, r *http.Request, auctionID string)
}

// detailSegments are the status segments that prefix an auction detail path.
var detailSegments = map[string]bool{
	"live":      true,
	"scheduled": true,
	"ended":     true,
}

// RegisterRoutes wires auction routes into the provided mux.
func RegisterRoutes(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	mux.HandleFunc(routepath.Auctions, service.HandleAuctionsPage)
	mux.HandleFunc(routepath.Live, service.HandleLiveBoard)
	mux.HandleFunc(routepath.AuctionsPrefix, func(w http.ResponseWriter, r *http.Request) {
		HandleAuctionPath(w, r, service)
	})
}

// HandleAuctionPath parses auction subroutes and dispatches to service handlers.
func HandleAuctionPath(w http.ResponseWriter, r *http.Request, service Service) {
	if service == nil {
		http.NotFound(w, r)
		return
	}
	parts, ok := sharedpath.Suffix(w, r, routepath.AuctionsPrefix)
	if !ok {
		return
	}
	switch {
	case len(parts) == 2 && detailSegments[parts[0]]:
		service.HandleAuctionDetail(w, r, parts[0], parts[1])
	case len(parts) == 2 && parts[1] == "stream":
		service.HandleStreamControl(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "stream" && parts[2] == "ws":
		service.HandleStreamFeed(w, r, parts[0])
	default:
		http.NotFound(w, r)
	}
}
