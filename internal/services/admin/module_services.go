package admin

import (
	"net/http"
)

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.handleLogout(w, r)
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.handleDashboard(w, r)
}

func (h *Handler) HandleDashboardCalendar(w http.ResponseWriter, r *http.Request) {
	h.handleDashboardCalendar(w, r)
}

func (h *Handler) HandleListingsPage(w http.ResponseWriter, r *http.Request) {
	h.handleListingsPage(w, r)
}

func (h *Handler) HandleListingCreate(w http.ResponseWriter, r *http.Request) {
	h.handleListingCreate(w, r)
}

func (h *Handler) HandleListingDetail(w http.ResponseWriter, r *http.Request, listingID string) {
	h.handleListingDetail(w, r, listingID)
}

func (h *Handler) HandleListingApprove(w http.ResponseWriter, r *http.Request, listingID string) {
	h.handleListingApprove(w, r, listingID)
}

func (h *Handler) HandleListingReject(w http.ResponseWriter, r *http.Request, listingID string) {
	h.handleListingReject(w, r, listingID)
}

func (h *Handler) HandleAuctionsPage(w http.ResponseWriter, r *http.Request) {
	h.handleAuctionsPage(w, r)
}

func (h *Handler) HandleLiveBoard(w http.ResponseWriter, r *http.Request) {
	h.handleLiveBoard(w, r)
}

func (h *Handler) HandleAuctionDetail(w http.ResponseWriter, r *http.Request, status string, auctionID string) {
	h.handleAuctionDetail(w, r, status, auctionID)
}

func (h *Handler) HandleStreamControl(w http.ResponseWriter, r *http.Request, auctionID string) {
	h.handleStreamControl(w, r, auctionID)
}

func (h *Handler) HandleStreamFeed(w http.ResponseWriter, r *http.Request, auctionID string) {
	h.handleStreamFeed(w, r, auctionID)
}

func (h *Handler) HandleBannersPage(w http.ResponseWriter, r *http.Request) {
	h.handleBannersPage(w, r)
}

func (h *Handler) HandleBannerDelete(w http.ResponseWriter, r *http.Request, bannerID string) {
	h.handleBannerDelete(w, r, bannerID)
}

func (h *Handler) HandleBannerMove(w http.ResponseWriter, r *http.Request, bannerID string) {
	h.handleBannerMove(w, r, bannerID)
}

func (h *Handler) HandleModelsPage(w http.ResponseWriter, r *http.Request) {
	h.handleModelsPage(w, r)
}

func (h *Handler) HandleModelUpdate(w http.ResponseWriter, r *http.Request, modelID string) {
	h.handleModelUpdate(w, r, modelID)
}

func (h *Handler) HandleModelDelete(w http.ResponseWriter, r *http.Request, modelID string) {
	h.handleModelDelete(w, r, modelID)
}

func (h *Handler) HandleModelsDeleteAll(w http.ResponseWriter, r *http.Request) {
	h.handleModelsDeleteAll(w, r)
}

func (h *Handler) HandleComplaints(w http.ResponseWriter, r *http.Request) {
	h.handleComplaints(w, r)
}

func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	h.handleNotifications(w, r)
}

func (h *Handler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	h.handleTransactions(w, r)
}

func (h *Handler) HandlePasswordChange(w http.ResponseWriter, r *http.Request) {
	h.handlePasswordChange(w, r)
}

func (h *Handler) HandleEmployees(w http.ResponseWriter, r *http.Request) {
	h.handleEmployees(w, r)
}
