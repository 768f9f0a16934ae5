package admin

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/forms"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/events"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/templates"
	"github.com/atlasdata/alfurij-admin/internal/services/shared/htmx"
)

// MoveBanner returns ids with the entry at from moved to position to.
// Out-of-range positions return an unchanged copy.
func MoveBanner(ids []marketapi.ID, from, to int) []marketapi.ID {
	out := make([]marketapi.ID, len(ids))
	copy(out, ids)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}

func (h *Handler) handleBannersPage(w http.ResponseWriter, r *http.Request) {
	loc, tag := h.localizer(w, r)
	switch r.Method {
	case http.MethodGet:
		h.renderBanners(w, r, loc, tag, templates.FormState{}, http.StatusOK)
	case http.MethodPost:
		h.submitBanner(w, r, loc, tag)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) renderBanners(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, state templates.FormState, status int) {
	client := h.client(r)
	view := templates.BannersView{Form: state}
	banners, err := client.ListBanners(r.Context())
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: list banners: %v", err)
		view.Error = errorMessage(loc, err)
		view.RetryURL = routepath.Banners
	}
	for i, banner := range banners {
		id := banner.ID.String()
		view.Rows = append(view.Rows, templates.BannerRow{
			ID:        id,
			Title:     banner.Title,
			Link:      banner.Link,
			ImageURL:  client.MediaURL(banner.Image),
			DeleteURL: routepath.BannerDelete(id),
			MoveURL:   routepath.BannerMove(id),
			First:     i == 0,
			Last:      i == len(banners)-1,
		})
	}
	page := h.pageContext(r, loc, tag, "banners.title")
	h.render(w, r, page, templates.BannersPage(page, view), status)
}

func (h *Handler) submitBanner(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag) {
	if !h.parseCatalogUpload(w, r, loc, tag, h.renderBanners) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	values := map[string]string{
		"title": strings.TrimSpace(r.PostFormValue("title")),
		"link":  strings.TrimSpace(r.PostFormValue("link")),
	}
	files := &openedFiles{}
	defer files.Close()
	image, _, err := files.openOne(r, "image")
	if err != nil {
		log.Printf("admin: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	input := marketapi.BannerInput{Title: values["title"], Link: values["link"], Image: image}
	err = forms.Banner(input)
	var created marketapi.Banner
	if err == nil {
		created, err = h.client(r).CreateBanner(r.Context(), input)
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		h.renderBanners(w, r, loc, tag, formState(loc, values, err), formStatus(err))
		return
	}
	h.emit(r, events.BannerCreated, created.ID.String(), map[string]string{"title": input.Title})
	htmx.Redirect(w, r, withNotice(routepath.Banners, "notice.banner_created"))
}

func (h *Handler) handleBannerDelete(w http.ResponseWriter, r *http.Request, bannerID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	loc, tag := h.localizer(w, r)
	if err := h.client(r).DeleteBanner(r.Context(), bannerID); err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		h.renderBanners(w, r, loc, tag, formState(loc, nil, err), formStatus(err))
		return
	}
	h.emit(r, events.BannerDeleted, bannerID, nil)
	htmx.Redirect(w, r, withNotice(routepath.Banners, "notice.banner_deleted"))
}

// handleBannerMove swaps a banner with its neighbour and stores the new
// order. The list is re-read first so the move applies to current state.
func (h *Handler) handleBannerMove(w http.ResponseWriter, r *http.Request, bannerID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	loc, tag := h.localizer(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	step := 0
	switch r.PostFormValue("direction") {
	case "up":
		step = -1
	case "down":
		step = 1
	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	client := h.client(r)
	banners, err := client.ListBanners(r.Context())
	if err == nil {
		ids := make([]marketapi.ID, len(banners))
		from := -1
		for i, banner := range banners {
			ids[i] = banner.ID
			if banner.ID.String() == strings.TrimSpace(bannerID) {
				from = i
			}
		}
		if from < 0 {
			err = apperrors.New(apperrors.CodeNotFound, "")
		} else if to := from + step; to >= 0 && to < len(ids) {
			err = client.UpdateBannerOrder(r.Context(), MoveBanner(ids, from, to))
		}
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		h.renderBanners(w, r, loc, tag, formState(loc, nil, err), formStatus(err))
		return
	}
	h.emit(r, events.BannersReordered, bannerID, map[string]string{"direction": r.PostFormValue("direction")})
	htmx.Redirect(w, r, withNotice(routepath.Banners, "notice.banners_reordered"))
}

func (h *Handler) handleModelsPage(w http.ResponseWriter, r *http.Request) {
	loc, tag := h.localizer(w, r)
	switch r.Method {
	case http.MethodGet:
		h.renderModels(w, r, loc, tag, templates.FormState{}, http.StatusOK)
	case http.MethodPost:
		h.submitModel(w, r, loc, tag, "")
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) renderModels(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, state templates.FormState, status int) {
	client := h.client(r)
	view := templates.ModelsView{Form: state}
	models, err := client.ListModels(r.Context())
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: list models: %v", err)
		view.Error = errorMessage(loc, err)
		view.RetryURL = routepath.Models
	}
	for _, model := range models {
		id := model.ID.String()
		view.Rows = append(view.Rows, templates.ModelRow{
			ID:        id,
			TruckName: model.TruckName,
			ModelName: model.ModelName,
			ImageURL:  client.MediaURL(model.Image),
			UpdateURL: routepath.Model(id),
			DeleteURL: routepath.ModelDelete(id),
		})
	}
	page := h.pageContext(r, loc, tag, "models.title")
	h.render(w, r, page, templates.ModelsPage(page, view), status)
}

func (h *Handler) handleModelUpdate(w http.ResponseWriter, r *http.Request, modelID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	loc, tag := h.localizer(w, r)
	h.submitModel(w, r, loc, tag, modelID)
}

// submitModel creates a model, or updates modelID when it is set.
func (h *Handler) submitModel(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, modelID string) {
	if !h.parseCatalogUpload(w, r, loc, tag, h.renderModels) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	creating := modelID == ""
	values := map[string]string{
		"truck_name": strings.TrimSpace(r.PostFormValue("truck_name")),
		"model_name": strings.TrimSpace(r.PostFormValue("model_name")),
	}
	files := &openedFiles{}
	defer files.Close()
	image, _, err := files.openOne(r, "image")
	if err != nil {
		log.Printf("admin: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	input := marketapi.ModelInput{TruckName: values["truck_name"], ModelName: values["model_name"], Image: image}
	err = forms.Model(input, creating)
	var saved marketapi.TruckModel
	if err == nil {
		if creating {
			saved, err = h.client(r).CreateModel(r.Context(), input)
		} else {
			saved, err = h.client(r).UpdateModel(r.Context(), modelID, input)
		}
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		if !creating {
			// The create form must not echo a row being edited.
			values = nil
		}
		h.renderModels(w, r, loc, tag, formState(loc, values, err), formStatus(err))
		return
	}
	h.emit(r, events.ModelSaved, firstNonEmpty(saved.ID.String(), modelID), map[string]string{
		"truck_name": input.TruckName,
		"model_name": input.ModelName,
	})
	notice := "notice.model_updated"
	if creating {
		notice = "notice.model_created"
	}
	htmx.Redirect(w, r, withNotice(routepath.Models, notice))
}

func (h *Handler) handleModelDelete(w http.ResponseWriter, r *http.Request, modelID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	loc, tag := h.localizer(w, r)
	if err := h.client(r).DeleteModel(r.Context(), modelID); err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		h.renderModels(w, r, loc, tag, formState(loc, nil, err), formStatus(err))
		return
	}
	h.emit(r, events.ModelDeleted, modelID, nil)
	htmx.Redirect(w, r, withNotice(routepath.Models, "notice.model_deleted"))
}

func (h *Handler) handleModelsDeleteAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	loc, tag := h.localizer(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := forms.Confirm(r.PostFormValue("confirm"))
	if err == nil {
		err = h.client(r).DeleteAllModels(r.Context())
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		h.renderModels(w, r, loc, tag, formState(loc, nil, err), formStatus(err))
		return
	}
	h.emit(r, events.ModelsCleared, "", nil)
	htmx.Redirect(w, r, withNotice(routepath.Models, "notice.models_cleared"))
}

type catalogRenderer func(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, state templates.FormState, status int)

// parseCatalogUpload parses a multipart catalog form, rendering the page
// itself when the body is rejected.
func (h *Handler) parseCatalogUpload(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, render catalogRenderer) bool {
	err := parseUploadForm(w, r)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		state := formState(loc, nil, apperrors.WithMetadata(apperrors.CodeValidation, forms.KeyFailed, map[string]string{"image": forms.KeyUploadTooLarge}))
		render(w, r, loc, tag, state, http.StatusRequestEntityTooLarge)
		return false
	}
	http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	return false
}
