package admin

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
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

// listingCategory is one marketplace category; Value is what the API stores.
type listingCategory struct {
	Value string
	Key   string
}

var listingCategories = []listingCategory{
	{Value: "سيارات", Key: "listings.category.cars"},
	{Value: "شاحنات", Key: "listings.category.trucks"},
	{Value: "دراجات", Key: "listings.category.bikes"},
}

var (
	listingAdTypes    = []string{"ad", "live_auction", "scheduled_auction"}
	listingConditions = []string{"new", "used", "scrap"}
)

// listingDetailFields are the free-text inputs of the add-truck form.
var listingDetailFields = []struct {
	name  string
	input string
}{
	{"title", "text"},
	{"city", "text"},
	{"price", "number"},
	{"serial_number", "text"},
	{"cabin_type", "text"},
	{"vehicle_type", "text"},
	{"engine_capacity", "text"},
	{"transmission", "text"},
	{"fuel_type", "text"},
	{"lights_type", "text"},
	{"color", "text"},
	{"length", "number"},
	{"width", "number"},
	{"height", "number"},
	{"kilometers", "number"},
	{"registration_year", "number"},
	{"gearbox_brand", "text"},
	{"gearbox_type", "text"},
	{"point_value", "number"},
}

var listingAuctionFields = []struct {
	name  string
	input string
}{
	{"auction_start_date", "date"},
	{"auction_start_time", "time"},
	{"auction_end_date", "date"},
	{"auction_end_time", "time"},
}

func listingStatusSelect(loc *message.Printer, value string) templates.SelectField {
	options := []templates.SelectOption{{Value: "", Label: loc.Sprintf("listings.filter.all_statuses")}}
	for _, status := range marketapi.ListingStatuses {
		options = append(options, templates.SelectOption{Value: string(status), Label: listingStatusLabel(loc, status)})
	}
	return templates.NewSelectField("status", value, options)
}

func listingCategorySelect(loc *message.Printer, value string, blankKey string) templates.SelectField {
	options := []templates.SelectOption{{Value: "", Label: loc.Sprintf(blankKey)}}
	for _, category := range listingCategories {
		options = append(options, templates.SelectOption{Value: category.Value, Label: loc.Sprintf(category.Key)})
	}
	return templates.NewSelectField("category", value, options)
}

func categoryLabel(loc *message.Printer, value string) string {
	for _, category := range listingCategories {
		if category.Value == value {
			return loc.Sprintf(category.Key)
		}
	}
	return value
}

func (h *Handler) listingRow(loc *message.Printer, listing marketapi.Listing) templates.ListingRow {
	return templates.ListingRow{
		ID:          listing.ID.String(),
		Title:       firstNonEmpty(listing.Title, "#"+listing.ID.String()),
		Seller:      firstNonEmpty(listing.Seller.Name, listing.Seller.Email, listing.Seller.Phone),
		City:        listing.City,
		Category:    categoryLabel(loc, listing.Category),
		Price:       formatMoney(loc, listing.Price, marketapi.DefaultCurrency),
		AdType:      adTypeLabel(loc, listing.AdType),
		Status:      string(listing.Status),
		StatusLabel: listingStatusLabel(loc, listing.Status),
		CreatedAt:   formatDate(listing.CreatedAt, h.location),
		URL:         routepath.Listing(listing.ID.String()),
	}
}

func (h *Handler) handleListingsPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	loc, tag := h.localizer(w, r)
	query := r.URL.Query()
	filter := marketapi.ListingFilter{
		Search:   strings.TrimSpace(query.Get("q")),
		Status:   strings.TrimSpace(query.Get("status")),
		City:     strings.TrimSpace(query.Get("city")),
		Category: strings.TrimSpace(query.Get("category")),
		Page:     pageParam(r),
	}
	if filter.Status != "" && !marketapi.ListingStatus(filter.Status).Valid() {
		filter.Status = ""
	}

	view := templates.ListingsView{
		Search:   filter.Search,
		City:     filter.City,
		Status:   listingStatusSelect(loc, filter.Status),
		Category: listingCategorySelect(loc, filter.Category, "listings.filter.all_categories"),
	}
	listings, meta, err := h.client(r).ListAdminListings(r.Context(), filter)
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: list listings: %v", err)
		view.Error = errorMessage(loc, err)
		view.RetryURL = retryURL(r)
	}
	for _, listing := range listings {
		view.Rows = append(view.Rows, h.listingRow(loc, listing))
	}
	view.Pager = templates.NewPager(r.URL.RequestURI(), filter.Page, meta.HasNext())

	page := h.pageContext(r, loc, tag, "listings.title")
	h.render(w, r, page, templates.ListingsPage(page, view), http.StatusOK)
}

func (h *Handler) handleListingDetail(w http.ResponseWriter, r *http.Request, listingID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	loc, tag := h.localizer(w, r)
	h.renderListingDetail(w, r, loc, tag, listingID, templates.FormState{}, http.StatusOK)
}

// renderListingDetail loads the listing and renders it with approve, the
// state of a failed moderation attempt.
func (h *Handler) renderListingDetail(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, listingID string, approve templates.FormState, status int) {
	page := h.pageContext(r, loc, tag, "listings.detail_title")
	client := h.client(r)
	listing, err := client.GetListing(r.Context(), listingID)
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: get listing %s: %v", listingID, err)
		view := templates.ListingDetailView{
			Error:    errorMessage(loc, err),
			RetryURL: routepath.Listing(listingID),
		}
		h.render(w, r, page, templates.ListingDetailPage(page, view), apperrors.CodeOf(err).HTTPStatus())
		return
	}

	page.Title = firstNonEmpty(listing.Title, page.Title)
	view := templates.ListingDetailView{
		Listing:     h.listingRow(loc, listing),
		Description: listing.Description,
		Model:       listing.Model,
		Year:        listing.Year,
		Features:    listing.Features,
		CanModerate: listing.Status == marketapi.ListingPending,
		IsAuction:   listing.AdType == "live_auction" || listing.AdType == "scheduled_auction",
		ApproveURL:  routepath.ListingApprove(listingID),
		RejectURL:   routepath.ListingReject(listingID),
		Approve:     approve,
	}
	for _, media := range listing.Media {
		if resolved := client.MediaURL(media); resolved != "" {
			view.Media = append(view.Media, resolved)
		}
	}
	h.render(w, r, page, templates.ListingDetailPage(page, view), status)
}

func (h *Handler) handleListingApprove(w http.ResponseWriter, r *http.Request, listingID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	loc, tag := h.localizer(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	raw := forms.ApproveForm{
		StartAt:       r.PostFormValue("start_at"),
		EndAt:         r.PostFormValue("end_at"),
		StartingPrice: r.PostFormValue("starting_price"),
	}
	values := map[string]string{"start_at": raw.StartAt, "end_at": raw.EndAt, "starting_price": raw.StartingPrice}

	input, err := forms.Approve(raw, h.location)
	if err == nil {
		err = h.client(r).ApproveListing(r.Context(), listingID, input)
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		h.renderListingDetail(w, r, loc, tag, listingID, formState(loc, values, err), formStatus(err))
		return
	}

	attrs := map[string]string{"auction": "false"}
	if input.IsAuction() {
		attrs = map[string]string{"auction": "true", "start_at": input.StartAt, "end_at": input.EndAt}
	}
	h.emit(r, events.ListingApproved, listingID, attrs)
	htmx.Redirect(w, r, withNotice(routepath.Listing(listingID), "notice.listing_approved"))
}

func (h *Handler) handleListingReject(w http.ResponseWriter, r *http.Request, listingID string) {
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
		err = h.client(r).RejectListing(r.Context(), listingID)
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		h.renderListingDetail(w, r, loc, tag, listingID, formState(loc, nil, err), formStatus(err))
		return
	}
	h.emit(r, events.ListingRejected, listingID, nil)
	htmx.Redirect(w, r, withNotice(routepath.Listing(listingID), "notice.listing_rejected"))
}

func (h *Handler) handleListingCreate(w http.ResponseWriter, r *http.Request) {
	loc, tag := h.localizer(w, r)
	switch r.Method {
	case http.MethodGet:
		h.renderListingForm(w, r, loc, tag, templates.FormState{}, http.StatusOK)
	case http.MethodPost:
		h.submitListing(w, r, loc, tag)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) submitListing(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag) {
	if err := parseUploadForm(w, r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			state := formState(loc, nil, apperrors.WithMetadata(apperrors.CodeValidation, forms.KeyFailed, map[string]string{"video": forms.KeyUploadTooLarge}))
			h.renderListingForm(w, r, loc, tag, state, http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	values := map[string]string{}
	for key, vals := range r.MultipartForm.Value {
		if len(vals) > 0 {
			values[key] = strings.TrimSpace(vals[0])
		}
	}
	input := marketapi.ListingInput{
		AdType:           values["ad_type"],
		Title:            values["title"],
		Category:         values["category"],
		City:             values["city"],
		Description:      values["description"],
		Condition:        values["condition"],
		Model:            values["model"],
		SerialNumber:     values["serial_number"],
		CabinType:        values["cabin_type"],
		VehicleType:      values["vehicle_type"],
		EngineCapacity:   values["engine_capacity"],
		Transmission:     values["transmission"],
		FuelType:         values["fuel_type"],
		LightsType:       values["lights_type"],
		Color:            values["color"],
		Length:           values["length"],
		Width:            values["width"],
		Height:           values["height"],
		Kilometers:       values["kilometers"],
		RegistrationYear: values["registration_year"],
		GearboxBrand:     values["gearbox_brand"],
		GearboxType:      values["gearbox_type"],
		Features:         splitLines(values["features"]),
		AuctionStartDate: values["auction_start_date"],
		AuctionStartTime: values["auction_start_time"],
		AuctionEndDate:   values["auction_end_date"],
		AuctionEndTime:   values["auction_end_time"],
		PointValue:       values["point_value"],
	}

	var priceErr error
	if raw := values["price"]; raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			priceErr = apperrors.WithMetadata(apperrors.CodeValidation, forms.KeyFailed, map[string]string{"price": forms.KeyNumber})
		}
		input.Price = price
	}

	files := &openedFiles{}
	defer files.Close()
	var media forms.MediaInfo
	var err error
	if input.Images, media.Images, err = files.open(r, "image"); err == nil {
		if input.Documents, media.Documents, err = files.open(r, "pdf"); err == nil {
			input.Video, media.Video, err = files.openOne(r, "video")
		}
	}
	if err != nil {
		log.Printf("admin: %v", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	err = mergeValidation(forms.Listing(input, media), priceErr)
	var created marketapi.Listing
	if err == nil {
		created, err = h.client(r).CreateListing(r.Context(), input)
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		h.renderListingForm(w, r, loc, tag, formState(loc, values, err), formStatus(err))
		return
	}

	id := created.ID.String()
	h.emit(r, events.ListingCreated, id, map[string]string{"ad_type": input.Normalized().AdType})
	target := routepath.Listings
	if id != "" {
		target = routepath.Listing(id)
	}
	htmx.Redirect(w, r, withNotice(target, "notice.listing_created"))
}

func (h *Handler) renderListingForm(w http.ResponseWriter, r *http.Request, loc *message.Printer, tag language.Tag, state templates.FormState, status int) {
	view := templates.ListingFormView{
		Form:         state,
		Category:     listingCategorySelect(loc, state.Value("category"), "listings.field.choose"),
		Features:     state.Value("features"),
		MaxImages:    forms.MaxImages,
		MaxDocuments: forms.MaxDocuments,
	}

	adTypes := make([]templates.SelectOption, 0, len(listingAdTypes))
	for _, adType := range listingAdTypes {
		adTypes = append(adTypes, templates.SelectOption{Value: adType, Label: adTypeLabel(loc, adType)})
	}
	view.AdType = templates.NewSelectField("ad_type", firstNonEmpty(state.Value("ad_type"), "ad"), adTypes)

	conditions := make([]templates.SelectOption, 0, len(listingConditions))
	for _, condition := range listingConditions {
		conditions = append(conditions, templates.SelectOption{Value: condition, Label: loc.Sprintf("listings.condition." + condition)})
	}
	view.Condition = templates.NewSelectField("condition", firstNonEmpty(state.Value("condition"), "new"), conditions)

	modelOptions := []templates.SelectOption{{Value: "", Label: loc.Sprintf("listings.field.choose")}}
	models, err := h.client(r).ListModels(r.Context())
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		log.Printf("admin: list models for listing form: %v", err)
	}
	for _, model := range models {
		name := model.DisplayName()
		modelOptions = append(modelOptions, templates.SelectOption{Value: name, Label: name})
	}
	view.Model = templates.NewSelectField("model", state.Value("model"), modelOptions)

	for _, field := range listingDetailFields {
		view.Details = append(view.Details, templates.FormField{
			Name:  field.name,
			Label: "listings.field." + field.name,
			Type:  field.input,
			Value: state.Value(field.name),
			Error: state.FieldError(field.name),
		})
	}
	for _, field := range listingAuctionFields {
		view.AuctionFields = append(view.AuctionFields, templates.FormField{
			Name:  field.name,
			Label: "listings.field." + field.name,
			Type:  field.input,
			Value: state.Value(field.name),
			Error: state.FieldError(field.name),
		})
	}

	page := h.pageContext(r, loc, tag, "listings.new")
	h.render(w, r, page, templates.ListingFormPage(page, view), status)
}

// mergeValidation combines validation failures into one field map.
func mergeValidation(errs ...error) error {
	merged := map[string]string{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		fields := apperrors.Fields(err)
		if fields == nil {
			return err
		}
		for field, key := range fields {
			if _, ok := merged[field]; !ok {
				merged[field] = key
			}
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeValidation, forms.KeyFailed, merged)
}

func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
