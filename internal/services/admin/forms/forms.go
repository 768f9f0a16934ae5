// Package forms validates operator input before any upstream call is made.
//
// Failures are VALIDATION errors whose metadata maps a form field to an i18n
// message key, so views can render each problem next to its field.
package forms

import (
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/calendar"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/streamlink"
)

// Limits on uploaded listing media.
const (
	MaxImages        = 10
	MaxDocuments     = 3
	MaxVideoBytes    = 50 << 20
	MinPasswordChars = 8
)

// Message keys stored in validation metadata.
const (
	KeyFailed          = "validation.failed"
	KeyRequired        = "validation.required"
	KeyEmail           = "validation.email"
	KeyPasswordShort   = "validation.password_short"
	KeyPasswordMatch   = "validation.password_mismatch"
	KeyYouTubeURL      = "validation.youtube_url"
	KeyTooManyImages   = "validation.too_many_images"
	KeyTooManyDocs     = "validation.too_many_documents"
	KeyVideoTooLarge   = "validation.video_too_large"
	KeyImageType       = "validation.image_type"
	KeyDocumentType    = "validation.document_type"
	KeyVideoType       = "validation.video_type"
	KeyNumber          = "validation.number"
	KeyPositivePrice   = "validation.positive_price"
	KeyDateTime        = "validation.datetime"
	KeyWindowOrder     = "validation.window_order"
	KeyAdType          = "validation.ad_type"
	KeyCondition       = "validation.condition"
	KeyConfirmRequired = "validation.confirm_required"
	KeyUploadTooLarge  = "validation.upload_too_large"
)

// problems collects the first message key per field.
type problems map[string]string

func (p problems) add(field, key string) {
	if _, ok := p[field]; !ok {
		p[field] = key
	}
}

func (p problems) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		p.add(field, KeyRequired)
	}
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeValidation, KeyFailed, p)
}

// Login checks the sign-in form.
func Login(email, password string) error {
	p := problems{}
	p.required("email", email)
	p.required("password", password)
	return p.err()
}

// PasswordChange checks the change-password form.
func PasswordChange(in marketapi.PasswordChange) error {
	p := problems{}
	p.required("current_password", in.Current)
	p.required("new_password", in.New)
	p.required("password_confirmation", in.Confirmation)
	if in.New != "" && len([]rune(in.New)) < MinPasswordChars {
		p.add("new_password", KeyPasswordShort)
	}
	if in.Confirmation != "" && in.New != in.Confirmation {
		p.add("password_confirmation", KeyPasswordMatch)
	}
	return p.err()
}

// Employee checks the create-employee form.
func Employee(in marketapi.EmployeeInput) error {
	p := problems{}
	p.required("name", in.Name)
	p.required("phone", in.Phone)
	p.required("email", in.Email)
	p.required("password", in.Password)
	if email := strings.TrimSpace(in.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			p.add("email", KeyEmail)
		}
	}
	if in.Password != "" && len([]rune(in.Password)) < MinPasswordChars {
		p.add("password", KeyPasswordShort)
	}
	return p.err()
}

// StreamURL checks a stream link and returns it parsed.
func StreamURL(raw string) (streamlink.Link, error) {
	p := problems{}
	if strings.TrimSpace(raw) == "" {
		p.add("stream_url", KeyRequired)
		return streamlink.Link{}, p.err()
	}
	link, ok := streamlink.Parse(raw)
	if !ok {
		p.add("stream_url", KeyYouTubeURL)
		return streamlink.Link{}, p.err()
	}
	return link, nil
}

// FileInfo describes an uploaded file without its content.
type FileInfo struct {
	Name        string
	ContentType string
	Size        int64
}

// MediaInfo describes the files attached to a listing.
type MediaInfo struct {
	Images    []FileInfo
	Documents []FileInfo
	Video     *FileInfo
}

var (
	adTypes    = map[string]bool{"ad": true, "live_auction": true, "scheduled_auction": true}
	conditions = map[string]bool{"new": true, "used": true, "scrap": true}
)

// Listing checks the add-truck form.
func Listing(in marketapi.ListingInput, media MediaInfo) error {
	in = in.Normalized()
	p := problems{}
	p.required("title", in.Title)
	p.required("category", in.Category)
	p.required("city", in.City)
	if !adTypes[in.AdType] {
		p.add("ad_type", KeyAdType)
	}
	if !conditions[in.Condition] {
		p.add("condition", KeyCondition)
	}
	if in.Price.IsNegative() {
		p.add("price", KeyNumber)
	}
	for field, value := range map[string]string{
		"kilometers":        in.Kilometers,
		"registration_year": in.RegistrationYear,
		"length":            in.Length,
		"width":             in.Width,
		"height":            in.Height,
		"point_value":       in.PointValue,
	} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := decimal.NewFromString(strings.TrimSpace(value)); err != nil {
			p.add(field, KeyNumber)
		}
	}

	if len(media.Images) > MaxImages {
		p.add("image", KeyTooManyImages)
	}
	for _, img := range media.Images {
		if !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
			p.add("image", KeyImageType)
		}
	}
	if len(media.Documents) > MaxDocuments {
		p.add("pdf", KeyTooManyDocs)
	}
	for _, doc := range media.Documents {
		if !strings.EqualFold(doc.ContentType, "application/pdf") {
			p.add("pdf", KeyDocumentType)
		}
	}
	if media.Video != nil {
		if media.Video.Size >= MaxVideoBytes {
			p.add("video", KeyVideoTooLarge)
		}
		if !strings.HasPrefix(strings.ToLower(media.Video.ContentType), "video/") {
			p.add("video", KeyVideoType)
		}
	}

	switch in.AdType {
	case "live_auction":
		p.required("auction_start_date", in.AuctionStartDate)
		p.required("auction_start_time", in.AuctionStartTime)
	case "scheduled_auction":
		p.required("auction_start_date", in.AuctionStartDate)
		p.required("auction_start_time", in.AuctionStartTime)
		p.required("auction_end_date", in.AuctionEndDate)
		p.required("auction_end_time", in.AuctionEndTime)
		start, okStart := calendar.ParseEventDate(in.AuctionStartDate+" "+in.AuctionStartTime, time.UTC)
		end, okEnd := calendar.ParseEventDate(in.AuctionEndDate+" "+in.AuctionEndTime, time.UTC)
		if okStart && okEnd && !start.Before(end) {
			p.add("auction_end_date", KeyWindowOrder)
		}
	}
	return p.err()
}

// Model checks the truck model form. An image is required on create only.
func Model(in marketapi.ModelInput, creating bool) error {
	p := problems{}
	p.required("truck_name", in.TruckName)
	p.required("model_name", in.ModelName)
	if creating && in.Image == nil {
		p.add("image", KeyRequired)
	}
	if in.Image != nil && in.Image.ContentType != "" && !strings.HasPrefix(strings.ToLower(in.Image.ContentType), "image/") {
		p.add("image", KeyImageType)
	}
	return p.err()
}

// Banner checks the add-banner form.
func Banner(in marketapi.BannerInput) error {
	p := problems{}
	if in.Image == nil {
		p.add("image", KeyRequired)
	} else if in.Image.ContentType != "" && !strings.HasPrefix(strings.ToLower(in.Image.ContentType), "image/") {
		p.add("image", KeyImageType)
	}
	return p.err()
}

// ApproveForm is the raw approve-as-auction input. Leaving every field
// blank approves the listing as a plain ad.
type ApproveForm struct {
	StartAt       string
	EndAt         string
	StartingPrice string
}

// upstreamLayout is the timestamp layout the API stores.
const upstreamLayout = "2006-01-02 15:04:05"

// Approve checks the approve form and converts it for the API. Times are
// read in loc, the operator's zone.
func Approve(in ApproveForm, loc *time.Location) (marketapi.ApproveInput, error) {
	if loc == nil {
		loc = time.UTC
	}
	if strings.TrimSpace(in.StartAt) == "" && strings.TrimSpace(in.EndAt) == "" && strings.TrimSpace(in.StartingPrice) == "" {
		return marketapi.ApproveInput{}, nil
	}

	p := problems{}
	start, okStart := calendar.ParseEventDate(in.StartAt, loc)
	end, okEnd := calendar.ParseEventDate(in.EndAt, loc)
	switch {
	case strings.TrimSpace(in.StartAt) == "":
		p.add("start_at", KeyRequired)
	case !okStart:
		p.add("start_at", KeyDateTime)
	}
	switch {
	case strings.TrimSpace(in.EndAt) == "":
		p.add("end_at", KeyRequired)
	case !okEnd:
		p.add("end_at", KeyDateTime)
	}
	if okStart && okEnd && !start.Before(end) {
		p.add("end_at", KeyWindowOrder)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.StartingPrice))
	switch {
	case strings.TrimSpace(in.StartingPrice) == "":
		p.add("starting_price", KeyRequired)
	case err != nil:
		p.add("starting_price", KeyNumber)
	case !price.IsPositive():
		p.add("starting_price", KeyPositivePrice)
	}
	if err := p.err(); err != nil {
		return marketapi.ApproveInput{}, err
	}
	return marketapi.ApproveInput{
		StartAt:       start.Format(upstreamLayout),
		EndAt:         end.Format(upstreamLayout),
		StartingPrice: &price,
	}, nil
}

// Confirm checks that a destructive action was explicitly confirmed.
func Confirm(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "on":
		return nil
	}
	p := problems{}
	p.add("confirm", KeyConfirmRequired)
	return p.err()
}
