package marketapi

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
)

// ListingFilter narrows the admin listing queue.
type ListingFilter struct {
	Search   string
	Status   string
	City     string
	Category string
	Page     int
}

func (f ListingFilter) query() url.Values {
	q := url.Values{}
	setQuery(q, "search", f.Search)
	setQuery(q, "status", f.Status)
	setQuery(q, "city", f.City)
	setQuery(q, "category", f.Category)
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// ListAdminListings returns the moderation queue, every approval state.
func (c *Client) ListAdminListings(ctx context.Context, filter ListingFilter) ([]Listing, Page, error) {
	return listOf[Listing](ctx, c, call{
		resource: "listings",
		method:   http.MethodGet,
		path:     "/admin/listings",
		query:    filter.query(),
		fallback: "Failed to fetch admin listings",
	})
}

// ListListings returns the public listing feed.
func (c *Client) ListListings(ctx context.Context, filter ListingFilter) ([]Listing, Page, error) {
	return listOf[Listing](ctx, c, call{
		resource: "listings",
		method:   http.MethodGet,
		path:     "/listings",
		query:    filter.query(),
		fallback: "Failed to fetch listings",
	})
}

// GetListing returns one listing.
func (c *Client) GetListing(ctx context.Context, id string) (Listing, error) {
	var listing Listing
	err := c.doInto(ctx, call{
		resource: "listings",
		method:   http.MethodGet,
		path:     "/listings/" + pathID(id),
		fallback: "Failed to fetch listing",
	}, &listing, "listing")
	return listing, err
}

// ApproveInput optionally schedules the approved listing as an auction.
// The zero value approves it as a plain ad.
type ApproveInput struct {
	StartAt       string           `json:"auction_start_at,omitempty"`
	EndAt         string           `json:"auction_end_at,omitempty"`
	StartingPrice *decimal.Decimal `json:"starting_price,omitempty"`
}

// IsAuction reports whether auction data was supplied.
func (in ApproveInput) IsAuction() bool {
	return strings.TrimSpace(in.StartAt) != "" || strings.TrimSpace(in.EndAt) != "" || in.StartingPrice != nil
}

// ApproveListing approves a pending listing.
func (c *Client) ApproveListing(ctx context.Context, id string, input ApproveInput) error {
	req, err := jsonCall("listings", http.MethodPost, "/listings/"+pathID(id)+"/approve", input, "Failed to approve listing")
	if err != nil {
		return err
	}
	_, err = c.do(ctx, req)
	return err
}

// RejectListing rejects a pending listing.
func (c *Client) RejectListing(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		resource: "listings",
		method:   http.MethodPost,
		path:     "/listings/" + pathID(id) + "/reject",
		fallback: "Failed to reject listing",
	})
	return err
}

// ListingInput is a listing created by staff on a seller's behalf.
type ListingInput struct {
	AdType           string
	Title            string
	Category         string
	City             string
	Description      string
	Price            decimal.Decimal
	Condition        string
	Model            string
	SerialNumber     string
	CabinType        string
	VehicleType      string
	EngineCapacity   string
	Transmission     string
	FuelType         string
	LightsType       string
	Color            string
	Length           string
	Width            string
	Height           string
	Kilometers       string
	RegistrationYear string
	GearboxBrand     string
	GearboxType      string
	Features         []string
	AuctionStartDate string
	AuctionStartTime string
	AuctionEndDate   string
	AuctionEndTime   string
	PointValue       string

	Images    []Upload
	Documents []Upload
	Video     *Upload
}

// Normalized fills the defaults the API expects: ad type "ad" and
// condition "new".
func (in ListingInput) Normalized() ListingInput {
	if strings.TrimSpace(in.AdType) == "" {
		in.AdType = "ad"
	}
	if strings.TrimSpace(in.Condition) == "" {
		in.Condition = "new"
	}
	return in
}

func (in ListingInput) form() *form {
	in = in.Normalized()
	f := newForm()
	f.set("ad_type", in.AdType)
	if in.AdType == "ad" {
		f.set("buy_now", "1")
	} else {
		f.set("buy_now", "0")
	}
	f.set("title", in.Title)
	f.set("category", in.Category)
	f.set("city", in.City)
	f.set("description", in.Description)
	f.set("price", in.Price.String())
	f.set("status", string(ListingDraft))
	f.set("approval_status", string(ListingPending))
	f.set("condition", in.Condition)
	f.set("model", in.Model)
	f.set("serial_number", in.SerialNumber)
	f.set("cabin_type", in.CabinType)
	f.set("vehicle_type", in.VehicleType)
	f.set("engine_capacity", in.EngineCapacity)
	f.set("transmission", in.Transmission)
	f.set("fuel_type", in.FuelType)
	f.set("lights_type", in.LightsType)
	f.set("color", in.Color)
	f.set("length", in.Length)
	f.set("width", in.Width)
	f.set("height", in.Height)
	f.set("kilometers", in.Kilometers)
	f.set("registration_year", in.RegistrationYear)
	f.set("gearbox_brand", in.GearboxBrand)
	f.set("gearbox_type", in.GearboxType)
	f.set("auction_start_date", in.AuctionStartDate)
	f.set("auction_start_time", in.AuctionStartTime)
	f.set("auction_end_date", in.AuctionEndDate)
	f.set("auction_end_time", in.AuctionEndTime)
	f.set("point_value", in.PointValue)

	features := append([]string(nil), in.Features...)
	sort.Strings(features)
	for _, feature := range features {
		f.set("other[]", feature)
	}
	for _, img := range in.Images {
		img.Field = "files[image][]"
		f.add(img)
	}
	if in.Video != nil {
		video := *in.Video
		video.Field = "files[video]"
		f.add(video)
	}
	for _, doc := range in.Documents {
		doc.Field = "files[pdf][]"
		f.add(doc)
	}
	return f
}

// CreateListing uploads a new listing with its media.
func (c *Client) CreateListing(ctx context.Context, input ListingInput) (Listing, error) {
	req := call{
		resource: "listings",
		method:   http.MethodPost,
		path:     "/listings",
		fallback: "Failed to create listing",
	}
	input.form().attach(&req)
	var created Listing
	if err := c.doInto(ctx, req, &created, "listing"); err != nil {
		return Listing{}, err
	}
	return created, nil
}

// listOf runs a list call and decodes any supported envelope.
func listOf[T any](ctx context.Context, c *Client, req call, keys ...string) ([]T, Page, error) {
	raw, err := c.do(ctx, req)
	if err != nil {
		return nil, Page{}, err
	}
	items, page, err := decodeList[T](raw, keys...)
	if err != nil {
		return nil, Page{}, apperrors.Wrap(apperrors.CodeDecode, req.fallback, err)
	}
	return items, page, nil
}

func setQuery(q url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		q.Set(key, value)
	}
}
