package marketapi

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlasdata/alfurij-admin/internal/services/admin/calendar"
)

// DefaultCurrency is assumed when the API omits a currency.
const DefaultCurrency = "SAR"

// Admin is the authenticated staff member.
type Admin struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// DisplayName returns the name, or the email when the name is blank.
func (a Admin) DisplayName() string {
	return firstString(a.Name, a.Email)
}

// Person is a seller, bidder, or complaint author as embedded by the API.
type Person struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Listing is a seller's truck advertisement.
type Listing struct {
	ID          ID              `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	City        string          `json:"city"`
	Model       string          `json:"model"`
	Year        string          `json:"year"`
	Price       decimal.Decimal `json:"price_in_sar"`
	AdType      string          `json:"ad_type"`
	Status      ListingStatus   `json:"-"`
	Seller      Person          `json:"seller"`
	Media       []string        `json:"media"`
	Features    []string        `json:"other"`
	CreatedAt   string          `json:"created_at"`
}

// UnmarshalJSON resolves the canonical listing status and normalises media.
func (l *Listing) UnmarshalJSON(data []byte) error {
	type alias Listing
	var raw struct {
		alias
		ApprovalStatus string          `json:"approval_status"`
		RawStatus      string          `json:"status"`
		Year           json.RawMessage `json:"year"`
		Media          json.RawMessage `json:"media"`
		Other          json.RawMessage `json:"other"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = Listing(raw.alias)
	l.Year = scalarText(raw.Year)
	l.Status = ParseListingStatus(raw.ApprovalStatus, raw.RawStatus)
	l.Media = stringList(raw.Media)
	l.Features = stringList(raw.Other)
	return nil
}

// Auction is a listing put up for bidding.
type Auction struct {
	ID              ID
	Title           string
	RawStatus       string
	Type            string
	AdType          string
	StartAt         string
	EndAt           string
	StartingPrice   decimal.Decimal
	CurrentPrice    decimal.NullDecimal
	Participants    int
	ParticipantsSet bool
	IsStreaming     bool
	StreamStartedAt string
	StreamURL       string
	Listing         *Listing
}

// UnmarshalJSON applies the upstream fallback chains once so views never
// repeat them.
func (a *Auction) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                ID                  `json:"id"`
		Title             string              `json:"title"`
		Status            string              `json:"status"`
		Type              string              `json:"type"`
		AdType            string              `json:"ad_type"`
		AuctionStartAt    string              `json:"auction_start_at"`
		StartTime         string              `json:"start_time"`
		StartAtField      string              `json:"start_at"`
		AuctionEndAt      string              `json:"auction_end_at"`
		EndTime           string              `json:"end_time"`
		EndAtField        string              `json:"end_at"`
		StartingPrice     decimal.NullDecimal `json:"starting_price"`
		CurrentPrice      decimal.NullDecimal `json:"current_price"`
		HighestBid        decimal.NullDecimal `json:"highest_bid"`
		ParticipantsCount flexInt             `json:"participants_count"`
		Participants      flexInt             `json:"participants"`
		IsStreaming       flexBool            `json:"is_streaming"`
		StreamStartedAt   string              `json:"stream_started_at"`
		YouTubeURL        string              `json:"youtube_url"`
		StreamURL         string              `json:"stream_url"`
		Listing           *Listing            `json:"listing"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Auction{
		ID:              raw.ID,
		Title:           raw.Title,
		RawStatus:       raw.Status,
		Type:            raw.Type,
		AdType:          raw.AdType,
		StartAt:         firstString(raw.AuctionStartAt, raw.StartTime, raw.StartAtField),
		EndAt:           firstString(raw.AuctionEndAt, raw.EndTime, raw.EndAtField),
		IsStreaming:     bool(raw.IsStreaming),
		StreamStartedAt: strings.TrimSpace(raw.StreamStartedAt),
		StreamURL:       firstString(raw.YouTubeURL, raw.StreamURL),
		Listing:         raw.Listing,
	}
	if raw.StartingPrice.Valid {
		a.StartingPrice = raw.StartingPrice.Decimal
	}
	switch {
	case raw.CurrentPrice.Valid:
		a.CurrentPrice = raw.CurrentPrice
	case raw.HighestBid.Valid:
		a.CurrentPrice = raw.HighestBid
	}
	switch {
	case raw.ParticipantsCount.Set:
		a.Participants, a.ParticipantsSet = raw.ParticipantsCount.Value, true
	case raw.Participants.Set:
		a.Participants, a.ParticipantsSet = raw.Participants.Value, true
	}
	if strings.TrimSpace(a.Title) == "" && a.Listing != nil {
		a.Title = a.Listing.Title
	}
	return nil
}

// DisplayTitle returns the title, falling back to "#<id>".
func (a Auction) DisplayTitle() string {
	return firstString(a.Title, "#"+a.ID.String())
}

// StatusAt resolves the canonical status at now; zone-less timestamps are
// read in now's location.
func (a Auction) StatusAt(now time.Time) AuctionStatus {
	start, _ := calendar.ParseEventDate(a.StartAt, now.Location())
	end, _ := calendar.ParseEventDate(a.EndAt, now.Location())
	return ResolveAuctionStatus(AuctionStatusFields{
		Status:      a.RawStatus,
		Type:        a.Type,
		AdType:      a.AdType,
		IsStreaming: a.IsStreaming,
		StartAt:     start,
		EndAt:       end,
	}, now)
}

// OnAir reports whether the auction's stream is broadcasting. The auction
// resource's is_streaming flag is authoritative; stream sub-resources only
// locate the link.
func (a Auction) OnAir() bool {
	return a.IsStreaming
}

// StreamElapsed returns how long the stream has been on air, or zero.
func (a Auction) StreamElapsed(now time.Time) time.Duration {
	if !a.IsStreaming {
		return 0
	}
	started, ok := calendar.ParseEventDate(a.StreamStartedAt, now.Location())
	if !ok || started.After(now) {
		return 0
	}
	return now.Sub(started)
}

// Bid is one offer on an auction.
type Bid struct {
	ID         ID
	UserID     ID
	BidderName string
	Amount     decimal.Decimal
	Currency   string
	CreatedAt  string
}

// UnmarshalJSON applies the bid field fallback chains.
func (b *Bid) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        ID                  `json:"id"`
		UserID    ID                  `json:"user_id"`
		BidderID  ID                  `json:"bidder_id"`
		Amount    decimal.NullDecimal `json:"amount"`
		BidAmount decimal.NullDecimal `json:"bid_amount"`
		Price     decimal.NullDecimal `json:"price"`
		Currency  string              `json:"currency"`
		Code      string              `json:"currency_code"`
		Bidder    *Person             `json:"bidder"`
		User      *Person             `json:"user"`
		Name      string              `json:"name"`
		CreatedAt string              `json:"created_at"`
		Timestamp string              `json:"timestamp"`
		CamelAt   string              `json:"createdAt"`
		Time      string              `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Bid{
		ID:        raw.ID,
		Currency:  firstString(raw.Currency, raw.Code, DefaultCurrency),
		CreatedAt: firstString(raw.CreatedAt, raw.Timestamp, raw.CamelAt, raw.Time),
	}
	for _, amount := range []decimal.NullDecimal{raw.Amount, raw.BidAmount, raw.Price} {
		if amount.Valid {
			b.Amount = amount.Decimal
			break
		}
	}
	b.UserID = raw.UserID
	if b.UserID == "" {
		b.UserID = raw.BidderID
	}
	if b.UserID == "" && raw.User != nil {
		b.UserID = raw.User.ID
	}
	var bidderName, userName, userEmail string
	if raw.Bidder != nil {
		bidderName = raw.Bidder.Name
	}
	if raw.User != nil {
		userName, userEmail = raw.User.Name, raw.User.Email
	}
	b.BidderName = firstString(bidderName, userName, userEmail, raw.Name)
	if b.BidderName == "" && b.UserID != "" {
		b.BidderName = "user " + b.UserID.String()
	}
	return nil
}

// BidSummary aggregates a bid list for the auction detail view.
type BidSummary struct {
	Bids         []Bid
	Highest      decimal.Decimal
	Currency     string
	Participants int
}

// SummarizeBids sorts bids by amount, highest first, and derives the highest
// price and participant count. The auction's own values win when present.
func SummarizeBids(auction Auction, bids []Bid) BidSummary {
	sorted := make([]Bid, len(bids))
	copy(sorted, bids)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})

	summary := BidSummary{Bids: sorted, Currency: DefaultCurrency}
	switch {
	case len(sorted) > 0:
		summary.Highest = sorted[0].Amount
		summary.Currency = sorted[0].Currency
	case auction.CurrentPrice.Valid:
		summary.Highest = auction.CurrentPrice.Decimal
	}

	if auction.ParticipantsSet {
		summary.Participants = auction.Participants
	} else {
		bidders := map[ID]struct{}{}
		for _, bid := range sorted {
			if bid.UserID != "" {
				bidders[bid.UserID] = struct{}{}
			}
		}
		summary.Participants = len(bidders)
	}
	return summary
}

// Stream is a YouTube link attached to an auction.
type Stream struct {
	ID        ID     `json:"id"`
	AuctionID ID     `json:"auction_id"`
	Platform  string `json:"platform"`
	WatchURL  string `json:"-"`
	EmbedURL  string `json:"embed_url"`
	Status    string `json:"status"`
}

// UnmarshalJSON reads the watch link from watch_url or stream_url.
func (s *Stream) UnmarshalJSON(data []byte) error {
	type alias Stream
	var raw struct {
		alias
		WatchURL   string `json:"watch_url"`
		StreamURL  string `json:"stream_url"`
		YouTubeURL string `json:"youtube_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Stream(raw.alias)
	s.WatchURL = firstString(raw.WatchURL, raw.StreamURL, raw.YouTubeURL)
	return nil
}

// CurrentStream picks the stream the control view works on: the first one
// reporting itself live, else the first one.
func CurrentStream(streams []Stream) (Stream, bool) {
	for _, s := range streams {
		if normalizeWord(s.Status) == "live" {
			return s, true
		}
	}
	if len(streams) > 0 {
		return streams[0], true
	}
	return Stream{}, false
}

// TruckModel is a catalog entry sellers pick when listing a truck: a truck
// make and one of its model names.
type TruckModel struct {
	ID        ID
	TruckName string
	ModelName string
	Image     string
	CreatedAt string
}

// UnmarshalJSON reads truck_name/model_name, accepting the older
// brand/name pair.
func (m *TruckModel) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        ID     `json:"id"`
		TruckName string `json:"truck_name"`
		Brand     string `json:"brand"`
		ModelName string `json:"model_name"`
		Name      string `json:"name"`
		ImagePath string `json:"image_path"`
		Image     string `json:"image"`
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = TruckModel{
		ID:        raw.ID,
		TruckName: firstString(raw.TruckName, raw.Brand),
		ModelName: firstString(raw.ModelName, raw.Name),
		Image:     firstString(raw.ImagePath, raw.Image),
		CreatedAt: raw.CreatedAt,
	}
	return nil
}

// DisplayName joins the truck and model names.
func (m TruckModel) DisplayName() string {
	return strings.TrimSpace(m.TruckName + " " + m.ModelName)
}

// Banner is a home-screen promotion slide.
type Banner struct {
	ID     ID     `json:"id"`
	Title  string `json:"title"`
	Link   string `json:"link"`
	Image  string `json:"image"`
	Order  int    `json:"-"`
	Active bool   `json:"-"`
}

// UnmarshalJSON reads order and is_active in their loose upstream forms.
func (b *Banner) UnmarshalJSON(data []byte) error {
	type alias Banner
	var raw struct {
		alias
		Order     flexInt  `json:"order"`
		Position  flexInt  `json:"position"`
		Active    flexBool `json:"is_active"`
		ImagePath string   `json:"image_path"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Banner(raw.alias)
	b.Order = raw.Order.Value
	if !raw.Order.Set {
		b.Order = raw.Position.Value
	}
	b.Active = bool(raw.Active)
	b.Image = firstString(b.Image, raw.ImagePath)
	return nil
}

// SortBanners orders banners by their stored position, keeping the
// response order for ties.
func SortBanners(banners []Banner) {
	sort.SliceStable(banners, func(i, j int) bool {
		return banners[i].Order < banners[j].Order
	})
}

// Complaint is user feedback: a complaint or a suggestion.
type Complaint struct {
	ID        ID     `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	User      Person `json:"user"`
	CreatedAt string `json:"created_at"`
}

// IsComplaint reports whether the entry is a complaint rather than a suggestion.
func (c Complaint) IsComplaint() bool {
	return normalizeWord(c.Type) == "complaint"
}

// Notification is a message sent to marketplace users.
type Notification struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Type      string `json:"type"`
	Read      bool   `json:"-"`
	CreatedAt string `json:"created_at"`
}

// UnmarshalJSON accepts body or message for the text and loose read flags.
func (n *Notification) UnmarshalJSON(data []byte) error {
	type alias Notification
	var raw struct {
		alias
		Message string   `json:"message"`
		IsRead  flexBool `json:"is_read"`
		ReadAt  string   `json:"read_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Notification(raw.alias)
	n.Body = firstString(n.Body, raw.Message)
	n.Read = bool(raw.IsRead) || strings.TrimSpace(raw.ReadAt) != ""
	return nil
}

// Transaction is one financial movement (deposit, fee, settlement).
type Transaction struct {
	ID        ID              `json:"id"`
	Reference string          `json:"reference"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	User      Person          `json:"user"`
	CreatedAt string          `json:"created_at"`
}

// scalarText renders a JSON string or number as text; null is empty.
func scalarText(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return text
}

// stringList accepts an array of strings or a JSON-encoded array string.
func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil && strings.TrimSpace(encoded) != "" {
		if err := json.Unmarshal([]byte(encoded), &list); err == nil {
			return list
		}
	}
	return nil
}
