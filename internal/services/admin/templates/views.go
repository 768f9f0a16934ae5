package templates

// FormState carries submitted values and field errors back into a form.
type FormState struct {
	Values map[string]string
	// Fields maps a field name to its translated error.
	Fields map[string]string
	// Error is the translated form-level error.
	Error string
}

// Value returns the submitted value for name.
func (f FormState) Value(name string) string {
	return f.Values[name]
}

// FieldError returns the error for name, if any.
func (f FormState) FieldError(name string) string {
	return f.Fields[name]
}

// LoginView provides data for the login page.
type LoginView struct {
	Form FormState
	Next string
}

// CountCard is one summary tile on the dashboard.
type CountCard struct {
	Label string
	Value string
	URL   string
}

// CalendarEvent is an auction shown in a calendar cell.
type CalendarEvent struct {
	Title string
	URL   string
	Kind  string
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Day     int
	Key     string
	InMonth bool
	Today   bool
	Events  []CalendarEvent
}

// CalendarView is the rendered month grid with its navigation.
type CalendarView struct {
	MonthLabel  string
	Weekdays    []string
	Weeks       [][]CalendarDay
	PrevURL     string
	NextURL     string
	TodayURL    string
	SubscribeTo string
}

// DashboardView provides data for the dashboard page.
type DashboardView struct {
	Counts   []CountCard
	Calendar CalendarView
	// Errors lists translated failures of individual dashboard sources.
	Errors []string
}

// ListingRow represents a row in the listings table.
type ListingRow struct {
	ID          string
	Title       string
	Seller      string
	City        string
	Category    string
	Price       string
	AdType      string
	Status      string
	StatusLabel string
	CreatedAt   string
	URL         string
}

// ListingsView provides data for the listing moderation page.
type ListingsView struct {
	Search   string
	City     string
	Status   SelectField
	Category SelectField
	Rows     []ListingRow
	Pager    Pager
	Error    string
	RetryURL string
}

// ListingDetailView provides data for one listing with its moderation form.
type ListingDetailView struct {
	Listing     ListingRow
	Description string
	Model       string
	Year        string
	Features    []string
	Media       []string
	CanModerate bool
	IsAuction   bool
	ApproveURL  string
	RejectURL   string
	Approve     FormState
	Error       string
	RetryURL    string
}

// FormField is one generic input rendered from a field list.
type FormField struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

// ListingFormView provides data for the create-listing page.
type ListingFormView struct {
	Form          FormState
	AdType        SelectField
	Condition     SelectField
	Category      SelectField
	Model         SelectField
	Details       []FormField
	AuctionFields []FormField
	Features      string
	MaxImages     int
	MaxDocuments  int
}

// AuctionRow represents an auction in boards and tables.
type AuctionRow struct {
	ID          string
	Title       string
	Status      string
	StatusLabel string
	StartAt     string
	EndAt       string
	Price       string
	OnAir       bool
	DetailURL   string
	StreamURL   string
	EmbedURL    string
}

// AuctionsView provides data for the tabbed auctions board.
type AuctionsView struct {
	Tabs     TabSet
	Search   string
	Rows     []AuctionRow
	Error    string
	RetryURL string
}

// BidRow represents one bid in the auction detail view.
type BidRow struct {
	Bidder    string
	Amount    string
	CreatedAt string
}

// AuctionDetailView provides data for a scheduled, live, or ended auction.
type AuctionDetailView struct {
	Auction      AuctionRow
	Bids         []BidRow
	Highest      string
	Participants int
	BidsError    string
	Error        string
	RetryURL     string
}

// StreamControlView provides data for the stream control page.
type StreamControlView struct {
	Auction   AuctionRow
	Form      FormState
	HasStream bool
	EmbedURL  string
	OnAir     bool
	Elapsed   string
	FeedURL   string
	ActionURL string
}

// LiveView provides data for the live auctions board.
type LiveView struct {
	Rows     []AuctionRow
	Error    string
	RetryURL string
}

// BannerRow represents one home banner in display order.
type BannerRow struct {
	ID        string
	Title     string
	Link      string
	ImageURL  string
	DeleteURL string
	MoveURL   string
	First     bool
	Last      bool
}

// BannersView provides data for the banners page.
type BannersView struct {
	Rows     []BannerRow
	Form     FormState
	Error    string
	RetryURL string
}

// ModelRow represents one truck model.
type ModelRow struct {
	ID        string
	TruckName string
	ModelName string
	ImageURL  string
	UpdateURL string
	DeleteURL string
}

// ModelsView provides data for the truck models page.
type ModelsView struct {
	Rows     []ModelRow
	Form     FormState
	Error    string
	RetryURL string
}

// FeedRow is one entry of a read-only feed table.
type FeedRow struct {
	Cells     []string
	Highlight bool
}

// FeedView provides data for complaints, notifications, and transactions.
type FeedView struct {
	Heading  string
	Filter   *SelectField
	Columns  []string
	Rows     []FeedRow
	Pager    Pager
	Error    string
	RetryURL string
}

// PasswordView provides data for the change password page.
type PasswordView struct {
	Form FormState
}

// EmployeesView provides data for the create employee page.
type EmployeesView struct {
	Form    FormState
	Created string
}

// ErrorView provides data for a full-page error.
type ErrorView struct {
	Message  string
	RetryURL string
}
