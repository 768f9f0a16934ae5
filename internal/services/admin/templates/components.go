package templates

import (
	"net/url"
	"strconv"
	"strings"
)

// PageHeading holds header metadata for pages.
type PageHeading struct {
	// Title is the page heading.
	Title string
	// Breadcrumbs renders a path trail for the page.
	Breadcrumbs []Breadcrumb
	// ActionURL renders a CTA button when set.
	ActionURL string
	// ActionLabel is the CTA button label.
	ActionLabel string
}

// Breadcrumb represents a single breadcrumb item.
type Breadcrumb struct {
	// Label is the visible label.
	Label string
	// URL is the optional navigation target.
	URL string
}

// AppendQueryParam appends a single query parameter to a URL.
func AppendQueryParam(baseURL string, key string, value string) string {
	encodedKey := url.QueryEscape(key)
	encodedValue := url.QueryEscape(value)
	if strings.Contains(baseURL, "?") {
		return baseURL + "&" + encodedKey + "=" + encodedValue
	}
	return baseURL + "?" + encodedKey + "=" + encodedValue
}

// Tab is one entry of a TabSet.
type Tab struct {
	Value  string
	Label  string
	URL    string
	Active bool
}

// TabSet is a controlled tab strip: the active tab comes from the request,
// never from client state.
type TabSet struct {
	Active string
	Tabs   []Tab
}

// NewTabSet marks the tab whose value equals active. An unknown active value
// selects the first tab.
func NewTabSet(active string, tabs []Tab) TabSet {
	set := TabSet{Tabs: make([]Tab, len(tabs))}
	copy(set.Tabs, tabs)
	found := -1
	for i := range set.Tabs {
		if set.Tabs[i].Value == active {
			found = i
			break
		}
	}
	if found < 0 && len(set.Tabs) > 0 {
		found = 0
	}
	if found >= 0 {
		set.Tabs[found].Active = true
		set.Active = set.Tabs[found].Value
	}
	return set
}

// SelectOption is one choice of a SelectField.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// SelectField is a controlled select input: Value is the single source of
// the selection and Options mirror it.
type SelectField struct {
	Name    string
	Value   string
	Options []SelectOption
}

// NewSelectField marks the option equal to value. A value matching no
// option leaves the field unselected.
func NewSelectField(name string, value string, options []SelectOption) SelectField {
	field := SelectField{Name: name, Options: make([]SelectOption, len(options))}
	copy(field.Options, options)
	for i := range field.Options {
		field.Options[i].Selected = false
		if field.Options[i].Value == value {
			field.Options[i].Selected = true
			field.Value = value
		}
	}
	return field
}

// Pager links the neighbouring pages of a paginated list.
type Pager struct {
	Page    int
	PrevURL string
	NextURL string
}

// NewPager builds page links from baseURL, keeping its existing query.
func NewPager(baseURL string, page int, hasNext bool) Pager {
	if page < 1 {
		page = 1
	}
	pager := Pager{Page: page}
	if page > 1 {
		pager.PrevURL = setQueryParam(baseURL, "page", strconv.Itoa(page-1))
	}
	if hasNext {
		pager.NextURL = setQueryParam(baseURL, "page", strconv.Itoa(page+1))
	}
	return pager
}

// Visible reports whether any page link exists.
func (p Pager) Visible() bool {
	return p.PrevURL != "" || p.NextURL != ""
}

func setQueryParam(rawURL string, key string, value string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return AppendQueryParam(rawURL, key, value)
	}
	query := parsed.Query()
	query.Set(key, value)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
