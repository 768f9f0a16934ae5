package templates

import (
	"strings"

	"github.com/atlasdata/alfurij-admin/internal/services/admin/i18n"
)

// AppName is the product name appended to page titles.
const AppName = "Alfurij Admin"

// PageContext provides shared layout context for admin pages.
type PageContext struct {
	Lang         string
	Dir          i18n.Direction
	Loc          Localizer
	CurrentPath  string
	CurrentQuery string
	Title        string
	// AdminName is empty on pages rendered without a session.
	AdminName string
	Nav       []NavItem
	Languages []i18n.LanguageOption
	// Notice is a translated confirmation shown after a redirect.
	Notice string
}

// NavItem is one entry in the console's side navigation.
type NavItem struct {
	Label  string
	URL    string
	Active bool
}

// SignedIn reports whether the page renders for an authenticated operator.
func (p PageContext) SignedIn() bool {
	return strings.TrimSpace(p.AdminName) != ""
}

// ComposePageTitle appends the product name unless title already carries it.
func ComposePageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return AppName
	}
	if strings.HasSuffix(title, "| "+AppName) {
		return title
	}
	title = strings.TrimSpace(strings.TrimSuffix(title, "- "+AppName))
	return title + " | " + AppName
}
