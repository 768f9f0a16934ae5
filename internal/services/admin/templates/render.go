package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
)

//go:embed views/*.gohtml views/partials/*.gohtml
var viewFS embed.FS

// pageData is the root value every view executes against.
type pageData struct {
	Page PageContext
	View any
}

// placeholderFuncs declares the helpers views use; "t" is rebound per render
// to the page's localizer.
var placeholderFuncs = template.FuncMap{
	"t": func(key string, args ...any) string { return key },
	"title": ComposePageTitle,
	"join":  strings.Join,
	"add":   func(a, b int) int { return a + b },
}

var pages = mustParsePages(viewFS)

// mustParsePages builds one template set per page: the layout, the shared
// partials, and the page's own "content" block.
func mustParsePages(views fs.FS) map[string]*template.Template {
	base := template.New("layout").Funcs(placeholderFuncs).Funcs(componentFuncs(context.Background()))
	base = template.Must(base.ParseFS(views, "views/layout.gohtml", "views/partials/*.gohtml"))

	files, err := fs.Glob(views, "views/*.gohtml")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".gohtml")
		if name == "layout" {
			continue
		}
		set := template.Must(base.Clone())
		out[name] = template.Must(set.ParseFS(views, file))
	}
	return out
}

// render returns a component executing the named page inside the layout.
func render(name string, page PageContext, view any) templ.Component {
	set, ok := pages[name]
	if !ok {
		return templ.ComponentFunc(func(_ context.Context, _ io.Writer) error {
			return fmt.Errorf("templates: unknown page %q", name)
		})
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		bound := template.Must(set.Clone())
		bound.Funcs(componentFuncs(ctx)).Funcs(template.FuncMap{
			"t": func(key string, args ...any) string { return T(page.Loc, key, args...) },
		})
		return templ.FromGoHTML(bound.Lookup("layout"), pageData{Page: page, View: view}).Render(ctx, w)
	})
}

func LoginPage(page PageContext, view LoginView) templ.Component {
	return render("login", page, view)
}

func DashboardPage(page PageContext, view DashboardView) templ.Component {
	return render("dashboard", page, view)
}

func ListingsPage(page PageContext, view ListingsView) templ.Component {
	return render("listings", page, view)
}

func ListingDetailPage(page PageContext, view ListingDetailView) templ.Component {
	return render("listing_detail", page, view)
}

func ListingFormPage(page PageContext, view ListingFormView) templ.Component {
	return render("listing_form", page, view)
}

func AuctionsPage(page PageContext, view AuctionsView) templ.Component {
	return render("auctions", page, view)
}

func AuctionDetailPage(page PageContext, view AuctionDetailView) templ.Component {
	return render("auction_detail", page, view)
}

func StreamControlPage(page PageContext, view StreamControlView) templ.Component {
	return render("stream_control", page, view)
}

func LivePage(page PageContext, view LiveView) templ.Component {
	return render("live", page, view)
}

func BannersPage(page PageContext, view BannersView) templ.Component {
	return render("banners", page, view)
}

func ModelsPage(page PageContext, view ModelsView) templ.Component {
	return render("models", page, view)
}

func FeedPage(page PageContext, view FeedView) templ.Component {
	return render("feed", page, view)
}

func PasswordPage(page PageContext, view PasswordView) templ.Component {
	return render("password", page, view)
}

func EmployeesPage(page PageContext, view EmployeesView) templ.Component {
	return render("employees", page, view)
}

func ErrorPage(page PageContext, view ErrorView) templ.Component {
	return render("error", page, view)
}
