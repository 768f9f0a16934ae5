package templates

import (
	"context"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// TabStrip renders set as a tab list; the active tab is marked for
// assistive technology as well as styling.
func TabStrip(set TabSet) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<nav class="tabs" role="tablist">`)
		for _, tab := range set.Tabs {
			b.WriteString(`<a role="tab" href="`)
			b.WriteString(templ.EscapeString(templ.URL(tab.URL)))
			b.WriteByte('"')
			if tab.Active {
				b.WriteString(` class="active" aria-selected="true"`)
			}
			b.WriteByte('>')
			b.WriteString(templ.EscapeString(tab.Label))
			b.WriteString(`</a>`)
		}
		b.WriteString(`</nav>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// SelectInput renders field as a select element.
func SelectInput(field SelectField) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<select name="`)
		b.WriteString(templ.EscapeString(field.Name))
		b.WriteString(`">`)
		for _, opt := range field.Options {
			b.WriteString(`<option value="`)
			b.WriteString(templ.EscapeString(opt.Value))
			b.WriteByte('"')
			if opt.Selected {
				b.WriteString(` selected`)
			}
			b.WriteByte('>')
			b.WriteString(templ.EscapeString(opt.Label))
			b.WriteString(`</option>`)
		}
		b.WriteString(`</select>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// CalendarCell renders one day of the month grid with its auctions.
func CalendarCell(day CalendarDay) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var classes []string
		if !day.InMonth {
			classes = append(classes, "outside")
		}
		if day.Today {
			classes = append(classes, "today")
		}

		var b strings.Builder
		b.WriteString(`<td class="`)
		b.WriteString(strings.Join(classes, " "))
		b.WriteString(`" data-date="`)
		b.WriteString(templ.EscapeString(day.Key))
		b.WriteString(`"><span class="day">`)
		b.WriteString(strconv.Itoa(day.Day))
		b.WriteString(`</span>`)
		for _, evt := range day.Events {
			b.WriteString(`<a class="event kind-`)
			b.WriteString(templ.EscapeString(evt.Kind))
			b.WriteString(`" href="`)
			b.WriteString(templ.EscapeString(templ.URL(evt.URL)))
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(evt.Title))
			b.WriteString(`</a>`)
		}
		b.WriteString(`</td>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// componentFuncs exposes the components above to page templates, rendering
// them with the page's context.
func componentFuncs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"tabs": func(set TabSet) (template.HTML, error) {
			return templ.ToGoHTML(ctx, TabStrip(set))
		},
		"selectInput": func(field SelectField) (template.HTML, error) {
			return templ.ToGoHTML(ctx, SelectInput(field))
		},
		"calendarCell": func(day CalendarDay) (template.HTML, error) {
			return templ.ToGoHTML(ctx, CalendarCell(day))
		},
	}
}
