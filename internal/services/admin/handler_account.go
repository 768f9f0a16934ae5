package admin

import (
	"net/http"
	"strings"

	"github.com/atlasdata/alfurij-admin/internal/services/admin/forms"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/events"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/integration/marketapi"
	routepath "github.com/atlasdata/alfurij-admin/internal/services/admin/routepath"
	"github.com/atlasdata/alfurij-admin/internal/services/admin/templates"
	"github.com/atlasdata/alfurij-admin/internal/services/shared/htmx"
)

func (h *Handler) handlePasswordChange(w http.ResponseWriter, r *http.Request) {
	loc, tag := h.localizer(w, r)
	page := h.pageContext(r, loc, tag, "account.password.title")
	switch r.Method {
	case http.MethodGet:
		h.render(w, r, page, templates.PasswordPage(page, templates.PasswordView{}), http.StatusOK)
		return
	case http.MethodPost:
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	change := marketapi.PasswordChange{
		Current:      r.PostFormValue("current_password"),
		New:          r.PostFormValue("new_password"),
		Confirmation: r.PostFormValue("password_confirmation"),
	}
	err := forms.PasswordChange(change)
	if err == nil {
		err = h.client(r).ChangePassword(r.Context(), change)
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		// Passwords are never echoed back.
		view := templates.PasswordView{Form: formState(loc, nil, err)}
		h.render(w, r, page, templates.PasswordPage(page, view), formStatus(err))
		return
	}
	htmx.Redirect(w, r, withNotice(routepath.AccountPassword, "notice.password_changed"))
}

func (h *Handler) handleEmployees(w http.ResponseWriter, r *http.Request) {
	loc, tag := h.localizer(w, r)
	page := h.pageContext(r, loc, tag, "account.employees.title")
	switch r.Method {
	case http.MethodGet:
		h.render(w, r, page, templates.EmployeesPage(page, templates.EmployeesView{}), http.StatusOK)
		return
	case http.MethodPost:
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	input := marketapi.EmployeeInput{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	values := map[string]string{"name": input.Name, "phone": input.Phone, "email": input.Email}
	err := forms.Employee(input)
	var created marketapi.Admin
	if err == nil {
		created, err = h.client(r).CreateEmployee(r.Context(), input)
	}
	if err != nil {
		if h.endSessionOnUnauthorized(w, r, err) {
			return
		}
		view := templates.EmployeesView{Form: formState(loc, values, err)}
		h.render(w, r, page, templates.EmployeesPage(page, view), formStatus(err))
		return
	}

	h.emit(r, events.EmployeeCreated, created.ID.String(), map[string]string{"email": input.Email})
	view := templates.EmployeesView{Created: firstNonEmpty(created.DisplayName(), input.Name, input.Email)}
	h.render(w, r, page, templates.EmployeesPage(page, view), http.StatusCreated)
}
