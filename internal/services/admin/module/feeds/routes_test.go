package feeds

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeService struct {
	lastCall string
}

func (f *fakeService) HandleComplaints(http.ResponseWriter, *http.Request) {
	f.lastCall = "complaints"
}

func (f *fakeService) HandleNotifications(http.ResponseWriter, *http.Request) {
	f.lastCall = "notifications"
}

func (f *fakeService) HandleTransactions(http.ResponseWriter, *http.Request) {
	f.lastCall = "transactions"
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc)

	for path, want := range map[string]string{
		"/complaints":           "complaints",
		"/complaints?type=spam": "complaints",
		"/notifications":        "notifications",
		"/transactions?page=2":  "transactions",
	} {
		svc.lastCall = ""
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if svc.lastCall != want {
			t.Fatalf("%s lastCall = %q, want %q", path, svc.lastCall, want)
		}
	}
}
