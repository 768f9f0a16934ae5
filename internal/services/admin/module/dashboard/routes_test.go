package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeService struct {
	lastCall string
}

func (f *fakeService) HandleDashboard(http.ResponseWriter, *http.Request) {
	f.lastCall = "dashboard"
}

func (f *fakeService) HandleDashboardCalendar(http.ResponseWriter, *http.Request) {
	f.lastCall = "calendar"
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc)

	tests := []struct {
		path     string
		wantCode int
		wantCall string
		wantLoc  string
	}{
		{path: "/", wantCode: http.StatusFound, wantLoc: "/dashboard"},
		{path: "/dashboard", wantCode: http.StatusOK, wantCall: "dashboard"},
		{path: "/dashboard?month=2025-03", wantCode: http.StatusOK, wantCall: "dashboard"},
		{path: "/dashboard/calendar.ics", wantCode: http.StatusOK, wantCall: "calendar"},
		{path: "/unknown", wantCode: http.StatusNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			svc.lastCall = ""
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if svc.lastCall != tc.wantCall {
				t.Fatalf("lastCall = %q, want %q", svc.lastCall, tc.wantCall)
			}
			if tc.wantLoc != "" && rec.Header().Get("Location") != tc.wantLoc {
				t.Fatalf("location = %q, want %q", rec.Header().Get("Location"), tc.wantLoc)
			}
		})
	}
}
