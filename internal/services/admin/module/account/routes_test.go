package account

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeService struct {
	lastCall string
}

func (f *fakeService) HandlePasswordChange(http.ResponseWriter, *http.Request) {
	f.lastCall = "password"
}

func (f *fakeService) HandleEmployees(http.ResponseWriter, *http.Request) {
	f.lastCall = "employees"
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc)

	tests := []struct {
		path     string
		method   string
		wantCode int
		wantCall string
	}{
		{path: "/account/password", method: http.MethodGet, wantCode: http.StatusOK, wantCall: "password"},
		{path: "/account/password", method: http.MethodPost, wantCode: http.StatusOK, wantCall: "password"},
		{path: "/account/employees", method: http.MethodPost, wantCode: http.StatusOK, wantCall: "employees"},
		{path: "/account", method: http.MethodGet, wantCode: http.StatusNotFound},
	}
	for _, tc := range tests {
		svc.lastCall = ""
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.wantCode {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.path, rec.Code, tc.wantCode)
		}
		if svc.lastCall != tc.wantCall {
			t.Fatalf("%s %s lastCall = %q, want %q", tc.method, tc.path, svc.lastCall, tc.wantCall)
		}
	}
}
