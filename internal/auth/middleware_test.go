package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{name: "bearer header", header: "Bearer tok123", want: "tok123"},
		{name: "wrong scheme", header: "Basic dXNlcjpwdw==", want: ""},
		{name: "scheme only", header: "Bearer", want: ""},
		{name: "lowercase scheme rejected", header: "bearer tok123", want: ""},
		{name: "query fallback", query: "tok456", want: "tok456"},
		{name: "bad header beats query", header: "Basic x", query: "tok456", want: ""},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/api/projects"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			r := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := TokenFromRequest(r); got != tt.want {
				t.Errorf("TokenFromRequest = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := NewService(nil, "test-secret")
	token, err := s.issueToken("user_42")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserIDFromContext(r.Context())))
	})
	handler := s.AuthMiddleware(next)

	tests := []struct {
		name       string
		authorize  func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid header",
			authorize:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantStatus: http.StatusOK,
			wantBody:   "user_42",
		},
		{
			name:       "valid query token",
			authorize:  func(r *http.Request) { r.URL.RawQuery = "token=" + token },
			wantStatus: http.StatusOK,
			wantBody:   "user_42",
		},
		{
			name:       "missing credentials",
			authorize:  func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			authorize:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer bogus") },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			tt.authorize(r)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestUserIDFromContextDefaultsEmpty(t *testing.T) {
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("UserIDFromContext on a bare context = %q, want empty", got)
	}
}
