package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchJSON(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantErr       bool
		wantRetryable bool
	}{
		{"ok", http.StatusOK, `{"name":"root"}`, false, false},
		{"server error", http.StatusBadGateway, ``, true, true},
		{"rate limited", http.StatusTooManyRequests, ``, true, true},
		{"not found", http.StatusNotFound, ``, true, false},
		{"bad json", http.StatusOK, `{`, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var v struct {
				Name string `json:"name"`
			}
			err := FetchJSON(context.Background(), srv.Client(), srv.URL, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FetchJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if IsRetryable(err) != tt.wantRetryable {
				t.Errorf("IsRetryable() = %v, want %v", IsRetryable(err), tt.wantRetryable)
			}
			if err == nil && v.Name != "root" {
				t.Errorf("Name = %q, want root", v.Name)
			}
		})
	}
}

func TestFetchJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := FetchJSON(context.Background(), nil, srv.URL, new(any))
	var serr *StatusError
	if !errors.As(err, &serr) || serr.StatusCode != http.StatusForbidden {
		t.Errorf("FetchJSON() = %v, want StatusError 403", err)
	}
}
