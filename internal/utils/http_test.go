package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ── WriteJSON ──

func TestWriteJSON_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]any{"success": true, "data": map[string]string{"name": "Bureau"}}

	n, err := WriteJSON(w, data, http.StatusCreated)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if n == 0 {
		t.Error("expected non-zero bytes written")
	}
	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", ct)
	}
	if want := `{"data":{"name":"Bureau"},"success":true}`; w.Body.String() != want {
		t.Errorf("expected body %s, got %s", want, w.Body.String())
	}
}

func TestWriteJSON_UnencodableData(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, map[string]any{"amount": make(chan int)}, http.StatusOK)

	if err == nil {
		t.Fatal("expected error for non-serializable data, got nil")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if w.Body.String() != marshalFailure {
		t.Errorf("expected failure envelope, got '%s'", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", ct)
	}
}

// ── ReadJSON ──

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    loginPayload
		wantErr bool
	}{
		{name: "payload", body: `{"email":"ada@example.com","password":"secret"}`, want: loginPayload{Email: "ada@example.com", Password: "secret"}},
		{name: "empty body", body: ""},
		{name: "malformed", body: `{"email":`, wantErr: true},
		{name: "wrong type", body: `{"email":42}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tt.body))
			var got loginPayload
			err := ReadJSON(r, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadJSON_NoBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	var got loginPayload
	if err := ReadJSON(r, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ── ParseBearerToken ──

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer abc", want: "abc"},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "Bearer a b", wantErr: true},
		{header: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseBearerToken(tt.header)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAuthorizationHeader) {
				t.Errorf("header %q: expected ErrInvalidAuthorizationHeader, got %v", tt.header, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("header %q: got %q, %v", tt.header, got, err)
		}
	}
}
