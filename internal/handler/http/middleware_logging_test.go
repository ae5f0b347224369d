package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithLogging_TableTest(t *testing.T) {
	tests := []struct {
		name             string
		method           string
		path             string
		handlerStatus    int
		handlerResponse  string
		checkLogContains []string
	}{
		{
			name:             "GET 200 with body",
			method:           http.MethodGet,
			path:             "/api/v1/groups",
			handlerStatus:    http.StatusOK,
			handlerResponse:  `{"success":true}`,
			checkLogContains: []string{`"status":200`, `"method":"GET"`, `"size":16`},
		},
		{
			name:             "POST 201",
			method:           http.MethodPost,
			path:             "/api/v1/cotisations",
			handlerStatus:    http.StatusCreated,
			handlerResponse:  "{}",
			checkLogContains: []string{`"status":201`, `"method":"POST"`},
		},
		{
			name:             "query parameters preserved in uri",
			method:           http.MethodGet,
			path:             "/api/v1/transactions?type=Inflow&limit=10",
			handlerStatus:    http.StatusOK,
			checkLogContains: []string{`"uri":"/api/v1/transactions?type=Inflow&limit=10"`},
		},
		{
			name:             "error status",
			method:           http.MethodDelete,
			path:             "/api/v1/groups/x",
			handlerStatus:    http.StatusNotFound,
			handlerResponse:  "not found",
			checkLogContains: []string{`"status":404`, `"duration":`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &Handler{}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				if tt.handlerResponse != "" {
					_, _ = w.Write([]byte(tt.handlerResponse))
				}
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
			rr := httptest.NewRecorder()
			h.withLogging(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.handlerStatus, rr.Code)
			for _, expected := range tt.checkLogContains {
				assert.Contains(t, buf.String(), expected)
			}
		})
	}
}

func TestWithLogging_ImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
	h.withLogging(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"size":0`)
}
