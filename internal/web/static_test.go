package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerServesPage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "Consultar Asistente"},
		{"/", "Iniciando consulta..."},
		{"/app.js", "left-meeting"},
		{"/app.css", ".error-banner"},
	}
	h := Handler()
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s status=%d", tt.path, rr.Code)
		}
		body, _ := io.ReadAll(rr.Body)
		if !strings.Contains(string(body), tt.want) {
			t.Fatalf("GET %s missing %q", tt.path, tt.want)
		}
	}
}
