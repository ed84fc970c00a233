package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOK_Envelope(t *testing.T) {
	rw := httptest.NewRecorder()
	OK(rw, map[string]string{"id": "abc"}, "req-1", "")

	if rw.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rw.Code)
	}
	if ct := rw.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}

	var body Response
	if err := json.Unmarshal(rw.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Code != CodeOK || body.Message != "ok" || body.RequestID != "req-1" {
		t.Errorf("unexpected envelope: %+v", body)
	}
}

func TestError_Envelope(t *testing.T) {
	rw := httptest.NewRecorder()
	Error(rw, http.StatusBadRequest, CodeInvalidParam, "insufficient stock", "req-2", "")

	if rw.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rw.Code)
	}
	var body Response
	if err := json.Unmarshal(rw.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Code != CodeInvalidParam || body.Message != "insufficient stock" {
		t.Errorf("unexpected envelope: %+v", body)
	}
	if body.Data != nil {
		t.Errorf("error response should omit data, got %v", body.Data)
	}
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeOK, http.StatusOK},
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeTimeout, http.StatusServiceUnavailable},
		{CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatusFromCode(tt.code); got != tt.want {
			t.Errorf("HTTPStatusFromCode(%d) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
