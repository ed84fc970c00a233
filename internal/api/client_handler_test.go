package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/vasthra/saree-works/internal/domain"
	"github.com/vasthra/saree-works/internal/resp"
)

func TestClientHandler_CreateAndList(t *testing.T) {
	handler := NewClientHandler(&MockClientService{}, zap.NewNop())

	payload := `{"customerCode":"CUST-01","customerName":"Lakshmi Textiles","phoneNumber":"9876543210","place":"Kanchipuram"}`
	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(payload))
	rw := httptest.NewRecorder()
	handler.HandleCollection(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rw.Code, rw.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/clients", nil)
	rw = httptest.NewRecorder()
	handler.HandleCollection(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
	envelope := decodeEnvelope(t, rw.Body.Bytes())
	if envelope.Code != resp.CodeOK {
		t.Errorf("expected code 0, got %d", envelope.Code)
	}
}

func TestClientHandler_NotFound(t *testing.T) {
	mock := &MockClientService{
		getFunc: func(id string) (*domain.Client, error) {
			return nil, domain.ErrClientNotFound
		},
	}
	handler := NewClientHandler(mock, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/clients/missing", nil)
	rw := httptest.NewRecorder()
	handler.HandleItem(rw, req)

	if rw.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rw.Code)
	}
	envelope := decodeEnvelope(t, rw.Body.Bytes())
	if envelope.Code != resp.CodeNotFound {
		t.Errorf("expected code %d, got %d", resp.CodeNotFound, envelope.Code)
	}
}

func TestClientHandler_DuplicateCode(t *testing.T) {
	mock := &MockClientService{
		createFunc: func(req *domain.CreateClientRequest) (*domain.Client, error) {
			return nil, domain.ErrDuplicateCode
		},
	}
	handler := NewClientHandler(mock, zap.NewNop())

	payload := `{"customerCode":"CUST-01","customerName":"Lakshmi Textiles"}`
	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(payload))
	rw := httptest.NewRecorder()
	handler.HandleCollection(rw, req)

	if rw.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rw.Code)
	}
}

func TestClientHandler_InvalidItemPath(t *testing.T) {
	handler := NewClientHandler(&MockClientService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/clients/", nil)
	rw := httptest.NewRecorder()
	handler.HandleItem(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty id, got %d", rw.Code)
	}
}

func TestClientHandler_MethodNotAllowed(t *testing.T) {
	handler := NewClientHandler(&MockClientService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPatch, "/clients", nil)
	rw := httptest.NewRecorder()
	handler.HandleCollection(rw, req)
	if rw.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rw.Code)
	}
}
