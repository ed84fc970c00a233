// Package api 提供各业务资源的HTTP API处理器实现。
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vasthra/saree-works/internal/domain"
	"github.com/vasthra/saree-works/internal/export"
	"github.com/vasthra/saree-works/internal/middleware"
	"github.com/vasthra/saree-works/internal/resp"
	"github.com/vasthra/saree-works/internal/service"
)

// ClientHandler 客户相关的HTTP处理器
type ClientHandler struct {
	clientService service.ClientService
	logger        *zap.Logger
}

// NewClientHandler 创建客户处理器实例
func NewClientHandler(clientService service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// HandleCollection 处理集合路由
// GET /clients 列表；POST /clients 创建
func (h *ClientHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listClients(w, r)
	case http.MethodPost:
		h.createClient(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

// HandleItem 处理单条路由
// GET/PUT/DELETE /clients/{id}
func (h *ClientHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	id := strings.TrimPrefix(r.URL.Path, "/clients/")
	if id == "" || strings.Contains(id, "/") {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid client ID", reqID, "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getClient(w, r, id)
	case http.MethodPut:
		h.updateClient(w, r, id)
	case http.MethodDelete:
		h.deleteClient(w, r, id)
	default:
		methodNotAllowed(w, r)
	}
}

func (h *ClientHandler) listClients(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	clients, err := h.clientService.ListClients()
	if err != nil {
		h.logger.Error("list clients failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "list clients failed", reqID, "")
		return
	}
	resp.OK(w, clients, reqID, "")
}

func (h *ClientHandler) createClient(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	client, err := h.clientService.CreateClient(&req)
	if err != nil {
		writeClientError(w, h.logger, err, reqID, "create client failed")
		return
	}
	resp.OK(w, client, reqID, "")
}

func (h *ClientHandler) getClient(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	client, err := h.clientService.GetClient(id)
	if err != nil {
		writeClientError(w, h.logger, err, reqID, "get client failed")
		return
	}
	resp.OK(w, client, reqID, "")
}

func (h *ClientHandler) updateClient(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	client, err := h.clientService.UpdateClient(id, &req)
	if err != nil {
		writeClientError(w, h.logger, err, reqID, "update client failed")
		return
	}
	resp.OK(w, client, reqID, "")
}

func (h *ClientHandler) deleteClient(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	if err := h.clientService.DeleteClient(id); err != nil {
		writeClientError(w, h.logger, err, reqID, "delete client failed")
		return
	}
	resp.OK(w, map[string]string{"id": id}, reqID, "")
}

// ExportClients 导出客户档案
// GET /clients/export
func (h *ClientHandler) ExportClients(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	clients, err := h.clientService.ListClients()
	if err != nil {
		h.logger.Error("list clients failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "export clients failed", reqID, "")
		return
	}

	f, filename, err := export.Clients(clients)
	if err != nil {
		h.logger.Error("render export failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "export clients failed", reqID, "")
		return
	}
	writeWorkbook(w, h.logger, f, filename, reqID)
}

func writeClientError(w http.ResponseWriter, logger *zap.Logger, err error, reqID, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
	case errors.Is(err, domain.ErrClientNotFound):
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "client not found", reqID, "")
	case errors.Is(err, domain.ErrDuplicateCode):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "customer code already exists", reqID, "")
	default:
		logger.Error(fallback, zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, fallback, reqID, "")
	}
}
