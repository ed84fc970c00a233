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

// PurchaseHandler 采购相关的HTTP处理器
type PurchaseHandler struct {
	purchaseService service.PurchaseService
	logger          *zap.Logger
}

// NewPurchaseHandler 创建采购处理器实例
func NewPurchaseHandler(purchaseService service.PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		logger:          logger,
	}
}

// HandleCollection 处理集合路由
// GET /api/purchases 列表；POST /api/purchases 创建
func (h *PurchaseHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listPurchases(w, r)
	case http.MethodPost:
		h.createPurchase(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

// HandleItem 处理单条路由
// GET/PUT/DELETE /api/purchases/{id}
func (h *PurchaseHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	id := strings.TrimPrefix(r.URL.Path, "/api/purchases/")
	if id == "" || strings.Contains(id, "/") {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid purchase ID", reqID, "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getPurchase(w, r, id)
	case http.MethodPut:
		h.updatePurchase(w, r, id)
	case http.MethodDelete:
		h.deletePurchase(w, r, id)
	default:
		methodNotAllowed(w, r)
	}
}

func (h *PurchaseHandler) listPurchases(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	purchases, err := h.purchaseService.ListPurchases()
	if err != nil {
		h.logger.Error("list purchases failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "list purchases failed", reqID, "")
		return
	}
	resp.OK(w, purchases, reqID, "")
}

func (h *PurchaseHandler) createPurchase(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(&req)
	if err != nil {
		writePurchaseError(w, h.logger, err, reqID, "create purchase failed")
		return
	}
	resp.OK(w, purchase, reqID, "")
}

func (h *PurchaseHandler) getPurchase(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	purchase, err := h.purchaseService.GetPurchase(id)
	if err != nil {
		writePurchaseError(w, h.logger, err, reqID, "get purchase failed")
		return
	}
	resp.OK(w, purchase, reqID, "")
}

func (h *PurchaseHandler) updatePurchase(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.UpdatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	purchase, err := h.purchaseService.UpdatePurchase(id, &req)
	if err != nil {
		writePurchaseError(w, h.logger, err, reqID, "update purchase failed")
		return
	}
	resp.OK(w, purchase, reqID, "")
}

func (h *PurchaseHandler) deletePurchase(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	if err := h.purchaseService.DeletePurchase(id); err != nil {
		writePurchaseError(w, h.logger, err, reqID, "delete purchase failed")
		return
	}
	resp.OK(w, map[string]string{"id": id}, reqID, "")
}

// ExportPurchases 导出采购记录
// GET /api/purchases/export
func (h *PurchaseHandler) ExportPurchases(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	purchases, err := h.purchaseService.ListPurchases()
	if err != nil {
		h.logger.Error("list purchases failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "export purchases failed", reqID, "")
		return
	}

	f, filename, err := export.Purchases(purchases)
	if err != nil {
		h.logger.Error("render export failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "export purchases failed", reqID, "")
		return
	}
	writeWorkbook(w, h.logger, f, filename, reqID)
}

func writePurchaseError(w http.ResponseWriter, logger *zap.Logger, err error, reqID, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
	case errors.Is(err, domain.ErrPurchaseNotFound):
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "purchase not found", reqID, "")
	case errors.Is(err, domain.ErrMaterialNotFound):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "no material with this code", reqID, "")
	case errors.Is(err, domain.ErrInsufficientStock):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "stock would become negative", reqID, "")
	default:
		logger.Error(fallback, zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, fallback, reqID, "")
	}
}
