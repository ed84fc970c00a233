package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vasthra/saree-works/internal/domain"
	"github.com/vasthra/saree-works/internal/export"
	"github.com/vasthra/saree-works/internal/middleware"
	"github.com/vasthra/saree-works/internal/resp"
	"github.com/vasthra/saree-works/internal/service"
	"github.com/vasthra/saree-works/internal/storage"
)

// 完工表单中附件的总内存上限，超出部分落临时文件
const completeFormMaxMemory = 32 << 20

// OrderHandler 订单相关的HTTP处理器
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler 创建订单处理器实例
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// HandleCollection 处理集合路由
// GET /orders 列表；POST /orders 下单
func (h *OrderHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listOrders(w, r)
	case http.MethodPost:
		h.createOrder(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

// HandleItem 处理单条及其子路由
// GET/PUT/DELETE /orders/{id}
// POST /orders/{id}/complete；GET /orders/{id}/qr；GET /orders/{id}/saree-qr
func (h *OrderHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	rest := strings.TrimPrefix(r.URL.Path, "/orders/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid order ID", reqID, "")
		return
	}
	id := parts[0]

	if len(parts) == 2 {
		switch parts[1] {
		case "complete":
			if r.Method != http.MethodPost {
				methodNotAllowed(w, r)
				return
			}
			h.completeOrder(w, r, id)
		case "qr":
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r)
				return
			}
			h.orderQR(w, r, id)
		case "saree-qr":
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r)
				return
			}
			h.sareeQR(w, r, id)
		default:
			resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "not found", reqID, "")
		}
		return
	}
	if len(parts) > 2 {
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "not found", reqID, "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getOrder(w, r, id)
	case http.MethodPut:
		h.updateOrder(w, r, id)
	case http.MethodDelete:
		h.deleteOrder(w, r, id)
	default:
		methodNotAllowed(w, r)
	}
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	orders, err := h.orderService.ListOrders()
	if err != nil {
		h.logger.Error("list orders failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "list orders failed", reqID, "")
		return
	}
	resp.OK(w, orders, reqID, "")
}

// ListCompleted 获取已完工订单列表
// GET /orders/completed
func (h *OrderHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	orders, err := h.orderService.ListCompletedOrders()
	if err != nil {
		h.logger.Error("list completed orders failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "list completed orders failed", reqID, "")
		return
	}
	resp.OK(w, orders, reqID, "")
}

// ExportCompleted 导出已完工订单
// GET /orders/completed/export
func (h *OrderHandler) ExportCompleted(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	orders, err := h.orderService.ListCompletedOrders()
	if err != nil {
		h.logger.Error("list completed orders failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "export completed orders failed", reqID, "")
		return
	}

	f, filename, err := export.CompletedOrders(orders)
	if err != nil {
		h.logger.Error("render export failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "export completed orders failed", reqID, "")
		return
	}
	writeWorkbook(w, h.logger, f, filename, reqID)
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), &req)
	if err != nil {
		writeOrderError(w, h.logger, err, reqID, "create order failed")
		return
	}
	resp.OK(w, order, reqID, "")
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	order, err := h.orderService.GetOrder(id)
	if err != nil {
		writeOrderError(w, h.logger, err, reqID, "get order failed")
		return
	}
	resp.OK(w, order, reqID, "")
}

func (h *OrderHandler) updateOrder(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	order, err := h.orderService.UpdateOrder(r.Context(), id, &req)
	if err != nil {
		writeOrderError(w, h.logger, err, reqID, "update order failed")
		return
	}
	resp.OK(w, order, reqID, "")
}

func (h *OrderHandler) deleteOrder(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	if err := h.orderService.DeleteOrder(r.Context(), id); err != nil {
		writeOrderError(w, h.logger, err, reqID, "delete order failed")
		return
	}
	resp.OK(w, map[string]string{"id": id}, reqID, "")
}

// completeOrder 完工登记
// multipart 表单：items 为 JSON 数组，productCount 为整数，images 为附件文件
func (h *OrderHandler) completeOrder(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	if err := r.ParseMultipartForm(completeFormMaxMemory); err != nil {
		h.logger.Warn("invalid multipart form", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid multipart form", reqID, "")
		return
	}

	productCount, err := strconv.Atoi(r.FormValue("productCount"))
	if err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "productCount must be an integer", reqID, "")
		return
	}

	var items []domain.CompleteOrderItem
	if raw := r.FormValue("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "items must be a JSON array", reqID, "")
			return
		}
	}

	var attachments []service.AttachmentUpload
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			file, err := fh.Open()
			if err != nil {
				h.logger.Warn("failed to open uploaded file", zap.String("request_id", reqID), zap.Error(err))
				resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "failed to read uploaded file", reqID, "")
				return
			}
			defer file.Close()
			attachments = append(attachments, service.AttachmentUpload{
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Reader:      file,
			})
		}
	}

	order, err := h.orderService.CompleteOrder(r.Context(), id, productCount, items, attachments)
	if err != nil {
		writeOrderError(w, h.logger, err, reqID, "complete order failed")
		return
	}
	resp.OK(w, order, reqID, "")
}

// MarkDelivered 发货登记
// POST /orders/mark-delivered，请求体 {"orderId": ...}
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r)
		return
	}

	var req domain.MarkDeliveredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}
	if req.OrderID == "" {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "orderId is required", reqID, "")
		return
	}

	order, err := h.orderService.MarkDelivered(r.Context(), req.OrderID)
	if err != nil {
		writeOrderError(w, h.logger, err, reqID, "mark delivered failed")
		return
	}
	resp.OK(w, order, reqID, "")
}

func (h *OrderHandler) orderQR(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	qr, err := h.orderService.OrderQR(id)
	if err != nil {
		writeOrderError(w, h.logger, err, reqID, "generate order qr failed")
		return
	}
	resp.OK(w, map[string]string{"qr": qr}, reqID, "")
}

func (h *OrderHandler) sareeQR(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	qrs, err := h.orderService.SareeQRBatch(id)
	if err != nil {
		writeOrderError(w, h.logger, err, reqID, "generate saree qr failed")
		return
	}
	resp.OK(w, map[string][]string{"qrs": qrs}, reqID, "")
}

func writeOrderError(w http.ResponseWriter, logger *zap.Logger, err error, reqID, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
	case errors.Is(err, domain.ErrOrderNotFound):
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "order not found", reqID, "")
	case errors.Is(err, domain.ErrMaterialNotFound):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "material not found", reqID, "")
	case errors.Is(err, domain.ErrInsufficientStock):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "insufficient stock", reqID, "")
	case errors.Is(err, domain.ErrOrderNotPending):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "order is not pending", reqID, "")
	case errors.Is(err, domain.ErrOrderNotCompleted):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "order is not completed", reqID, "")
	case errors.Is(err, domain.ErrOrderDelivered):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "delivered orders cannot be deleted", reqID, "")
	case errors.Is(err, storage.ErrStorageDisabled):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "attachment storage is not configured", reqID, "")
	default:
		logger.Error(fallback, zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, fallback, reqID, "")
	}
}
