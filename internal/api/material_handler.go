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

// MaterialHandler 原料相关的HTTP处理器
type MaterialHandler struct {
	materialService service.MaterialService
	logger          *zap.Logger
}

// NewMaterialHandler 创建原料处理器实例
func NewMaterialHandler(materialService service.MaterialService, logger *zap.Logger) *MaterialHandler {
	return &MaterialHandler{
		materialService: materialService,
		logger:          logger,
	}
}

// HandleCollection 处理集合路由
// GET /materials 列表；POST /materials 创建
func (h *MaterialHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListMaterials(w, r)
	case http.MethodPost:
		h.createMaterial(w, r)
	default:
		methodNotAllowed(w, r)
	}
}

// HandleItem 处理单条路由
// GET/PUT/DELETE /materials/{id}
func (h *MaterialHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	id := strings.TrimPrefix(r.URL.Path, "/materials/")
	if id == "" || strings.Contains(id, "/") {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid material ID", reqID, "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getMaterial(w, r, id)
	case http.MethodPut:
		h.updateMaterial(w, r, id)
	case http.MethodDelete:
		h.deleteMaterial(w, r, id)
	default:
		methodNotAllowed(w, r)
	}
}

// ListMaterials 获取原料列表
// GET /materials，同时服务历史别名 GET /materials/get-material
func (h *MaterialHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	materials, err := h.materialService.ListMaterials()
	if err != nil {
		h.logger.Error("list materials failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "list materials failed", reqID, "")
		return
	}
	resp.OK(w, materials, reqID, "")
}

func (h *MaterialHandler) createMaterial(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	material, err := h.materialService.CreateMaterial(&req)
	if err != nil {
		writeMaterialError(w, h.logger, err, reqID, "create material failed")
		return
	}
	resp.OK(w, material, reqID, "")
}

func (h *MaterialHandler) getMaterial(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	material, err := h.materialService.GetMaterial(id)
	if err != nil {
		writeMaterialError(w, h.logger, err, reqID, "get material failed")
		return
	}
	resp.OK(w, material, reqID, "")
}

func (h *MaterialHandler) updateMaterial(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.UpdateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}

	material, err := h.materialService.UpdateMaterial(id, &req)
	if err != nil {
		writeMaterialError(w, h.logger, err, reqID, "update material failed")
		return
	}
	resp.OK(w, material, reqID, "")
}

func (h *MaterialHandler) deleteMaterial(w http.ResponseWriter, r *http.Request, id string) {
	reqID := middleware.RequestIDFromContext(r.Context())

	if err := h.materialService.DeleteMaterial(id); err != nil {
		writeMaterialError(w, h.logger, err, reqID, "delete material failed")
		return
	}
	resp.OK(w, map[string]string{"id": id}, reqID, "")
}

// ExportMaterials 导出原料档案
// GET /materials/export
func (h *MaterialHandler) ExportMaterials(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}

	materials, err := h.materialService.ListMaterials()
	if err != nil {
		h.logger.Error("list materials failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "export materials failed", reqID, "")
		return
	}

	f, filename, err := export.Materials(materials)
	if err != nil {
		h.logger.Error("render export failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "export materials failed", reqID, "")
		return
	}
	writeWorkbook(w, h.logger, f, filename, reqID)
}

func writeMaterialError(w http.ResponseWriter, logger *zap.Logger, err error, reqID, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
	case errors.Is(err, domain.ErrMaterialNotFound):
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "material not found", reqID, "")
	case errors.Is(err, domain.ErrDuplicateCode):
		resp.Error(w, http.StatusConflict, resp.CodeConflict, "material code already exists", reqID, "")
	default:
		logger.Error(fallback, zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, fallback, reqID, "")
	}
}
