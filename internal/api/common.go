package api

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/vasthra/saree-works/internal/middleware"
	"github.com/vasthra/saree-works/internal/resp"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())
	resp.Error(w, http.StatusMethodNotAllowed, resp.CodeInvalidParam, "method not allowed", reqID, "")
}

// writeWorkbook 以附件下载的形式输出 Excel 工作簿。
// 写入响应体一旦开始就无法再改写状态码，失败只能记日志。
func writeWorkbook(w http.ResponseWriter, logger *zap.Logger, f *excelize.File, filename, reqID string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(w); err != nil {
		logger.Error("write workbook failed", zap.String("request_id", reqID), zap.Error(err))
	}
}
