// Package resp 定义统一的 JSON 响应信封与错误码。
package resp

import (
	"encoding/json"
	"net/http"
)

// Code 业务错误码，与 HTTP 状态码独立
type Code int

// 约定的业务错误码集合。0 表示成功。
const (
	CodeOK            Code = 0
	CodeInvalidParam  Code = 1001
	CodeUnauthorized  Code = 1002
	CodeNotFound      Code = 1003
	CodeConflict      Code = 1004
	CodeTimeout       Code = 1005
	CodeInternalError Code = 2001
)

// Response 统一响应信封
type Response struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// OK 写入成功响应（HTTP 200）
func OK(w http.ResponseWriter, data any, requestID, traceID string) {
	WriteJSON(w, http.StatusOK, &Response{
		Code:      CodeOK,
		Message:   "ok",
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// Error 写入错误响应
func Error(w http.ResponseWriter, status int, code Code, message, requestID, traceID string) {
	WriteJSON(w, status, &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// WriteJSON 序列化响应体并写入
func WriteJSON(w http.ResponseWriter, status int, body *Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// 此处编码失败无法再补救，忽略错误
	_ = json.NewEncoder(w).Encode(body)
}

// HTTPStatusFromCode 将业务错误码映射到默认 HTTP 状态码
func HTTPStatusFromCode(code Code) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
