package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrPayload 二维码载荷。扫码端靠 Type 区分整单码与单件码；
// 单件码额外携带序号、总数与订单快照信息，脱网也能辨识。
type qrPayload struct {
	OrderID  string `json:"orderId"`
	Type     string `json:"type"`
	Unit     int    `json:"unit,omitempty"`
	Total    int    `json:"total,omitempty"`
	Customer string `json:"customer,omitempty"`
	Date     string `json:"date,omitempty"`
}

// encodeQRDataURI 将载荷编码为 PNG 二维码并包装成 data URI，
// 前端可直接作为 <img> 源使用。
func encodeQRDataURI(payload qrPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal qr payload: %w", err)
	}
	png, err := qrcode.Encode(string(raw), qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
