// Package export 将业务数据渲染为可下载的 Excel 工作簿。
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/vasthra/saree-works/internal/domain"
)

const dateLayout = "2006-01-02"

// newSheet 创建工作簿并写入加粗表头与列宽
func newSheet(sheetName string, headers []string, colWidths []float64) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, boldStyle)
	}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, w)
	}
	return f, nil
}

// Clients 导出客户档案
func Clients(clients []*domain.Client) (*excelize.File, string, error) {
	f, err := newSheet("Clients",
		[]string{"Sr No", "Customer Code", "Customer Name", "Phone Number", "Place"},
		[]float64{8, 16, 24, 18, 20})
	if err != nil {
		return nil, "", err
	}

	for i, c := range clients {
		row := i + 2
		f.SetCellValue("Clients", fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue("Clients", fmt.Sprintf("B%d", row), c.CustomerCode)
		f.SetCellValue("Clients", fmt.Sprintf("C%d", row), c.CustomerName)
		f.SetCellValue("Clients", fmt.Sprintf("D%d", row), c.PhoneNumber)
		f.SetCellValue("Clients", fmt.Sprintf("E%d", row), c.Place)
	}
	return f, "clients.xlsx", nil
}

// Materials 导出原料档案及当前库存
func Materials(materials []*domain.Material) (*excelize.File, string, error) {
	f, err := newSheet("Materials",
		[]string{"Sr No", "Material Code", "Material Name", "Description", "Color", "Stock"},
		[]float64{8, 16, 24, 28, 14, 10})
	if err != nil {
		return nil, "", err
	}

	for i, m := range materials {
		row := i + 2
		f.SetCellValue("Materials", fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue("Materials", fmt.Sprintf("B%d", row), m.MaterialCode)
		f.SetCellValue("Materials", fmt.Sprintf("C%d", row), m.MaterialName)
		f.SetCellValue("Materials", fmt.Sprintf("D%d", row), m.Description)
		f.SetCellValue("Materials", fmt.Sprintf("E%d", row), m.Color)
		f.SetCellValue("Materials", fmt.Sprintf("F%d", row), m.Stock)
	}
	return f, "materials.xlsx", nil
}

// Purchases 导出采购记录
func Purchases(purchases []*domain.Purchase) (*excelize.File, string, error) {
	f, err := newSheet("Purchases",
		[]string{"Sr No", "Date", "Product Code", "Product Name", "Quantity"},
		[]float64{8, 14, 16, 24, 10})
	if err != nil {
		return nil, "", err
	}

	for i, p := range purchases {
		row := i + 2
		f.SetCellValue("Purchases", fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue("Purchases", fmt.Sprintf("B%d", row), p.Date.Format(dateLayout))
		f.SetCellValue("Purchases", fmt.Sprintf("C%d", row), p.ProductCode)
		f.SetCellValue("Purchases", fmt.Sprintf("D%d", row), p.ProductName)
		f.SetCellValue("Purchases", fmt.Sprintf("E%d", row), p.Quantity)
	}
	return f, "purchases.xlsx", nil
}

// CompletedOrders 导出已完工订单
func CompletedOrders(orders []*domain.Order) (*excelize.File, string, error) {
	f, err := newSheet("Completed Orders",
		[]string{"Sr No", "Date", "Customer", "Salary", "Sarees", "Status"},
		[]float64{8, 14, 24, 12, 10, 14})
	if err != nil {
		return nil, "", err
	}

	for i, o := range orders {
		row := i + 2
		count := o.ProductQty
		if o.ProductCount != nil {
			count = *o.ProductCount
		}
		f.SetCellValue("Completed Orders", fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue("Completed Orders", fmt.Sprintf("B%d", row), o.OrderDate.Format(dateLayout))
		f.SetCellValue("Completed Orders", fmt.Sprintf("C%d", row), o.CustomerName)
		f.SetCellValue("Completed Orders", fmt.Sprintf("D%d", row), o.Salary)
		f.SetCellValue("Completed Orders", fmt.Sprintf("E%d", row), count)
		f.SetCellValue("Completed Orders", fmt.Sprintf("F%d", row), string(o.Status))
	}
	return f, "completed_orders.xlsx", nil
}
