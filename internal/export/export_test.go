package export

import (
	"testing"
	"time"

	"github.com/vasthra/saree-works/internal/domain"
)

func TestClients(t *testing.T) {
	clients := []*domain.Client{
		{ID: "c1", CustomerCode: "CUST-01", CustomerName: "Lakshmi Textiles", PhoneNumber: "9876543210", Place: "Kanchipuram"},
		{ID: "c2", CustomerCode: "CUST-02", CustomerName: "Sri Silks", Place: "Arni"},
	}

	f, filename, err := Clients(clients)
	if err != nil {
		t.Fatalf("Clients failed: %v", err)
	}
	defer f.Close()

	if filename != "clients.xlsx" {
		t.Errorf("expected clients.xlsx, got %s", filename)
	}
	if got, _ := f.GetCellValue("Clients", "B1"); got != "Customer Code" {
		t.Errorf("expected header Customer Code, got %q", got)
	}
	if got, _ := f.GetCellValue("Clients", "C2"); got != "Lakshmi Textiles" {
		t.Errorf("expected first row name, got %q", got)
	}
	if got, _ := f.GetCellValue("Clients", "E3"); got != "Arni" {
		t.Errorf("expected second row place, got %q", got)
	}
}

func TestCompletedOrders_PrefersProductCount(t *testing.T) {
	count := 9
	orders := []*domain.Order{
		{
			ID:           "o1",
			OrderDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			CustomerName: "Lakshmi Textiles",
			Salary:       5000,
			ProductQty:   10,
			Status:       domain.OrderStatusCompleted,
			ProductCount: &count,
		},
		{
			ID:           "o2",
			OrderDate:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			CustomerName: "Sri Silks",
			Salary:       3000,
			ProductQty:   5,
			Status:       domain.OrderStatusCompleted,
		},
	}

	f, _, err := CompletedOrders(orders)
	if err != nil {
		t.Fatalf("CompletedOrders failed: %v", err)
	}
	defer f.Close()

	// recorded product count wins over the ordered qty
	if got, _ := f.GetCellValue("Completed Orders", "E2"); got != "9" {
		t.Errorf("expected saree count 9, got %q", got)
	}
	// falls back to product qty when no count was recorded
	if got, _ := f.GetCellValue("Completed Orders", "E3"); got != "5" {
		t.Errorf("expected saree count 5, got %q", got)
	}
	if got, _ := f.GetCellValue("Completed Orders", "B2"); got != "2026-01-15" {
		t.Errorf("expected date 2026-01-15, got %q", got)
	}
}
