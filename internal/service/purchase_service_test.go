package service

import (
	"errors"
	"testing"

	"github.com/vasthra/saree-works/internal/domain"
)

func TestPurchaseService_CreatePurchase(t *testing.T) {
	purchaseRepo := newMockPurchaseRepository()
	purchaseRepo.stocks["SILK-01"] = 0
	svc := NewPurchaseService(purchaseRepo)

	tests := []struct {
		name    string
		req     *domain.CreatePurchaseRequest
		wantErr error
	}{
		{
			name: "valid purchase",
			req:  &domain.CreatePurchaseRequest{Date: "2026-02-01", ProductCode: "SILK-01", ProductName: "Raw Silk", Quantity: 25},
		},
		{
			name:    "zero quantity",
			req:     &domain.CreatePurchaseRequest{Date: "2026-02-01", ProductCode: "SILK-01", ProductName: "Raw Silk", Quantity: 0},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative quantity",
			req:     &domain.CreatePurchaseRequest{Date: "2026-02-01", ProductCode: "SILK-01", ProductName: "Raw Silk", Quantity: -5},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad date format",
			req:     &domain.CreatePurchaseRequest{Date: "01/02/2026", ProductCode: "SILK-01", ProductName: "Raw Silk", Quantity: 5},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing product code",
			req:     &domain.CreatePurchaseRequest{Date: "2026-02-01", ProductName: "Raw Silk", Quantity: 5},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown material code",
			req:     &domain.CreatePurchaseRequest{Date: "2026-02-01", ProductCode: "NOPE", ProductName: "Raw Silk", Quantity: 5},
			wantErr: domain.ErrMaterialNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePurchase(tt.req)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CreatePurchase failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	// the valid case above should have raised stock
	if got := purchaseRepo.stocks["SILK-01"]; got != 25 {
		t.Errorf("expected stock 25 after purchase, got %d", got)
	}
}

func TestPurchaseService_UpdatePurchase_DeltaAccounting(t *testing.T) {
	purchaseRepo := newMockPurchaseRepository()
	purchaseRepo.stocks["SILK-01"] = 0
	purchaseRepo.stocks["ZARI-01"] = 0
	svc := NewPurchaseService(purchaseRepo)

	p, err := svc.CreatePurchase(&domain.CreatePurchaseRequest{
		Date: "2026-02-01", ProductCode: "SILK-01", ProductName: "Raw Silk", Quantity: 25,
	})
	if err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}

	// raise quantity 25 -> 40: stock +15
	if _, err := svc.UpdatePurchase(p.ID, &domain.UpdatePurchaseRequest{
		Date: "2026-02-01", ProductCode: "SILK-01", ProductName: "Raw Silk", Quantity: 40,
	}); err != nil {
		t.Fatalf("UpdatePurchase failed: %v", err)
	}
	if got := purchaseRepo.stocks["SILK-01"]; got != 40 {
		t.Errorf("expected stock 40, got %d", got)
	}

	// move the purchase to another material: old code reversed, new code credited
	if _, err := svc.UpdatePurchase(p.ID, &domain.UpdatePurchaseRequest{
		Date: "2026-02-01", ProductCode: "ZARI-01", ProductName: "Gold Zari", Quantity: 10,
	}); err != nil {
		t.Fatalf("UpdatePurchase failed: %v", err)
	}
	if got := purchaseRepo.stocks["SILK-01"]; got != 0 {
		t.Errorf("expected silk stock back to 0, got %d", got)
	}
	if got := purchaseRepo.stocks["ZARI-01"]; got != 10 {
		t.Errorf("expected zari stock 10, got %d", got)
	}
}

func TestPurchaseService_DeletePurchase_ReversesStock(t *testing.T) {
	purchaseRepo := newMockPurchaseRepository()
	purchaseRepo.stocks["SILK-01"] = 0
	svc := NewPurchaseService(purchaseRepo)

	p, err := svc.CreatePurchase(&domain.CreatePurchaseRequest{
		Date: "2026-02-01", ProductCode: "SILK-01", ProductName: "Raw Silk", Quantity: 25,
	})
	if err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}

	if err := svc.DeletePurchase(p.ID); err != nil {
		t.Fatalf("DeletePurchase failed: %v", err)
	}
	if got := purchaseRepo.stocks["SILK-01"]; got != 0 {
		t.Errorf("expected stock 0 after delete, got %d", got)
	}

	if err := svc.DeletePurchase(p.ID); !errors.Is(err, domain.ErrPurchaseNotFound) {
		t.Errorf("expected ErrPurchaseNotFound on repeat delete, got %v", err)
	}
}
