package service

import (
	"errors"
	"testing"

	"github.com/zipcart/internal/models"
)

func TestCartAddItemMergesQuantity(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(21)

	view, err := f.cartSvc.AddItem(AddItemInput{UserID: userID, StoreID: f.store.ID, ProductID: f.productA.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if view.TotalItems != 2 {
		t.Fatalf("total items want 2 got %d", view.TotalItems)
	}

	view, err = f.cartSvc.AddItem(AddItemInput{UserID: userID, StoreID: f.store.ID, ProductID: f.productA.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("same product should stay on one line, got %d lines", len(view.Items))
	}
	if view.Items[0].Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", view.Items[0].Quantity)
	}
	if got := view.TotalPrice.StringFixed(2); got != "17.50" {
		t.Fatalf("total price want 17.50 got %s", got)
	}
}

func TestCartAddItemRejectsSecondStore(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(22)

	if _, err := f.cartSvc.AddItem(AddItemInput{UserID: userID, StoreID: f.store.ID, ProductID: f.productA.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	_, err := f.cartSvc.AddItem(AddItemInput{UserID: userID, StoreID: f.otherStore.ID, ProductID: f.productA.ID, Quantity: 1})
	if !errors.Is(err, ErrCartStoreMismatch) {
		t.Fatalf("expected ErrCartStoreMismatch, got: %v", err)
	}
}

func TestCartAddItemChecksAvailableStock(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(23)

	_, err := f.cartSvc.AddItem(AddItemInput{UserID: userID, StoreID: f.store.ID, ProductID: f.productA.ID, Quantity: 11})
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got: %v", err)
	}
	if stockErr.Shortages[0].Available != 10 {
		t.Fatalf("available want 10 got %d", stockErr.Shortages[0].Available)
	}

	// 可售量 = quantity - reserved_quantity，预占也要计入
	if _, err := f.inventoryRepo.Reserve(f.store.ID, f.productA.ID, 8); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	_, err = f.cartSvc.AddItem(AddItemInput{UserID: userID, StoreID: f.store.ID, ProductID: f.productA.ID, Quantity: 3})
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError after reservation, got: %v", err)
	}
	if stockErr.Shortages[0].Available != 2 {
		t.Fatalf("available want 2 got %d", stockErr.Shortages[0].Available)
	}
}

func TestCartAddItemSnapshotsPrice(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(24)
	view, err := f.cartSvc.AddItem(AddItemInput{UserID: userID, StoreID: f.store.ID, ProductID: f.productB.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := view.Items[0].UnitPrice.StringFixed(2); got != "4.50" {
		t.Fatalf("unit price snapshot want 4.50 got %s", got)
	}
	if view.Items[0].Name != f.productB.Name {
		t.Fatalf("name snapshot want %s got %s", f.productB.Name, view.Items[0].Name)
	}
}

func TestCartUpdateQuantityZeroRemovesLine(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(25)
	if _, err := f.cartSvc.AddItem(AddItemInput{UserID: userID, StoreID: f.store.ID, ProductID: f.productA.ID, Quantity: 2}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	view, err := f.cartSvc.UpdateQuantity(userID, f.productA.ID, 0)
	if err != nil {
		t.Fatalf("update to zero failed: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("line should be removed, got %d lines", len(view.Items))
	}
}

func TestCartUpdateQuantityMissingLine(t *testing.T) {
	f := setupCommerceTest(t)
	_, err := f.cartSvc.UpdateQuantity(26, f.productA.ID, 2)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestCartClearIsIdempotent(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(27)
	if _, err := f.cartSvc.AddItem(AddItemInput{UserID: userID, StoreID: f.store.ID, ProductID: f.productA.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := f.cartSvc.ClearCart(userID); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := f.cartSvc.ClearCart(userID); err != nil {
		t.Fatalf("second clear should not fail: %v", err)
	}
	view, err := f.cartSvc.GetCart(userID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 0 || view.TotalItems != 0 {
		t.Fatalf("cart should be empty: %+v", view)
	}
}

func TestCartRejectsInactiveProduct(t *testing.T) {
	f := setupCommerceTest(t)
	inactive := models.Product{
		CategoryID: 1, Slug: "retired-item", Name: "下架商品",
		BasePrice: money(t, "1.00"), IsActive: false,
	}
	if err := f.db.Create(&inactive).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	_, err := f.cartSvc.AddItem(AddItemInput{UserID: 28, StoreID: f.store.ID, ProductID: inactive.ID, Quantity: 1})
	if !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got: %v", err)
	}
}
