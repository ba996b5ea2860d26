package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/zipcart/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupInventoryTest(t *testing.T) (*gorm.DB, *GormInventoryRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:inventory_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Inventory{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db, NewInventoryRepository(db)
}

func seedInventory(t *testing.T, db *gorm.DB, quantity, reserved int) models.Inventory {
	t.Helper()
	item := models.Inventory{StoreID: 1, ProductID: 1, Quantity: quantity, ReservedQuantity: reserved, ReorderLevel: 5}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed inventory failed: %v", err)
	}
	return item
}

func reloadInventory(t *testing.T, repo *GormInventoryRepository) models.Inventory {
	t.Helper()
	item, err := repo.GetByStoreAndProduct(1, 1)
	if err != nil || item == nil {
		t.Fatalf("reload inventory failed: %v", err)
	}
	return *item
}

func TestInventoryReserveGuard(t *testing.T) {
	db, repo := setupInventoryTest(t)
	seedInventory(t, db, 10, 7)

	// 可售量 3，预占 3 生效
	affected, err := repo.Reserve(1, 1, 3)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}
	if item := reloadInventory(t, repo); item.ReservedQuantity != 10 || item.Available() != 0 {
		t.Fatalf("unexpected state after reserve: %+v", item)
	}

	// 可售量已为 0，继续预占必须拒绝
	affected, err = repo.Reserve(1, 1, 1)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("over-reserve should affect 0 rows, got %d", affected)
	}
}

func TestInventoryReleaseGuard(t *testing.T) {
	db, repo := setupInventoryTest(t)
	seedInventory(t, db, 10, 2)

	affected, err := repo.Release(1, 1, 5)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("over-release should affect 0 rows, got %d", affected)
	}

	affected, err = repo.Release(1, 1, 2)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}
	if item := reloadInventory(t, repo); item.ReservedQuantity != 0 {
		t.Fatalf("reserved want 0 got %d", item.ReservedQuantity)
	}
}

func TestInventoryConsumeGuard(t *testing.T) {
	db, repo := setupInventoryTest(t)
	seedInventory(t, db, 4, 3)

	affected, err := repo.Consume(1, 1, 3)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}
	item := reloadInventory(t, repo)
	if item.Quantity != 1 || item.ReservedQuantity != 0 {
		t.Fatalf("unexpected state after consume: %+v", item)
	}

	// 占用量不足时拒绝消耗
	affected, err = repo.Consume(1, 1, 1)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("consume without reservation should affect 0 rows, got %d", affected)
	}
}

func TestInventoryAdjustNeverDropsBelowReserved(t *testing.T) {
	db, repo := setupInventoryTest(t)
	seedInventory(t, db, 10, 4)

	// 调整后 quantity 仍需覆盖 reserved_quantity
	affected, err := repo.AdjustQuantity(1, 1, -7)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("adjust below reserved should affect 0 rows, got %d", affected)
	}

	affected, err = repo.AdjustQuantity(1, 1, -6)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}
	item := reloadInventory(t, repo)
	if item.Quantity != 4 || item.Available() != 0 {
		t.Fatalf("unexpected state after adjust: %+v", item)
	}
}

func TestInventoryListLowStock(t *testing.T) {
	db, repo := setupInventoryTest(t)
	rows := []models.Inventory{
		{StoreID: 2, ProductID: 10, Quantity: 20, ReservedQuantity: 0, ReorderLevel: 5},
		{StoreID: 2, ProductID: 11, Quantity: 6, ReservedQuantity: 2, ReorderLevel: 5},
		{StoreID: 2, ProductID: 12, Quantity: 3, ReservedQuantity: 3, ReorderLevel: 5},
		{StoreID: 3, ProductID: 13, Quantity: 1, ReservedQuantity: 0, ReorderLevel: 5},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed inventory failed: %v", err)
		}
	}

	items, err := repo.ListLowStock(2)
	if err != nil {
		t.Fatalf("list low stock failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("low stock rows want 2 got %d", len(items))
	}
	// 按可售量升序
	if items[0].ProductID != 12 || items[1].ProductID != 11 {
		t.Fatalf("unexpected order: %+v", items)
	}
}
