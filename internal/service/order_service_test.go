package service

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/zipcart/internal/config"
	"github.com/zipcart/internal/constants"
	"github.com/zipcart/internal/models"
	"github.com/zipcart/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// commerceFixture 下单链路测试夹具：一家门店、两个商品、对应库存
type commerceFixture struct {
	db            *gorm.DB
	orderSvc      *OrderService
	cartSvc       *CartService
	cartRepo      repository.CartRepository
	inventoryRepo repository.InventoryRepository
	orderRepo     repository.OrderRepository
	store         models.Store
	otherStore    models.Store
	operatorID    uint
	productA      models.Product
	productB      models.Product
}

func setupCommerceTest(t *testing.T) *commerceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:commerce_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Store{},
		&models.Product{},
		&models.Inventory{},
		&models.CartItem{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.DeliveryPartner{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	operatorID := uint(501)
	store := models.Store{
		Name: "Mission Test Store", Slug: "mission-test-store", Type: constants.StoreTypeDark,
		OperatorID: &operatorID, City: "San Francisco", State: "CA",
		DeliveryRadiusMiles: 3, IsActive: true,
	}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	otherOperatorID := uint(502)
	otherStore := models.Store{
		Name: "SoMa Test Store", Slug: "soma-test-store", Type: constants.StoreTypeDark,
		OperatorID: &otherOperatorID, City: "San Francisco", State: "CA",
		DeliveryRadiusMiles: 3, IsActive: true,
	}
	if err := db.Create(&otherStore).Error; err != nil {
		t.Fatalf("create other store failed: %v", err)
	}

	productA := models.Product{
		CategoryID: 1, Slug: "taxable-snack", Name: "玉米脆片",
		BasePrice: money(t, "3.50"), IsTaxable: true, IsActive: true,
	}
	productB := models.Product{
		CategoryID: 1, Slug: "taxable-drink", Name: "冷萃咖啡",
		BasePrice: money(t, "4.50"), IsTaxable: true, IsActive: true,
	}
	for _, p := range []*models.Product{&productA, &productB} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	for _, inv := range []models.Inventory{
		{StoreID: store.ID, ProductID: productA.ID, Quantity: 10, ReorderLevel: 2},
		{StoreID: store.ID, ProductID: productB.ID, Quantity: 10, ReorderLevel: 2},
		{StoreID: otherStore.ID, ProductID: productA.ID, Quantity: 10, ReorderLevel: 2},
	} {
		if err := db.Create(&inv).Error; err != nil {
			t.Fatalf("create inventory failed: %v", err)
		}
	}

	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	partnerRepo := repository.NewDeliveryPartnerRepository(db)

	orderCfg := config.OrderConfig{
		TaxRatePercent:        8.0,
		DeliveryFee:           "2.99",
		PendingTimeoutMinutes: 15,
	}
	orderSvc := NewOrderService(orderRepo, cartRepo, addressRepo, inventoryRepo, productRepo, storeRepo, partnerRepo, nil, nil, nil, orderCfg)
	cartSvc := NewCartService(cartRepo, productRepo, inventoryRepo, storeRepo)

	return &commerceFixture{
		db:            db,
		orderSvc:      orderSvc,
		cartSvc:       cartSvc,
		cartRepo:      cartRepo,
		inventoryRepo: inventoryRepo,
		orderRepo:     orderRepo,
		store:         store,
		otherStore:    otherStore,
		operatorID:    operatorID,
		productA:      productA,
		productB:      productB,
	}
}

func money(t *testing.T, value string) models.Money {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", value, err)
	}
	return models.NewMoneyFromDecimal(d)
}

func (f *commerceFixture) addCartLine(t *testing.T, userID uint, product models.Product, quantity int) {
	t.Helper()
	line := models.CartItem{
		UserID:    userID,
		StoreID:   f.store.ID,
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.BasePrice,
		Quantity:  quantity,
	}
	if err := f.db.Create(&line).Error; err != nil {
		t.Fatalf("seed cart line failed: %v", err)
	}
}

func (f *commerceFixture) inventoryOf(t *testing.T, productID uint) models.Inventory {
	t.Helper()
	item, err := f.inventoryRepo.GetByStoreAndProduct(f.store.ID, productID)
	if err != nil || item == nil {
		t.Fatalf("load inventory failed: %v", err)
	}
	return *item
}

func (f *commerceFixture) placeOrder(t *testing.T, userID uint) *models.Order {
	t.Helper()
	order, err := f.orderSvc.PlaceOrder(userID, PlaceOrderInput{
		StreetAddress: "2500 Mission St",
		City:          "San Francisco",
		State:         "CA",
		ZipCode:       "94110",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	return order
}

func (f *commerceFixture) createPartner(t *testing.T, userID uint, available bool) models.DeliveryPartner {
	t.Helper()
	partner := models.DeliveryPartner{UserID: userID, VehicleType: "bicycle", IsAvailable: available}
	if err := f.db.Create(&partner).Error; err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	return partner
}

// readyOrder 走完整运营链路把订单推到 ready
func (f *commerceFixture) readyOrder(t *testing.T, userID uint) *models.Order {
	t.Helper()
	f.addCartLine(t, userID, f.productA, 1)
	order := f.placeOrder(t, userID)
	if _, err := f.orderSvc.ConfirmOrder(f.operatorID, order.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := f.orderSvc.StartPreparing(f.operatorID, order.ID); err != nil {
		t.Fatalf("start preparing failed: %v", err)
	}
	ready, err := f.orderSvc.MarkReady(f.operatorID, order.ID)
	if err != nil {
		t.Fatalf("mark ready failed: %v", err)
	}
	return ready
}

func TestPlaceOrderTotals(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(1)
	f.addCartLine(t, userID, f.productA, 2) // 2 × 3.50 = 7.00
	f.addCartLine(t, userID, f.productB, 1) // 1 × 4.50 = 4.50

	order := f.placeOrder(t, userID)

	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if got := order.Subtotal.StringFixed(2); got != "11.50" {
		t.Fatalf("subtotal want 11.50 got %s", got)
	}
	if got := order.TaxAmount.StringFixed(2); got != "0.92" {
		t.Fatalf("tax want 0.92 got %s", got)
	}
	if got := order.DeliveryFee.StringFixed(2); got != "2.99" {
		t.Fatalf("delivery fee want 2.99 got %s", got)
	}
	if got := order.TotalAmount.StringFixed(2); got != "15.41" {
		t.Fatalf("total want 15.41 got %s", got)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items want 2 got %d", len(order.Items))
	}
	if order.Address == nil || order.Address.StreetAddress != "2500 Mission St" {
		t.Fatalf("address snapshot missing: %+v", order.Address)
	}

	// 预占生效，购物车清空
	if inv := f.inventoryOf(t, f.productA.ID); inv.ReservedQuantity != 2 || inv.Quantity != 10 {
		t.Fatalf("product A reservation wrong: %+v", inv)
	}
	if inv := f.inventoryOf(t, f.productB.ID); inv.ReservedQuantity != 1 {
		t.Fatalf("product B reservation wrong: %+v", inv)
	}
	lines, err := f.cartRepo.ListByUser(userID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("cart should be empty after placement, got %d lines", len(lines))
	}
}

func TestPlaceOrderNonTaxableLineSkipsTax(t *testing.T) {
	f := setupCommerceTest(t)
	exempt := models.Product{
		CategoryID: 1, Slug: "tax-exempt-milk", Name: "全脂牛奶",
		BasePrice: money(t, "4.59"), IsTaxable: false, IsActive: true,
	}
	if err := f.db.Create(&exempt).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := f.db.Create(&models.Inventory{StoreID: f.store.ID, ProductID: exempt.ID, Quantity: 10}).Error; err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}

	userID := uint(2)
	f.addCartLine(t, userID, exempt, 2)
	order := f.placeOrder(t, userID)

	if got := order.TaxAmount.StringFixed(2); got != "0.00" {
		t.Fatalf("tax want 0.00 got %s", got)
	}
	if got := order.TotalAmount.StringFixed(2); got != "12.17" {
		t.Fatalf("total want 12.17 got %s", got)
	}
}

func TestPlaceOrderOrderNumberFormat(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(3)
	f.addCartLine(t, userID, f.productA, 1)
	order := f.placeOrder(t, userID)

	pattern := regexp.MustCompile(fmt.Sprintf(`^%s\d{%d}$`, constants.OrderNumberPrefix, constants.OrderNumberSuffixWidth))
	if !pattern.MatchString(order.OrderNumber) {
		t.Fatalf("order number %q does not match expected format", order.OrderNumber)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := setupCommerceTest(t)
	_, err := f.orderSvc.PlaceOrder(9, PlaceOrderInput{StreetAddress: "a", City: "b", State: "c"})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got: %v", err)
	}
}

func TestPlaceOrderCrossStoreCartRejected(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(4)
	f.addCartLine(t, userID, f.productA, 1)
	line := models.CartItem{
		UserID: userID, StoreID: f.otherStore.ID, ProductID: f.productB.ID,
		Name: f.productB.Name, UnitPrice: f.productB.BasePrice, Quantity: 1,
	}
	if err := f.db.Create(&line).Error; err != nil {
		t.Fatalf("seed cross-store line failed: %v", err)
	}

	_, err := f.orderSvc.PlaceOrder(userID, PlaceOrderInput{StreetAddress: "a", City: "b", State: "c"})
	if !errors.Is(err, ErrCartStoreMismatch) {
		t.Fatalf("expected ErrCartStoreMismatch, got: %v", err)
	}
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(5)
	f.addCartLine(t, userID, f.productA, 2)
	f.addCartLine(t, userID, f.productB, 50) // 库存只有 10

	_, err := f.orderSvc.PlaceOrder(userID, PlaceOrderInput{StreetAddress: "a", City: "b", State: "c"})
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got: %v", err)
	}
	if len(stockErr.Shortages) != 1 {
		t.Fatalf("shortages want 1 got %d", len(stockErr.Shortages))
	}
	shortage := stockErr.Shortages[0]
	if shortage.ProductID != f.productB.ID || shortage.Requested != 50 || shortage.Available != 10 {
		t.Fatalf("unexpected shortage detail: %+v", shortage)
	}

	// 整单回滚：预占清零、购物车保持原样、没有订单残留
	if inv := f.inventoryOf(t, f.productA.ID); inv.ReservedQuantity != 0 {
		t.Fatalf("product A reservation should be rolled back: %+v", inv)
	}
	lines, err := f.cartRepo.ListByUser(userID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("cart should be intact, got %d lines", len(lines))
	}
	var orderCount int64
	if err := f.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("no order should be created, got %d", orderCount)
	}
}

func TestOperatorAdvanceHappyPath(t *testing.T) {
	f := setupCommerceTest(t)
	order := f.readyOrder(t, 6)
	if order.Status != constants.OrderStatusReady {
		t.Fatalf("status want ready got %s", order.Status)
	}
}

func TestOperatorAdvanceRejectsSkippedStep(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(7)
	f.addCartLine(t, userID, f.productA, 1)
	order := f.placeOrder(t, userID)

	_, err := f.orderSvc.MarkReady(f.operatorID, order.ID)
	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got: %v", err)
	}
	if transitionErr.From != constants.OrderStatusPending || transitionErr.To != constants.OrderStatusReady {
		t.Fatalf("unexpected edge: %+v", transitionErr)
	}
}

func TestOperatorAdvanceForeignStoreForbidden(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(8)
	f.addCartLine(t, userID, f.productA, 1)
	order := f.placeOrder(t, userID)

	otherOperator := uint(502)
	if _, err := f.orderSvc.ConfirmOrder(otherOperator, order.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign store operator, got: %v", err)
	}
}

func TestCancelOrderReleasesReservation(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(9)
	f.addCartLine(t, userID, f.productA, 3)
	order := f.placeOrder(t, userID)
	if inv := f.inventoryOf(t, f.productA.ID); inv.ReservedQuantity != 3 {
		t.Fatalf("reservation not in place: %+v", inv)
	}

	cancelled, err := f.orderSvc.CancelOrder(f.operatorID, order.ID, "")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if cancelled.CancelReason != constants.CancelReasonOperator {
		t.Fatalf("cancel reason want %s got %s", constants.CancelReasonOperator, cancelled.CancelReason)
	}
	if inv := f.inventoryOf(t, f.productA.ID); inv.ReservedQuantity != 0 || inv.Quantity != 10 {
		t.Fatalf("reservation should be released: %+v", inv)
	}
}

func TestCancelOrderRejectsNonPending(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(10)
	f.addCartLine(t, userID, f.productA, 1)
	order := f.placeOrder(t, userID)
	if _, err := f.orderSvc.ConfirmOrder(f.operatorID, order.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	_, err := f.orderSvc.CancelOrder(f.operatorID, order.ID, "late")
	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got: %v", err)
	}
}

func TestCancelExpiredOrder(t *testing.T) {
	f := setupCommerceTest(t)
	userID := uint(11)
	f.addCartLine(t, userID, f.productA, 2)
	order := f.placeOrder(t, userID)

	cancelled, err := f.orderSvc.CancelExpiredOrder(order.ID)
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if cancelled.CancelReason != constants.CancelReasonTimeout {
		t.Fatalf("cancel reason want %s got %s", constants.CancelReasonTimeout, cancelled.CancelReason)
	}
	if inv := f.inventoryOf(t, f.productA.ID); inv.ReservedQuantity != 0 {
		t.Fatalf("reservation should be released: %+v", inv)
	}

	// 已确认的订单不受超时取消影响
	f.addCartLine(t, userID, f.productA, 1)
	confirmedOrder := f.placeOrder(t, userID)
	if _, err := f.orderSvc.ConfirmOrder(f.operatorID, confirmedOrder.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	fresh, err := f.orderSvc.CancelExpiredOrder(confirmedOrder.ID)
	if err != nil {
		t.Fatalf("cancel expired on confirmed failed: %v", err)
	}
	if fresh.Status != constants.OrderStatusConfirmed {
		t.Fatalf("confirmed order should survive timeout cancel, got %s", fresh.Status)
	}
}

func TestClaimOrder(t *testing.T) {
	f := setupCommerceTest(t)
	order := f.readyOrder(t, 12)
	partner := f.createPartner(t, 801, true)

	claimed, err := f.orderSvc.ClaimOrder(partner.UserID, order.ID)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed.Status != constants.OrderStatusPickedUp {
		t.Fatalf("status want picked_up got %s", claimed.Status)
	}
	if claimed.DeliveryPartnerID == nil || *claimed.DeliveryPartnerID != partner.ID {
		t.Fatalf("partner binding wrong: %+v", claimed.DeliveryPartnerID)
	}
}

func TestClaimOrderSecondClaimerLoses(t *testing.T) {
	f := setupCommerceTest(t)
	order := f.readyOrder(t, 13)
	first := f.createPartner(t, 802, true)
	second := f.createPartner(t, 803, true)

	if _, err := f.orderSvc.ClaimOrder(first.UserID, order.ID); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	_, err := f.orderSvc.ClaimOrder(second.UserID, order.ID)
	if !errors.Is(err, ErrOrderAlreadyClaimed) {
		t.Fatalf("expected ErrOrderAlreadyClaimed, got: %v", err)
	}
}

func TestClaimOrderRequiresAvailability(t *testing.T) {
	f := setupCommerceTest(t)
	order := f.readyOrder(t, 14)
	offline := f.createPartner(t, 804, false)

	_, err := f.orderSvc.ClaimOrder(offline.UserID, order.ID)
	if !errors.Is(err, ErrPartnerUnavailable) {
		t.Fatalf("expected ErrPartnerUnavailable, got: %v", err)
	}
}

func TestMarkDeliveredConsumesReservation(t *testing.T) {
	f := setupCommerceTest(t)
	order := f.readyOrder(t, 15)
	partner := f.createPartner(t, 805, true)
	if _, err := f.orderSvc.ClaimOrder(partner.UserID, order.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	delivered, err := f.orderSvc.MarkDelivered(partner.UserID, order.ID)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if delivered.Status != constants.OrderStatusDelivered {
		t.Fatalf("status want delivered got %s", delivered.Status)
	}
	if delivered.ActualDeliveryTime == nil {
		t.Fatalf("actual delivery time should be set")
	}

	// 预占转出库：quantity 与 reserved_quantity 同减
	if inv := f.inventoryOf(t, f.productA.ID); inv.Quantity != 9 || inv.ReservedQuantity != 0 {
		t.Fatalf("inventory consumption wrong: %+v", inv)
	}
	var fresh models.DeliveryPartner
	if err := f.db.First(&fresh, partner.ID).Error; err != nil {
		t.Fatalf("reload partner failed: %v", err)
	}
	if fresh.TotalDeliveries != 1 {
		t.Fatalf("total deliveries want 1 got %d", fresh.TotalDeliveries)
	}
}

func TestMarkDeliveredRejectsForeignPartner(t *testing.T) {
	f := setupCommerceTest(t)
	order := f.readyOrder(t, 16)
	assigned := f.createPartner(t, 806, true)
	stranger := f.createPartner(t, 807, true)
	if _, err := f.orderSvc.ClaimOrder(assigned.UserID, order.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	_, err := f.orderSvc.MarkDelivered(stranger.UserID, order.ID)
	if !errors.Is(err, ErrNotAssignedPartner) {
		t.Fatalf("expected ErrNotAssignedPartner, got: %v", err)
	}
}
