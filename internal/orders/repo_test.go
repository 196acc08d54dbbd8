package orders

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	"github.com/karimfahmy/sofra-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ordersDDL := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  order_date TEXT NOT NULL,
  daily_number INTEGER NOT NULL,
  display_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'processing',
  item_count INTEGER NOT NULL DEFAULT 0,
  subtotal TEXT NOT NULL DEFAULT '0',
  discount TEXT NOT NULL DEFAULT '0',
  total TEXT NOT NULL DEFAULT '0',
  customer_name TEXT NOT NULL DEFAULT '',
  customer_phone TEXT NOT NULL DEFAULT '',
  location_id TEXT,
  custom_address TEXT,
  lat REAL,
  lng REAL,
  delivery_label TEXT NOT NULL DEFAULT '',
  is_closed INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (order_date, daily_number)
);`
	orderItemsDDL := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  menu_item_id TEXT,
  name_en TEXT NOT NULL,
  name_ar TEXT NOT NULL,
  base_price TEXT NOT NULL,
  addons_price TEXT NOT NULL DEFAULT '0',
  line_total TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  note TEXT,
  display_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	orderItemChoicesDDL := `
CREATE TABLE IF NOT EXISTS order_item_choices (
  id TEXT PRIMARY KEY,
  order_item_id TEXT NOT NULL,
  option_id TEXT,
  group_name_en TEXT NOT NULL,
  group_name_ar TEXT NOT NULL,
  option_name_en TEXT NOT NULL,
  option_name_ar TEXT NOT NULL,
  extra_price TEXT NOT NULL DEFAULT '0',
  created_at DATETIME
);`
	orderEventsDDL := `
CREATE TABLE IF NOT EXISTS order_events (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  actor_type TEXT NOT NULL,
  actor_id TEXT,
  from_status TEXT,
  to_status TEXT NOT NULL,
  metadata TEXT,
  created_at DATETIME
);`

	for _, ddl := range []string{ordersDDL, orderItemsDDL, orderItemChoicesDDL, orderEventsDDL} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func insertOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, dailyNumber int, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderDate:   "2025-08-10",
		DailyNumber: dailyNumber,
		DisplayID:   fmt.Sprintf("OR%04d", dailyNumber),
		Status:      status,
		Subtotal:    decimal.RequireFromString("120"),
		Total:       decimal.RequireFromString("120"),
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestFindByIDPreloadsLinesInDisplayOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := insertOrder(t, db, uuid.New(), 1, enums.OrderStatusProcessing)
	second := models.OrderItem{
		ID: uuid.New(), OrderID: order.ID,
		NameEn: "Molokhia", NameAr: "ملوخية",
		BasePrice: decimal.RequireFromString("60"), AddonsPrice: decimal.Zero,
		LineTotal: decimal.RequireFromString("60"), Quantity: 1, DisplayOrder: 1,
	}
	first := models.OrderItem{
		ID: uuid.New(), OrderID: order.ID,
		NameEn: "Koshary", NameAr: "كشري",
		BasePrice: decimal.RequireFromString("60"), AddonsPrice: decimal.Zero,
		LineTotal: decimal.RequireFromString("60"), Quantity: 1, DisplayOrder: 0,
	}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&first).Error)
	choice := models.OrderItemChoice{
		ID: uuid.New(), OrderItemID: first.ID,
		GroupNameEn: "Extras", GroupNameAr: "إضافات",
		OptionNameEn: "Extra sauce", OptionNameAr: "صلصة إضافية",
		ExtraPrice: decimal.RequireFromString("20"),
	}
	require.NoError(t, db.Create(&choice).Error)

	got, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Koshary", got.Items[0].NameEn)
	assert.Equal(t, "Molokhia", got.Items[1].NameEn)
	require.Len(t, got.Items[0].Choices, 1)
	assert.Equal(t, "Extra sauce", got.Items[0].Choices[0].OptionNameEn)
}

func TestFindByIDAndUserRejectsForeignOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	owner := uuid.New()
	order := insertOrder(t, db, owner, 1, enums.OrderStatusProcessing)

	got, err := repo.FindByIDAndUser(context.Background(), order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = repo.FindByIDAndUser(context.Background(), order.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByUserFiltersAndPages(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	insertOrder(t, db, userID, 1, enums.OrderStatusProcessing)
	insertOrder(t, db, userID, 2, enums.OrderStatusDelivered)
	insertOrder(t, db, userID, 3, enums.OrderStatusProcessing)
	insertOrder(t, db, uuid.New(), 4, enums.OrderStatusProcessing)

	all, err := repo.ListByUser(context.Background(), userID, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	delivered := enums.OrderStatusDelivered
	filtered, err := repo.ListByUser(context.Background(), userID, ListFilter{Status: &delivered})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "OR0002", filtered[0].DisplayID)

	paged, err := repo.ListByUser(context.Background(), userID, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 2)
}

func TestUpdateStatusPersistsClosedFlag(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := insertOrder(t, db, uuid.New(), 1, enums.OrderStatusOutForDelivery)
	require.NoError(t, repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusDelivered, true))

	got, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, got.Status)
	assert.True(t, got.IsClosed)
}

func TestInsertEventAppends(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := insertOrder(t, db, uuid.New(), 1, enums.OrderStatusProcessing)
	from := "processing"
	event := &models.OrderEvent{
		ID:         uuid.New(),
		OrderID:    order.ID,
		ActorType:  enums.ActorAdmin,
		FromStatus: &from,
		ToStatus:   enums.OrderStatusAwaitingPayment,
	}
	require.NoError(t, repo.InsertEvent(context.Background(), event))

	var count int64
	require.NoError(t, db.Model(&models.OrderEvent{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
