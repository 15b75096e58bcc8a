package paymentControllers

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arcadia-soft/gamestore-api/models"
)

// spyNotifier implements notify.Notifier for testing
type spyNotifier struct {
	confirmations int
	links         int
	lastLinkCode  string
	fail          bool
}

func (s *spyNotifier) SendOrderConfirmation(_ models.Customer, _ models.Order) error {
	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.confirmations++
	return nil
}

func (s *spyNotifier) SendPaymentLink(_ models.Customer, _ models.Order, code string) error {
	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.links++
	s.lastLinkCode = code
	return nil
}

func setupPaymentTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Customer{},
		&models.Order{}, &models.OrderItem{},
	))
	return db
}

func seedPendingOrder(t *testing.T, db *gorm.DB) models.Order {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        "buyer@example.com",
		PasswordHash: "x",
		Name:         "Test Buyer",
	}
	require.NoError(t, db.Create(&user).Error)
	customer := models.Customer{UserID: user.ID}
	require.NoError(t, db.Create(&customer).Error)

	order := models.Order{
		CustomerID:    customer.ID,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: models.PaymentMethodNone,
		TotalAmount:   decimal.RequireFromString("20.00"),
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func reload(t *testing.T, db *gorm.DB, orderID uint) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", orderID).Error)
	return order
}

func TestInitiate_CardCompletesImmediately(t *testing.T) {
	db := setupPaymentTest(t)
	spy := &spyNotifier{}
	order := seedPendingOrder(t, db)

	paid, err := Initiate(db, spy, order.ID, models.PaymentMethodCard)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusProcessing, paid.Status)
	assert.Equal(t, models.PaymentStatusCompleted, paid.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCard, paid.PaymentMethod)
	assert.Len(t, paid.PaymentCode, 8)
	assert.Equal(t, 1, spy.confirmations)

	stored := reload(t, db, order.ID)
	assert.Equal(t, models.PaymentStatusCompleted, stored.PaymentStatus)
	assert.Equal(t, paid.PaymentCode, stored.PaymentCode)
}

func TestInitiate_RejectsProcessedOrder(t *testing.T) {
	db := setupPaymentTest(t)
	spy := &spyNotifier{}
	order := seedPendingOrder(t, db)

	_, err := Initiate(db, spy, order.ID, models.PaymentMethodCard)
	require.NoError(t, err)

	_, err = Initiate(db, spy, order.ID, models.PaymentMethodCard)
	assert.ErrorIs(t, err, models.ErrAlreadyProcessed)
	assert.Equal(t, 1, spy.confirmations)
}

func TestInitiate_EmailStaysPending(t *testing.T) {
	db := setupPaymentTest(t)
	spy := &spyNotifier{}
	order := seedPendingOrder(t, db)

	pending, err := Initiate(db, spy, order.ID, models.PaymentMethodEmail)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, pending.Status)
	assert.Equal(t, models.PaymentStatusPending, pending.PaymentStatus)
	assert.Equal(t, models.PaymentMethodEmail, pending.PaymentMethod)
	assert.Len(t, pending.PaymentCode, 8)
	assert.Equal(t, 1, spy.links)
	assert.Equal(t, pending.PaymentCode, spy.lastLinkCode)
}

func TestInitiate_EmailRetryKeepsCode(t *testing.T) {
	db := setupPaymentTest(t)
	spy := &spyNotifier{}
	order := seedPendingOrder(t, db)

	first, err := Initiate(db, spy, order.ID, models.PaymentMethodEmail)
	require.NoError(t, err)
	second, err := Initiate(db, spy, order.ID, models.PaymentMethodEmail)
	require.NoError(t, err)

	assert.Equal(t, first.PaymentCode, second.PaymentCode, "code must be stable across retries")
	assert.Equal(t, 2, spy.links)
}

func TestInitiate_UnknownOrder(t *testing.T) {
	db := setupPaymentTest(t)

	_, err := Initiate(db, &spyNotifier{}, 404, models.PaymentMethodCard)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestInitiate_NotifierFailureDoesNotRollBack(t *testing.T) {
	db := setupPaymentTest(t)
	spy := &spyNotifier{fail: true}
	order := seedPendingOrder(t, db)

	_, err := Initiate(db, spy, order.ID, models.PaymentMethodCard)
	require.NoError(t, err, "a failed notification must not fail the payment")

	stored := reload(t, db, order.ID)
	assert.Equal(t, models.PaymentStatusCompleted, stored.PaymentStatus)
}

func TestConfirm_Flow(t *testing.T) {
	db := setupPaymentTest(t)
	spy := &spyNotifier{}
	order := seedPendingOrder(t, db)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"payment_method": models.PaymentMethodEmail,
		"payment_code":   "AB12CD34",
	}).Error)

	// wrong code denies the transition and changes nothing
	_, err := Confirm(db, spy, order.ID, "WRONG")
	assert.ErrorIs(t, err, models.ErrInvalidCode)
	assert.Equal(t, models.PaymentStatusPending, reload(t, db, order.ID).PaymentStatus)
	assert.Equal(t, 0, spy.confirmations)

	// correct code completes the payment
	confirmed, err := Confirm(db, spy, order.ID, "AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, confirmed.Status)
	assert.Equal(t, models.PaymentStatusCompleted, confirmed.PaymentStatus)
	assert.Equal(t, 1, spy.confirmations)
}

func TestConfirm_IsIdempotent(t *testing.T) {
	db := setupPaymentTest(t)
	spy := &spyNotifier{}
	order := seedPendingOrder(t, db)

	initiated, err := Initiate(db, spy, order.ID, models.PaymentMethodEmail)
	require.NoError(t, err)

	_, err = Confirm(db, spy, order.ID, initiated.PaymentCode)
	require.NoError(t, err)
	again, err := Confirm(db, spy, order.ID, initiated.PaymentCode)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCompleted, again.PaymentStatus)
	assert.Equal(t, 1, spy.confirmations, "repeat confirmation must not re-notify")
}

func TestConfirm_MissingCodeNeverMatches(t *testing.T) {
	db := setupPaymentTest(t)
	order := seedPendingOrder(t, db)

	_, err := Confirm(db, &spyNotifier{}, order.ID, "")
	assert.ErrorIs(t, err, models.ErrInvalidCode)
}

func TestConfirm_RejectsCancelledOrder(t *testing.T) {
	db := setupPaymentTest(t)
	spy := &spyNotifier{}
	order := seedPendingOrder(t, db)

	initiated, err := Initiate(db, spy, order.ID, models.PaymentMethodEmail)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusCancelled).Error)

	// the emailed link must not revive a cancelled order
	_, err = Confirm(db, spy, order.ID, initiated.PaymentCode)
	assert.ErrorIs(t, err, models.ErrAlreadyProcessed)

	stored := reload(t, db, order.ID)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	assert.Equal(t, 0, spy.confirmations)
}
