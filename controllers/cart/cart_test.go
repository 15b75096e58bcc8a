package cartControllers

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arcadia-soft/gamestore-api/models"
	"github.com/arcadia-soft/gamestore-api/session"
)

func setupCartTest(t *testing.T) (*gorm.DB, *session.Store) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Genre{}, &models.Tag{}, &models.Game{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return db, session.NewStore(client)
}

func seedGame(t *testing.T, db *gorm.DB, title, price string, stock int) models.Game {
	t.Helper()
	game := models.Game{
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Quantity: stock,
		GenreID:  1,
	}
	require.NoError(t, db.Create(&game).Error)
	return game
}

func TestAddItem_InsertsAndIncrements(t *testing.T) {
	db, carts := setupCartTest(t)
	ctx := context.Background()
	game := seedGame(t, db, "Starfall", "29.99", 10)

	first, err := AddItem(ctx, db, carts, "sess", game.ID, 2)
	require.NoError(t, err)
	addedAt := first.Lines[game.ID].AddedAt

	second, err := AddItem(ctx, db, carts, "sess", game.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, second.Lines[game.ID].Quantity)
	assert.True(t, second.Lines[game.ID].AddedAt.Equal(addedAt), "AddedAt must not change on increment")
}

func TestAddItem_RejectsBeyondStock(t *testing.T) {
	db, carts := setupCartTest(t)
	ctx := context.Background()
	game := seedGame(t, db, "Starfall", "29.99", 3)

	_, err := AddItem(ctx, db, carts, "sess", game.ID, 2)
	require.NoError(t, err)

	_, err = AddItem(ctx, db, carts, "sess", game.ID, 2)
	var oos *models.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, 3, oos.Available)

	// rejected addition leaves the cart untouched
	cart, err := carts.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Lines[game.ID].Quantity)
}

func TestAddItem_UnknownGame(t *testing.T) {
	db, carts := setupCartTest(t)

	_, err := AddItem(context.Background(), db, carts, "sess", 404, 1)
	assert.ErrorIs(t, err, models.ErrGameNotFound)
}

func TestSetQuantity_SetsExactly(t *testing.T) {
	db, carts := setupCartTest(t)
	ctx := context.Background()
	game := seedGame(t, db, "Starfall", "29.99", 10)

	_, err := AddItem(ctx, db, carts, "sess", game.ID, 2)
	require.NoError(t, err)

	clamped, err := SetQuantity(ctx, db, carts, "sess", game.ID, 7)
	require.NoError(t, err)
	assert.False(t, clamped)

	cart, _ := carts.Load(ctx, "sess")
	assert.Equal(t, 7, cart.Lines[game.ID].Quantity)
}

func TestSetQuantity_ClampsToStock(t *testing.T) {
	db, carts := setupCartTest(t)
	ctx := context.Background()
	game := seedGame(t, db, "Starfall", "29.99", 4)

	clamped, err := SetQuantity(ctx, db, carts, "sess", game.ID, 9)
	require.NoError(t, err)
	assert.True(t, clamped)

	cart, _ := carts.Load(ctx, "sess")
	assert.Equal(t, 4, cart.Lines[game.ID].Quantity)
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	db, carts := setupCartTest(t)
	ctx := context.Background()
	game := seedGame(t, db, "Starfall", "29.99", 10)

	_, err := AddItem(ctx, db, carts, "sess", game.ID, 2)
	require.NoError(t, err)

	clamped, err := SetQuantity(ctx, db, carts, "sess", game.ID, 0)
	require.NoError(t, err)
	assert.False(t, clamped)

	cart, _ := carts.Load(ctx, "sess")
	assert.True(t, cart.IsEmpty())

	// removing an absent entry is a no-op, not an error
	_, err = SetQuantity(ctx, db, carts, "sess", game.ID, -1)
	assert.NoError(t, err)
}

func TestRemoveItem_AbsentIsNoOp(t *testing.T) {
	db, carts := setupCartTest(t)
	_ = db

	err := RemoveItem(context.Background(), carts, "sess", 42)
	assert.NoError(t, err)
}

func TestSnapshot_ComputesTotals(t *testing.T) {
	db, carts := setupCartTest(t)
	ctx := context.Background()
	first := seedGame(t, db, "Starfall", "10.00", 5)
	second := seedGame(t, db, "Moonrise", "5.50", 5)

	_, err := AddItem(ctx, db, carts, "sess", first.ID, 2)
	require.NoError(t, err)
	_, err = AddItem(ctx, db, carts, "sess", second.ID, 1)
	require.NoError(t, err)

	summary, err := Snapshot(ctx, db, carts, "sess")
	require.NoError(t, err)

	require.Len(t, summary.Items, 2)
	assert.Equal(t, "Starfall", summary.Items[0].Title, "lines ordered by time added")
	assert.True(t, summary.Items[0].LineTotal.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, 2, summary.ItemCount)
	assert.Empty(t, summary.Warnings)
}

func TestSnapshot_DropsVanishedGame(t *testing.T) {
	db, carts := setupCartTest(t)
	ctx := context.Background()
	game := seedGame(t, db, "Starfall", "10.00", 5)

	_, err := AddItem(ctx, db, carts, "sess", game.ID, 2)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.Game{}, game.ID).Error)

	summary, err := Snapshot(ctx, db, carts, "sess")
	require.NoError(t, err)
	assert.Empty(t, summary.Items)

	// the drop is persisted, not just filtered from the view
	cart, _ := carts.Load(ctx, "sess")
	assert.True(t, cart.IsEmpty())
}

func TestSnapshot_ClampsAndIsIdempotent(t *testing.T) {
	db, carts := setupCartTest(t)
	ctx := context.Background()
	game := seedGame(t, db, "Starfall", "10.00", 5)

	_, err := AddItem(ctx, db, carts, "sess", game.ID, 5)
	require.NoError(t, err)

	// stock shrinks behind the cart's back
	require.NoError(t, db.Model(&models.Game{}).Where("id = ?", game.ID).
		UpdateColumn("quantity", 3).Error)

	first, err := Snapshot(ctx, db, carts, "sess")
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 3, first.Items[0].Quantity)
	assert.NotEmpty(t, first.Warnings)
	assert.True(t, first.Total.Equal(decimal.RequireFromString("30.00")))

	// with no further stock change the second snapshot reports nothing
	second, err := Snapshot(ctx, db, carts, "sess")
	require.NoError(t, err)
	assert.True(t, second.Total.Equal(first.Total))
	assert.Equal(t, first.Items, second.Items)
	assert.Empty(t, second.Warnings)
}
