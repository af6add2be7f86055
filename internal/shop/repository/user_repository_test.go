package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/pkg/database"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := database.NewGorm(sqlDB)
	require.NoError(t, err)
	return db, mock
}

var userColumns = []string{"id", "name", "email", "password_hash", "reset_token", "cart_count", "cart_value", "version", "created_at", "updated_at"}

func TestGormUserRepository_FindByID(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u1", "Ann", "ann@example.com", "hash", "", 3, "25.50", 7, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cart_lines" WHERE user_id = $1 ORDER BY position`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "product_id", "position", "product_name", "price", "quantity"}).
			AddRow("u1", "p1", 0, "Mug", "10.00", 2).
			AddRow("u1", "p2", 1, "Pen", "5.50", 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wishlist_lines" WHERE user_id = $1 ORDER BY position`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "product_id", "position", "product_name", "price"}).
			AddRow("u1", "p3", 0, "Lamp", "30.00"))

	user, err := repo.FindByID(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(7), user.Version)
	assert.Equal(t, 3, user.Cart.Count())
	assert.True(t, decimal.RequireFromString("25.5").Equal(user.Cart.Value()))
	assert.Equal(t, 1, user.Wishlist.Count())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_Save(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormUserRepository(db)

	user := &domain.User{ID: "u1", Name: "Ann", Email: "ann@example.com", Version: 4}
	_, err := user.Cart.Add(domain.Product{ID: "p1", Name: "Mug", Price: decimal.NewFromInt(10)}, 1)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cart_lines" WHERE user_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "cart_lines"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "wishlist_lines" WHERE user_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), user))
	assert.Equal(t, int64(5), user.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_Save_StaleVersion(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormUserRepository(db)

	user := &domain.User{ID: "u1", Version: 4}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), user)
	assert.True(t, errors.Is(err, domain.ErrStaleVersion))
	assert.Equal(t, int64(4), user.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepository_Save_RollsBackOnLineFailure(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormUserRepository(db)

	user := &domain.User{ID: "u1", Version: 1}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cart_lines"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), user)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrStaleVersion))
	assert.Equal(t, int64(1), user.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_FindByCategory(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE category ILIKE $1`)).
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "image_ref", "description", "category", "created_at"}).
			AddRow("p1", "Shirt", "19.99", "/uploads/a.png", "cotton", "Apparel 50%_off", now))

	products, err := repo.FindByCategory(context.Background(), "50%", true)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Shirt", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
