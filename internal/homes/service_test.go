package homes

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func TestCreate(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "homes"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	images := []string{
		"https://cdn.test/homes/1700000000000-front.jpg",
		"https://cdn.test/homes/1700000000000-back.jpg",
	}
	home, err := service.Create(context.Background(), ownerID, "12 Harbour Lane", images)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, home.ID)
	assert.Equal(t, ownerID, home.OwnerID)
	assert.Equal(t, "12 Harbour Lane", home.Address)
	assert.Equal(t, images, home.Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithoutImages(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "homes"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	home, err := service.Create(context.Background(), uuid.New(), "12 Harbour Lane", nil)
	assert.NoError(t, err)
	assert.Empty(t, home.Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)
	id := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "homes" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "owner_id", "address", "images"}).
			AddRow(id, time.Now(), time.Now(), ownerID, "12 Harbour Lane", `["https://cdn.test/homes/a.jpg"]`))

	home, err := service.Get(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, id, home.ID)
	assert.Equal(t, "12 Harbour Lane", home.Address)
	assert.Equal(t, []string{"https://cdn.test/homes/a.jpg"}, home.Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "homes" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	home, err := service.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, home)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "homes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "homes" ORDER BY created_at LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "owner_id", "address", "images"}).
			AddRow(uuid.New(), time.Now(), time.Now(), uuid.New(), "12 Harbour Lane", `[]`))

	homes, total, err := service.List(context.Background(), 0, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, homes, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddImages(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "homes" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "owner_id", "address", "images"}).
			AddRow(id, time.Now(), time.Now(), uuid.New(), "12 Harbour Lane", `["https://cdn.test/homes/a.jpg"]`))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "homes" SET`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	home, err := service.AddImages(context.Background(), id, []string{"https://cdn.test/homes/b.jpg"})
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.test/homes/a.jpg",
		"https://cdn.test/homes/b.jpg",
	}, home.Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddImagesNotFound(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "homes" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := service.AddImages(context.Background(), id, []string{"https://cdn.test/homes/b.jpg"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
