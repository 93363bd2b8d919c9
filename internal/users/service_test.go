package users

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

func TestRegister(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "people"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	image := "https://cdn.test/users/1700000000000-avatar.jpg"
	person, err := service.Register(context.Background(), "Alice Example", &image)
	assert.NoError(t, err)
	assert.NotNil(t, person)
	assert.NotEqual(t, uuid.Nil, person.ID)
	assert.Equal(t, "Alice Example", person.Name)
	assert.Equal(t, image, *person.ProfileImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterWithoutProfileImage(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "people"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	person, err := service.Register(context.Background(), "Bob Example", nil)
	assert.NoError(t, err)
	assert.Nil(t, person.ProfileImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "people" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "profile_image"}).
			AddRow(id, time.Now(), time.Now(), "Alice Example", nil))

	person, err := service.Get(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, id, person.ID)
	assert.Equal(t, "Alice Example", person.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "people" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "profile_image"}))

	person, err := service.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, person)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "people"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "people" ORDER BY created_at LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "profile_image"}).
			AddRow(uuid.New(), time.Now(), time.Now(), "Alice Example", nil).
			AddRow(uuid.New(), time.Now(), time.Now(), "Bob Example", nil))

	people, total, err := service.List(context.Background(), 0, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, people, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileImage(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "people" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "profile_image"}).
			AddRow(id, time.Now(), time.Now(), "Alice Example", nil))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "people" SET`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	url := "https://cdn.test/users/1700000000000-new_avatar.jpg"
	person, err := service.UpdateProfileImage(context.Background(), id, url)
	assert.NoError(t, err)
	assert.Equal(t, url, *person.ProfileImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileImageNotFound(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	service := NewService(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "people" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := service.UpdateProfileImage(context.Background(), id, "https://cdn.test/x.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
