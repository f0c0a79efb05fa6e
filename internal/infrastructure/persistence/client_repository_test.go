package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockClientRepository creates a GormClientRepository with a mocked SQL connection
func newMockClientRepository(t *testing.T) (*GormClientRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormClientRepository(gormDB), mock, mockDB
}

func TestGormClientRepository_FindByIDForUser(t *testing.T) {
	t.Run("finds client owned by user", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_id", "name", "email", "company", "phone"}).
			AddRow(clientID, userID, "Acme Corp", "billing@acme.test", "Acme", "")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE user_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(userID, clientID, 1).
			WillReturnRows(rows)

		client, err := repo.FindByIDForUser(context.Background(), userID, clientID)

		assert.NoError(t, err)
		require.NotNil(t, client)
		assert.Equal(t, clientID, client.ID)
		assert.Equal(t, "Acme Corp", client.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		userID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE user_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(userID, clientID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		client, err := repo.FindByIDForUser(context.Background(), userID, clientID)

		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Delete(t *testing.T) {
	t.Run("deleting a foreign client touches no rows", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		userID := uuid.New()

		mock.ExpectExec(`DELETE FROM "clients" WHERE user_id = \$1 AND id = \$2`).
			WithArgs(userID, clientID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), userID, clientID)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
