package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aivl-fintrxn-generator/internal/domain/account"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

const accountColumnsQuery = `
		SELECT id, name, accounting_code, account_type_code, is_active, created_at
		FROM financial_accounts
		WHERE name = \$1 AND is_active = TRUE
	`

func accountColumns() []string {
	return []string{"id", "name", "accounting_code", "account_type_code", "is_active", "created_at"}
}

func TestAccountRepository_FindByIBAN(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(accountColumns()).
			AddRow(int64(11), "NL02ABNA0123456789", "1200", "asset", true, now)
		mock.ExpectQuery(accountColumnsQuery).WithArgs("NL02ABNA0123456789").WillReturnRows(rows)

		acc, err := repo.FindByIBAN(ctx, "NL02ABNA0123456789")
		assert.NoError(t, err)
		assert.Equal(t, int64(11), acc.ID)
		assert.Equal(t, "NL02ABNA0123456789", acc.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(accountColumnsQuery).WithArgs("NL99MISSING").
			WillReturnRows(pgxmock.NewRows(accountColumns()))

		acc, err := repo.FindByIBAN(ctx, "NL99MISSING")
		assert.Nil(t, acc)
		var notFound account.ErrAccountNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.Equal(t, "iban", notFound.Lookup)
		assert.Equal(t, "NL99MISSING", notFound.Value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ambiguous match", func(t *testing.T) {
		rows := pgxmock.NewRows(accountColumns()).
			AddRow(int64(11), "NL02ABNA0123456789", "1200", "asset", true, now).
			AddRow(int64(12), "NL02ABNA0123456789", "1201", "asset", true, now)
		mock.ExpectQuery(accountColumnsQuery).WithArgs("NL02ABNA0123456789").WillReturnRows(rows)

		acc, err := repo.FindByIBAN(ctx, "NL02ABNA0123456789")
		assert.Nil(t, acc)
		var ambiguous account.ErrAmbiguousAccount
		assert.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, 2, ambiguous.Matches)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(accountColumnsQuery).WithArgs("NL02ABNA0123456789").WillReturnError(expectedErr)

		acc, err := repo.FindByIBAN(ctx, "NL02ABNA0123456789")
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_FindByAccountingCode(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}

	query := `
		SELECT id, name, accounting_code, account_type_code, is_active, created_at
		FROM financial_accounts
		WHERE accounting_code = \$1 AND is_active = TRUE
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(accountColumns()).
			AddRow(int64(21), "Campaign 4100", "4100", "revenue", true, time.Now())
		mock.ExpectQuery(query).WithArgs("4100").WillReturnRows(rows)

		acc, err := repo.FindByAccountingCode(ctx, "4100")
		assert.NoError(t, err)
		assert.Equal(t, int64(21), acc.ID)
		assert.Equal(t, "4100", acc.AccountingCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("9999").
			WillReturnRows(pgxmock.NewRows(accountColumns()))

		acc, err := repo.FindByAccountingCode(ctx, "9999")
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{Lookup: "accounting_code", Value: "9999"})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
