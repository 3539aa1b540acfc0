package generator

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/aivl-fintrxn-generator/internal/domain/account"
	"github.com/aivl-fintrxn-generator/internal/domain/campaign"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByIBAN(ctx context.Context, iban string) (*account.FinancialAccount, error) {
	args := m.Called(ctx, iban)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.FinancialAccount), args.Error(1)
}

func (m *MockAccountRepository) FindByAccountingCode(ctx context.Context, code string) (*account.FinancialAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.FinancialAccount), args.Error(1)
}

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id int64) (*campaign.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*campaign.Campaign), args.Error(1)
}

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Create(ctx context.Context, p *posting.Posting) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockJournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*posting.Posting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posting.Posting), args.Error(1)
}

func (m *MockJournalRepository) GetBySubjectID(ctx context.Context, subjectID int64, limit, offset int) ([]*posting.Posting, error) {
	args := m.Called(ctx, subjectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*posting.Posting), args.Error(1)
}

func (m *MockJournalRepository) CountBySubjectID(ctx context.Context, subjectID int64) (int64, error) {
	args := m.Called(ctx, subjectID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPostingWriter struct {
	mock.Mock
}

func (m *MockPostingWriter) Write(ctx context.Context, postings []*posting.Posting) error {
	args := m.Called(ctx, postings)
	return args.Error(0)
}
