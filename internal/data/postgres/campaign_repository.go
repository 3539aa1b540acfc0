package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/aivl-fintrxn-generator/internal/domain/campaign"
	"github.com/aivl-fintrxn-generator/internal/platform/persistence"
)

// CampaignRepository implements the campaign.Repository interface for PostgreSQL
type CampaignRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCampaignRepository creates a new PostgreSQL campaign repository
func NewCampaignRepository(logger *slog.Logger, db *persistence.PostgresDB) campaign.Repository {
	return &CampaignRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves a campaign with its accounting-code configuration.
// Returns ErrCampaignNotFound when the campaign does not exist.
func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*campaign.Campaign, error) {
	query := `
		SELECT id, title, acquisition_year, acquisition_code, following_years_code, profit_loss_code, created_at
		FROM campaigns
		WHERE id = $1
	`

	var c campaign.Campaign
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Title,
		&c.Codes.AcquisitionYear,
		&c.Codes.Acquisition,
		&c.Codes.FollowingYears,
		&c.ProfitLossCode,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, campaign.ErrCampaignNotFound{ID: id}
		}
		r.logger.Error("Failed to get campaign", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return &c, nil
}
