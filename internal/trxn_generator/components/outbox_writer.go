package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/aivl-fintrxn-generator/internal/domain/outbox"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
	"github.com/aivl-fintrxn-generator/internal/generator"
	"github.com/aivl-fintrxn-generator/internal/platform/persistence"
)

// OutboxPostingWriter stages derived postings in the Postgres outbox. The
// poller hands them to the journal later; staging is the durability point.
type OutboxPostingWriter struct {
	pgDB       *persistence.PostgresDB
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxPostingWriter(pgDB *persistence.PostgresDB, outboxRepo outbox.Repository, logger *slog.Logger) generator.PostingWriter {
	return &OutboxPostingWriter{
		pgDB:       pgDB,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Write stages all postings of one case in a single database transaction,
// so a rebooking's double-entry pair is never staged half-way.
func (w *OutboxPostingWriter) Write(ctx context.Context, postings []*posting.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	return w.pgDB.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := w.outboxRepo.WithTx(tx)
		for _, p := range postings {
			message, err := outbox.NewMessage(p)
			if err != nil {
				return fmt.Errorf("failed to build outbox message for posting %s: %w", p.ID.String(), err)
			}
			if err := repo.Create(ctx, message); err != nil {
				return fmt.Errorf("failed to stage posting %s: %w", p.ID.String(), err)
			}
			w.logger.Debug("Staged posting in outbox",
				"posting_id", p.ID.String(),
				"subject_id", p.SubjectID,
				"case", string(p.Case),
			)
		}
		return nil
	})
}
