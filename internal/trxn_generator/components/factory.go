package components

import (
	"log/slog"

	"github.com/aivl-fintrxn-generator/internal/config"
	"github.com/aivl-fintrxn-generator/internal/domain/account"
	"github.com/aivl-fintrxn-generator/internal/domain/campaign"
	"github.com/aivl-fintrxn-generator/internal/domain/outbox"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
	"github.com/aivl-fintrxn-generator/internal/generator"
	"github.com/aivl-fintrxn-generator/internal/platform/persistence"
	"github.com/aivl-fintrxn-generator/internal/trxn_generator/service"
)

// CreateProcessingService wires up the generation engine and its
// dependencies behind the processing service.
func CreateProcessingService(
	pgDB *persistence.PostgresDB,
	accountRepo account.Repository,
	campaignRepo campaign.Repository,
	outboxRepo outbox.Repository,
	journalRepo posting.Repository,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	policy := generator.NewPolicy(&cfg.Policy, journalRepo, logger)
	resolver := generator.NewAccountResolver(accountRepo, campaignRepo, policy, logger)
	classifier := generator.NewCaseClassifier(policy, logger)
	deriver := generator.NewTransactionDeriver(resolver, policy, logger)
	writer := NewOutboxPostingWriter(pgDB, outboxRepo, logger)

	gen := generator.NewGenerator(classifier, deriver, writer, logger)

	baseService := service.NewProcessingService(gen, logger)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
