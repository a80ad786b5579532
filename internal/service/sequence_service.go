package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// codeTables maps each code prefix to the module table scanned when a
// counter is seeded for the first time. Fixed mapping, never caller input.
var codeTables = map[string]string{
	domain.CodePrefixWorkOrder:               "work_orders",
	domain.CodePrefixSalesLead:               "sales_leads",
	domain.CodePrefixTechnicalRecommendation: "technical_recommendations",
	domain.CodePrefixRFQ:                     "rfqs",
	domain.CodePrefixAccount:                 "accounts",
	domain.CodePrefixQuotation:               "quotations",
}

// SequenceService generates the human-readable transaction codes every
// module stamps on creation.
//
// Format: {PREFIX}-{YEAR}-{SEQUENCE}
// Example: WO-2025-0007, RFQ-2025-0012
type SequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
}

func NewSequenceService(repo *repository.NumberSequenceRepository, logger *zap.Logger) *SequenceService {
	return &SequenceService{repo: repo, logger: logger}
}

// NextCode generates the next code for a module in the current calendar
// year. The underlying counter increment is atomic; callers that insert the
// code into a unique column should still wrap the insert in
// WithConflictRetry so a duplicate surfaces as a retried ErrConflict rather
// than a generic failure.
func (s *SequenceService) NextCode(ctx context.Context, kind domain.StageKind) (string, error) {
	prefix := kind.CodePrefix()
	table, ok := codeTables[prefix]
	if !ok {
		return "", fmt.Errorf("%w: no code table for prefix %s", ErrInvalidInput, prefix)
	}

	year := time.Now().Year()
	next, err := s.repo.NextNumber(ctx, prefix, year, table)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("prefix", prefix),
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s code: %w", prefix, err)
	}

	code := fmt.Sprintf("%s-%d-%04d", prefix, year, next)

	s.logger.Info("generated transaction code",
		zap.String("code", code),
		zap.Int("sequence", next))

	return code, nil
}

// CurrentSequence returns the counter value for a module/year without
// incrementing it. Returns 0 if no counter exists yet.
func (s *SequenceService) CurrentSequence(ctx context.Context, kind domain.StageKind, year int) (int, error) {
	return s.repo.GetCurrentSequence(ctx, kind.CodePrefix(), year)
}

// WithConflictRetry runs fn up to maxAttempts times, backing off between
// attempts. Only duplicate-key failures are retried; they are translated to
// ErrConflict when the attempts are exhausted. Everything else propagates
// unchanged.
func WithConflictRetry(ctx context.Context, logger *zap.Logger, maxAttempts int, fn func() error) error {
	backoff := 50 * time.Millisecond

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) && !errors.Is(err, ErrConflict) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		logger.Warn("write conflicted, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%w: %v", ErrConflict, err)
}
