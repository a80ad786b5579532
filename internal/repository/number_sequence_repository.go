package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/venturis/worktrack-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequenceRepository hands out transaction numbers per prefix and
// calendar year. The counter row is locked for the duration of the
// increment, so two concurrent creations can never read the same last
// number — the race the old scan-then-insert scheme suffered from.
type NumberSequenceRepository struct {
	db *gorm.DB
}

func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// NextNumber atomically retrieves and increments the counter for a
// prefix/year. When no counter row exists yet, it is seeded from the highest
// existing PREFIX-YYYY-NNNN suffix in codeTable, so numbering continues from
// legacy rows created before the counter existed. Codes from other years
// never influence the seed.
func (r *NumberSequenceRepository) NextNumber(ctx context.Context, prefix string, year int, codeTable string) (int, error) {
	var nextSeq int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.NumberSequence

		query := tx.Where("prefix = ? AND year = ?", prefix, year)
		// sqlite has no row locks; its single-writer model covers that path
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		result := query.First(&seq)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			last, err := maxExistingSuffix(tx, codeTable, prefix, year)
			if err != nil {
				return err
			}
			nextSeq = last + 1
			seq = domain.NumberSequence{
				Prefix:       prefix,
				Year:         year,
				LastSequence: nextSeq,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
		} else if result.Error != nil {
			return fmt.Errorf("failed to get number sequence: %w", result.Error)
		} else {
			nextSeq = seq.LastSequence + 1
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"last_sequence": nextSeq,
				"updated_at":    time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update number sequence: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return nextSeq, nil
}

// maxExistingSuffix scans codeTable for the greatest numeric suffix among
// codes matching PREFIX-YYYY-%. Unparsable suffixes count as 0. codeTable is
// always one of the fixed module tables, never caller input.
func maxExistingSuffix(tx *gorm.DB, codeTable, prefix string, year int) (int, error) {
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)

	var codes []string
	err := tx.Table(codeTable).
		Where("code LIKE ?", pattern).
		Pluck("code", &codes).Error
	if err != nil {
		return 0, fmt.Errorf("failed to scan existing codes in %s: %w", codeTable, err)
	}

	max := 0
	for _, code := range codes {
		idx := strings.LastIndex(code, "-")
		if idx < 0 || idx == len(code)-1 {
			continue
		}
		n, err := strconv.Atoi(code[idx+1:])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// GetCurrentSequence retrieves the current counter value without
// incrementing. Returns 0 if no counter exists for the prefix/year.
func (r *NumberSequenceRepository) GetCurrentSequence(ctx context.Context, prefix string, year int) (int, error) {
	var seq domain.NumberSequence
	result := r.db.WithContext(ctx).
		Where("prefix = ? AND year = ?", prefix, year).
		First(&seq)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", result.Error)
	}

	return seq.LastSequence, nil
}

// ListSequences returns all counters (useful for debugging/admin)
func (r *NumberSequenceRepository) ListSequences(ctx context.Context) ([]domain.NumberSequence, error) {
	var sequences []domain.NumberSequence
	err := r.db.WithContext(ctx).
		Order("prefix ASC, year DESC").
		Find(&sequences).Error
	return sequences, err
}
