package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/mapper"
	"github.com/venturis/worktrack-api/internal/repository"
	"go.uber.org/zap"
)

// AccountService manages account enrollment (NAEF). An account is created
// outside any work order, so no stage event is appended here; the NAEF stage
// enters the log once a work order referencing the account reaches it.
type AccountService struct {
	accounts  *repository.AccountRepository
	sequences *SequenceService
	logger    *zap.Logger
}

func NewAccountService(accounts *repository.AccountRepository, sequences *SequenceService, logger *zap.Logger) *AccountService {
	return &AccountService{accounts: accounts, sequences: sequences, logger: logger}
}

func (s *AccountService) Create(ctx context.Context, req *domain.CreateAccountRequest, createdBy string) (*domain.AccountDTO, error) {
	assignee := req.AssignedTo
	if assignee == "" {
		assignee = createdBy
	}

	var account *domain.Account
	err := WithConflictRetry(ctx, s.logger, createRetries, func() error {
		code, err := s.sequences.NextCode(ctx, domain.StageKindAccount)
		if err != nil {
			return err
		}
		account = &domain.Account{
			Code:          code,
			Name:          req.Name,
			Industry:      req.Industry,
			ContactPerson: req.ContactPerson,
			ContactEmail:  req.ContactEmail,
			AssignedTo:    assignee,
			StageStatus:   domain.StageStatusDraft,
			CreatedBy:     createdBy,
		}
		return s.accounts.Create(ctx, account)
	})
	if err != nil {
		s.logger.Error("failed to create account", zap.Error(err))
		return nil, err
	}

	s.logger.Info("account created",
		zap.String("id", account.ID.String()),
		zap.String("code", account.Code))

	return mapper.ToAccountDTO(account), nil
}

func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*domain.AccountDTO, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return mapper.ToAccountDTO(account), nil
}

func (s *AccountService) List(ctx context.Context) ([]domain.AccountDTO, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToAccountDTOs(accounts), nil
}

func (s *AccountService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAccountRequest) (*domain.AccountDTO, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Industry != nil {
		account.Industry = *req.Industry
	}
	if req.ContactPerson != nil {
		account.ContactPerson = *req.ContactPerson
	}
	if req.ContactEmail != nil {
		account.ContactEmail = *req.ContactEmail
	}
	if req.AssignedTo != nil {
		account.AssignedTo = *req.AssignedTo
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return mapper.ToAccountDTO(account), nil
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return notFound(err)
	}
	return s.accounts.Delete(ctx, id)
}
