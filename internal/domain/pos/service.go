package pos

import (
	"context"
	"fmt"
	"time"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/core/types"
	"bizerp/internal/domain"
	"bizerp/pkg/logger"
)

const maxNumberAttempts = 3

// Repository stores POS sessions.
type Repository interface {
	Insert(ctx context.Context, s *Session) error
	Get(ctx context.Context, sessionID id.ID) (*Session, error)

	// OpenFor returns the open session of userID or a not-found error.
	OpenFor(ctx context.Context, userID id.ID) (*Session, error)

	// Save writes the closing fields of s.
	Save(ctx context.Context, s *Session) error

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Session], error)
}

// Options carries runtime configuration for the session service.
type Options struct {
	OrganizationID id.ID
	Strategy       numerator.Strategy
}

// Service opens and closes POS sessions.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager
	orgID     id.ID
	numbering numerator.Config
	now       func() time.Time
}

// NewService creates a POS session service.
func NewService(repo Repository, gen numerator.Generator, txm tx.Manager, opts Options) *Service {
	if txm == nil {
		txm = tx.Passthrough{}
	}
	cfg := Numbering
	if opts.Strategy != numerator.StrategyStrict {
		cfg.Strategy = numerator.StrategyScanMax
	}
	return &Service{
		repo:      repo,
		numerator: gen,
		txManager: txm,
		orgID:     opts.OrganizationID,
		numbering: cfg,
		now:       time.Now,
	}
}

// Open starts a session for userID. A user holds at most one open session.
func (s *Service) Open(ctx context.Context, userID id.ID, openingCash types.Money, notes *string) (*Session, error) {
	if _, err := s.repo.OpenFor(ctx, userID); err == nil {
		return nil, apperror.NewConflict("user already has an open session").WithDetail("user_id", userID.String())
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	session := &Session{
		OpenedBy:    userID,
		OpeningCash: openingCash,
		Status:      StatusOpen,
		Notes:       notes,
	}
	session.Prepare()
	session.SetOrganizationID(s.orgID)
	session.OpenedAt = s.now().UTC()
	if err := session.Validate(ctx); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			number, err := s.numerator.Next(ctx, s.numbering)
			if err != nil {
				return fmt.Errorf("generate session number: %w", err)
			}
			session.SessionNumber = number
			return s.repo.Insert(ctx, session)
		})
		if err == nil {
			break
		}
		if !s.isNumberConflict(err) || attempt >= maxNumberAttempts {
			return nil, err
		}
		logger.Warn(ctx, "session number collided, resyncing", "number", session.SessionNumber, "attempt", attempt)
		if _, syncErr := s.numerator.Sync(ctx, s.scanConfig()); syncErr != nil {
			return nil, fmt.Errorf("sync session numbers: %w", syncErr)
		}
	}

	logger.Info(ctx, "pos session opened", "session_number", session.SessionNumber, "user_id", userID.String())
	return s.Get(ctx, session.ID)
}

// Close records the closing totals of an open session.
func (s *Service) Close(ctx context.Context, sessionID id.ID, in CloseInput) (*Session, error) {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		session, err := s.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := session.Close(in, s.now().UTC()); err != nil {
			return err
		}
		return s.repo.Save(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID)
}

// Get returns a session by id.
func (s *Service) Get(ctx context.Context, sessionID id.ID) (*Session, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("pos session", sessionID.String())
		}
		return nil, err
	}
	return session, nil
}

// Current returns the open session of userID.
func (s *Service) Current(ctx context.Context, userID id.ID) (*Session, error) {
	session, err := s.repo.OpenFor(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("open pos session", userID.String())
		}
		return nil, err
	}
	return session, nil
}

// List returns sessions newest first unless the filter orders otherwise.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Session], error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "-opened_at"
	}
	return s.repo.List(ctx, filter.Normalize())
}

// GenerateNumber previews the next session number.
func (s *Service) GenerateNumber(ctx context.Context) (string, error) {
	return s.numerator.Peek(ctx, s.scanConfig())
}

// SyncNumbers raises the strict counter to the highest stored session number.
func (s *Service) SyncNumbers(ctx context.Context) (int64, error) {
	return s.numerator.Sync(ctx, s.scanConfig())
}

func (s *Service) scanConfig() numerator.Config {
	cfg := s.numbering
	cfg.Strategy = numerator.StrategyScanMax
	return cfg
}

func (s *Service) isNumberConflict(err error) bool {
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicate {
		return false
	}
	field, _ := appErr.Details["field"].(string)
	return field == s.numbering.Column
}
