package documents

import (
	"context"
	"fmt"
	"slices"
	"time"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/domain"
	"bizerp/pkg/logger"
)

// maxNumberAttempts bounds retries after an auto-generated number collides.
const maxNumberAttempts = 3

// Service is the transactional writer for one document type.
type Service[D Header[L], L Line] struct {
	def       Definition
	repo      Repository[D, L]
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[D]
	effects   []Effect[D]
}

// Config configures a document service.
type Config[D Header[L], L Line] struct {
	Definition Definition
	Repo       Repository[D, L]
	Numerator  numerator.Generator
	TxManager  tx.Manager
}

// NewService creates a document service.
func NewService[D Header[L], L Line](cfg Config[D, L]) *Service[D, L] {
	txm := cfg.TxManager
	if txm == nil {
		txm = tx.Passthrough{}
	}
	return &Service[D, L]{
		def:       cfg.Definition,
		repo:      cfg.Repo,
		numerator: cfg.Numerator,
		txManager: txm,
		hooks:     domain.NewHookRegistry[D](),
	}
}

// Definition returns the document type definition.
func (s *Service[D, L]) Definition() Definition {
	return s.def
}

// Name returns the document type name.
func (s *Service[D, L]) Name() string {
	return s.def.Name
}

// Hooks returns the registry of after-commit hooks.
func (s *Service[D, L]) Hooks() *domain.HookRegistry[D] {
	return s.hooks
}

// Use registers an in-transaction effect.
func (s *Service[D, L]) Use(effect Effect[D]) {
	s.effects = append(s.effects, effect)
}

// Create validates, numbers and stores doc with its lines, then returns the
// stored document.
func (s *Service[D, L]) Create(ctx context.Context, doc D) (D, error) {
	var zero D
	h := doc.Doc()

	if err := s.validate(ctx, doc); err != nil {
		return zero, err
	}
	s.normalize(doc)
	if !s.def.HasStatus(h.Status) {
		return zero, s.statusError(h.Status)
	}

	autoNumber := h.Number == ""
	strict := s.def.Numbering.Strategy == numerator.StrategyStrict
	var (
		err   error
		taken string
	)
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		if autoNumber {
			h.Number = ""
		}
		err = s.insert(ctx, doc)
		if err == nil || !autoNumber || !s.isNumberConflict(err) {
			break
		}
		logger.Warn(ctx, "generated document number already taken",
			"document", s.def.Name,
			"number", h.Number,
			"attempt", attempt)
		if !strict {
			// Scan strategies re-read the stored numbers on retry. The same
			// number twice means the conflicting row is not the latest one.
			if h.Number == taken {
				break
			}
			taken = h.Number
			continue
		}
		if _, syncErr := s.numerator.Sync(ctx, s.def.Numbering); syncErr != nil {
			logger.Warn(ctx, "number counter sync failed", "document", s.def.Name, "error", syncErr)
		}
	}
	if err != nil {
		return zero, err
	}

	s.runAfter(ctx, domain.AfterCreate, doc)
	return s.GetByID(ctx, h.ID)
}

// insert writes header, lines and effects in one transaction.
// If the transaction fails after the header insert the header is deleted
// again outside of it, for stores where the rollback did not reach it.
func (s *Service[D, L]) insert(ctx context.Context, doc D) error {
	h := doc.Doc()
	inserted := false

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if h.Number == "" {
			number, err := s.numerator.Next(ctx, s.def.Numbering)
			if err != nil {
				return fmt.Errorf("generate %s number: %w", s.def.Name, err)
			}
			h.Number = number
		}
		if err := s.repo.Insert(ctx, doc); err != nil {
			return err
		}
		inserted = true
		if err := s.writeLines(ctx, doc); err != nil {
			return err
		}
		return s.applyEffects(ctx, doc)
	})
	if err != nil && inserted {
		s.compensate(ctx, h.ID)
	}
	return err
}

func (s *Service[D, L]) writeLines(ctx context.Context, doc D) error {
	docID := doc.Doc().ID
	lines := doc.GetLines()
	for _, line := range lines {
		line.PrepareLine()
		line.SetDocumentID(docID)
	}
	if len(lines) == 0 {
		return nil
	}
	return s.repo.InsertLines(ctx, lines)
}

// applyEffects runs the in-transaction effects unless doc is void.
func (s *Service[D, L]) applyEffects(ctx context.Context, doc D) error {
	if s.def.IsVoid(doc.Doc().Status) {
		return nil
	}
	for _, effect := range s.effects {
		if err := effect.Apply(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// revertEffects takes back what applyEffects did for doc.
func (s *Service[D, L]) revertEffects(ctx context.Context, doc D) error {
	if s.def.IsVoid(doc.Doc().Status) {
		return nil
	}
	for _, effect := range s.effects {
		if err := effect.Revert(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service[D, L]) compensate(ctx context.Context, docID id.ID) {
	ctx = context.WithoutCancel(ctx)
	err := s.repo.DeleteLines(ctx, docID)
	if err == nil {
		_, err = s.repo.Delete(ctx, docID)
	}
	if err != nil {
		logger.Warn(ctx, "orphan candidate after failed create",
			"document", s.def.Name,
			"id", docID.String(),
			"error", err)
	}
}

// GetByID returns the header with its lines.
func (s *Service[D, L]) GetByID(ctx context.Context, docID id.ID) (D, error) {
	var zero D
	doc, err := s.repo.Get(ctx, docID)
	if err != nil {
		return zero, s.normalizeGetErr(err, docID)
	}
	lines, err := s.repo.Lines(ctx, docID)
	if err != nil {
		return zero, err
	}
	if lines == nil {
		lines = []L{}
	}
	doc.SetLines(lines)
	return doc, nil
}

// List returns headers matching filter.
func (s *Service[D, L]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[D], error) {
	return s.repo.List(ctx, filter.Normalize())
}

// Update applies patch to the header. When replaceLines is set, existing
// lines are deleted and replaced by lines, all in one transaction.
// The patched document is validated as a whole before anything is written.
// Effects are taken back and applied again when the lines change or the
// document enters or leaves a void status.
func (s *Service[D, L]) Update(ctx context.Context, docID id.ID, patch entity.Patch, lines []L, replaceLines bool) (D, error) {
	var zero D

	patch = patch.Without(slices.Concat(entity.ImmutableColumns, []string{s.def.Numbering.Column})...)
	if err := patch.RequireNonEmpty(s.def.Required...); err != nil {
		return zero, err
	}
	if v, ok := patch["status"]; ok {
		status, _ := v.(string)
		if !s.def.HasStatus(status) {
			return zero, s.statusError(status)
		}
	}
	if replaceLines {
		if err := validateLines(lines); err != nil {
			return zero, err
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		merged, err := s.repo.Get(ctx, docID)
		if err != nil {
			return err
		}
		if err := entity.ApplyPatch(merged, patch); err != nil {
			return err
		}
		if replaceLines {
			merged.SetLines(lines)
		} else {
			merged.SetLines(existing.GetLines())
		}
		if err := s.validateHeader(ctx, merged); err != nil {
			return err
		}

		if err := s.repo.Patch(ctx, docID, patch); err != nil {
			return err
		}
		resettle := replaceLines ||
			s.def.IsVoid(existing.Doc().Status) != s.def.IsVoid(merged.Doc().Status)
		if !resettle {
			return nil
		}
		if err := s.revertEffects(ctx, existing); err != nil {
			return err
		}
		if replaceLines {
			if err := s.repo.DeleteLines(ctx, docID); err != nil {
				return err
			}
			if err := s.writeLines(ctx, merged); err != nil {
				return err
			}
		}
		return s.applyEffects(ctx, merged)
	})
	if err != nil {
		return zero, s.normalizeGetErr(err, docID)
	}

	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return zero, err
	}
	s.runAfter(ctx, domain.AfterUpdate, doc)
	return doc, nil
}

// UpdateStatus sets the status after checking the type's status set.
func (s *Service[D, L]) UpdateStatus(ctx context.Context, docID id.ID, status string) (D, error) {
	if !s.def.HasStatus(status) {
		var zero D
		return zero, s.statusError(status)
	}
	return s.Update(ctx, docID, entity.Patch{"status": status}, nil, false)
}

// Delete removes the document and its lines. Deleting a missing document
// succeeds.
func (s *Service[D, L]) Delete(ctx context.Context, docID id.ID) error {
	existing, err := s.GetByID(ctx, docID)
	if apperror.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.revertEffects(ctx, existing); err != nil {
			return err
		}
		if err := s.repo.DeleteLines(ctx, docID); err != nil {
			return err
		}
		_, err := s.repo.Delete(ctx, docID)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.def.Name, err)
	}

	s.runAfter(ctx, domain.AfterDelete, existing)
	return nil
}

// GenerateNumber previews the next number without consuming it.
func (s *Service[D, L]) GenerateNumber(ctx context.Context) (string, error) {
	return s.numerator.Peek(ctx, s.def.Numbering)
}

// SyncNumbers raises the number counter to the highest stored suffix.
func (s *Service[D, L]) SyncNumbers(ctx context.Context) (int64, error) {
	return s.numerator.Sync(ctx, s.def.Numbering)
}

// SweepOrphans returns headers that require lines but have none and were
// created before cutoff. With remove set they are deleted.
func (s *Service[D, L]) SweepOrphans(ctx context.Context, cutoff time.Time, remove bool) ([]id.ID, error) {
	if !s.def.RequireLines {
		return nil, nil
	}
	ids, err := s.repo.Orphans(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find %s orphans: %w", s.def.Name, err)
	}
	if !remove {
		return ids, nil
	}
	for _, docID := range ids {
		if _, err := s.repo.Delete(ctx, docID); err != nil {
			return ids, fmt.Errorf("delete %s orphan %s: %w", s.def.Name, docID, err)
		}
		logger.Info(ctx, "orphan document removed", "document", s.def.Name, "id", docID.String())
	}
	return ids, nil
}

func (s *Service[D, L]) validate(ctx context.Context, doc D) error {
	if err := s.validateHeader(ctx, doc); err != nil {
		return err
	}
	lines := doc.GetLines()
	if err := entity.ValidateLines(len(lines), s.def.RequireLines); err != nil {
		return err
	}
	return validateLines(lines)
}

// validateHeader runs the document's own invariants, which may span the
// header and its lines.
func (s *Service[D, L]) validateHeader(ctx context.Context, doc D) error {
	if err := doc.Validate(ctx); err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewValidation(err.Error())
	}
	return nil
}

func validateLines[L Line](lines []L) error {
	for i, line := range lines {
		if err := line.ValidateLine(i); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service[D, L]) normalize(doc D) {
	h := doc.Doc()
	h.Base().Prepare()
	h.OrganizationID = s.def.OrganizationID
	if h.Status == "" {
		h.Status = s.def.DefaultStatus
	}
	if n, ok := any(doc).(Normalizer); ok {
		n.Normalize()
	}
}

func (s *Service[D, L]) isNumberConflict(err error) bool {
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicate {
		return false
	}
	field, _ := appErr.Details["field"].(string)
	return field == s.def.Numbering.Column
}

func (s *Service[D, L]) statusError(status string) error {
	return apperror.NewValidation(fmt.Sprintf("invalid status %q for %s", status, s.def.Name)).
		WithDetail("field", "status").
		WithDetail("allowed", s.def.Statuses)
}

func (s *Service[D, L]) normalizeGetErr(err error, docID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.def.Name, docID.String())
	}
	return err
}

func (s *Service[D, L]) runAfter(ctx context.Context, event domain.HookEvent, doc D) {
	for _, err := range s.hooks.RunAll(ctx, event, doc) {
		logger.Warn(ctx, "after-commit hook failed",
			"document", s.def.Name,
			"event", string(event),
			"error", err)
	}
}
