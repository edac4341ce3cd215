package expenses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
	"bizerp/internal/domain/domaintest"
)

func newExpense() *Expense {
	return &Expense{
		ExpenseDate: types.Today(),
		Category:    "travel",
		Amount:      types.MustMoney("100"),
		TaxAmount:   types.MustMoney("18"),
	}
}

func TestService_CreateDefaults(t *testing.T) {
	orgID := id.New()
	svc := NewService(domaintest.NewMemoryCatalog[*Expense]("expense"), nil, orgID)

	created, err := svc.Create(context.Background(), newExpense())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, "118", created.TotalAmount.String())
	assert.Equal(t, orgID, created.OrganizationID)
}

func TestService_CreateValidation(t *testing.T) {
	repo := domaintest.NewMemoryCatalog[*Expense]("expense")
	svc := NewService(repo, nil, id.New())

	tests := []struct {
		name   string
		mutate func(e *Expense)
		field  string
	}{
		{"missing date", func(e *Expense) { e.ExpenseDate = types.Date{} }, "expense_date"},
		{"missing category", func(e *Expense) { e.Category = "" }, "category"},
		{"negative amount", func(e *Expense) { e.Amount = types.MustMoney("-1") }, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newExpense()
			tt.mutate(e)
			_, err := svc.Create(context.Background(), e)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
	assert.Equal(t, 0, repo.Len())
}

func TestService_ApproveAndReject(t *testing.T) {
	ctx := context.Background()
	svc := NewService(domaintest.NewMemoryCatalog[*Expense]("expense"), nil, id.New())

	created, err := svc.Create(ctx, newExpense())
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	_, err = svc.Reject(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetHTTPStatus(err))

	_, err = svc.Approve(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_AttachReceipt(t *testing.T) {
	ctx := context.Background()
	svc := NewService(domaintest.NewMemoryCatalog[*Expense]("expense"), nil, id.New())

	created, err := svc.Create(ctx, newExpense())
	require.NoError(t, err)

	updated, err := svc.AttachReceipt(ctx, created.ID, "/uploads/receipts/r.jpg")
	require.NoError(t, err)
	require.NotNil(t, updated.ReceiptURL)
	assert.Equal(t, "/uploads/receipts/r.jpg", *updated.ReceiptURL)
}

func TestService_UpdateValidatesPatchedExpense(t *testing.T) {
	svc := NewService(domaintest.NewMemoryCatalog[*Expense]("expense"), nil, id.New())
	ctx := context.Background()

	created, err := svc.Create(ctx, newExpense())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, entity.Patch{"amount": types.MustMoney("-40")})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "amount", appErr.Details["field"])

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", got.Amount.String())
}
