package transfer_order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/numerator"
	"bizerp/internal/core/tx"
	"bizerp/internal/core/types"
	"bizerp/internal/domain/documents"
	"bizerp/internal/domain/documents/documentstest"
)

func TestTransferOrder_Validate(t *testing.T) {
	tests := []struct {
		name      string
		from, to  string
		wantField string
	}{
		{"valid", "Main", "Annex", ""},
		{"missing source", "", "Annex", "from_warehouse"},
		{"missing destination", "Main", "", "to_warehouse"},
		{"same warehouse", "Main", "Main", "to_warehouse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &TransferOrder{
				Document:      entity.Document{Date: types.Today()},
				FromWarehouse: tt.from,
				ToWarehouse:   tt.to,
			}
			err := order.Validate(context.Background())
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, appErr.Details["field"])
		})
	}
}

func TestTransferOrder_Seed(t *testing.T) {
	assert.Equal(t, "TO-0001", numerator.Seed(Definition.Numbering))
}

func TestTransferOrder_UpdateRejectsSameWarehouse(t *testing.T) {
	repo := documentstest.NewMemoryRepo[*TransferOrder, *Line](Definition)
	svc := NewService(repo, &numerator.MockGenerator{}, tx.Passthrough{}, documents.Options{})
	ctx := context.Background()

	created, err := svc.Create(ctx, &TransferOrder{
		Document:      entity.Document{Date: types.Today()},
		FromWarehouse: "Main",
		ToWarehouse:   "Annex",
		Items:         []*Line{{Line: entity.Line{ItemName: "Drill", Quantity: 2}}},
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, entity.Patch{"to_warehouse": "Main"}, nil, false)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "to_warehouse", appErr.Details["field"])

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annex", got.ToWarehouse)

	updated, err := svc.Update(ctx, created.ID, entity.Patch{"to_warehouse": "Depot"}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "Depot", updated.ToWarehouse)
}
