package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/id"
	"bizerp/internal/domain/domaintest"
)

func TestService_AcknowledgeAndDismiss(t *testing.T) {
	ctx := context.Background()
	svc := NewService(domaintest.NewMemoryCatalog[*Insight]("insight"), nil, id.New())

	created, err := svc.Create(ctx, &Insight{Type: "low_stock", Title: "Bolts below reorder point"})
	require.NoError(t, err)
	assert.Equal(t, StatusNew, created.Status)
	assert.Equal(t, SeverityInfo, created.Severity)
	assert.Equal(t, "general", created.Module)

	acked, err := svc.Acknowledge(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAcknowledged, acked.Status)

	dismissed, err := svc.Dismiss(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDismissed, dismissed.Status)
}

func TestInsight_ValidateSeverity(t *testing.T) {
	err := (&Insight{Type: "x", Title: "y", Severity: "panic"}).Validate(context.Background())
	assert.Error(t, err)
}
