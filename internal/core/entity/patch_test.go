package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

type patchModel struct {
	Document
	VendorParty
	DueDate types.Date `db:"due_date" json:"due_date"`
	Items   []string   `db:"-" json:"items"`
}

func TestDecodePatch_OnlyPresentKeys(t *testing.T) {
	patch, rest, err := DecodePatch[patchModel]([]byte(`{
		"vendor_name": "Acme",
		"total_amount": "450.25",
		"notes": null,
		"items": [],
		"unknown": 1
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"notes", "total_amount", "vendor_name"}, patch.Columns())
	assert.Equal(t, "Acme", patch["vendor_name"])
	assert.Nil(t, patch["notes"])
	assert.True(t, patch["total_amount"].(types.Money).Equal(types.MustMoney("450.25")))

	assert.Contains(t, rest, "items")
	assert.Contains(t, rest, "unknown")
	assert.False(t, patch.Has("status"))
}

func TestDecodePatch_IgnoresImmutable(t *testing.T) {
	patch, _, err := DecodePatch[patchModel]([]byte(`{
		"id": "0190a0d2-6a3c-7cc4-9a53-7d7f2b8f1e11",
		"organization_id": "0190a0d2-6a3c-7cc4-9a53-7d7f2b8f1e11",
		"status": "open"
	}`), "status")
	require.NoError(t, err)
	assert.Empty(t, patch)
}

func TestDecodePatch_NullRefAndDate(t *testing.T) {
	patch, _, err := DecodePatch[patchModel]([]byte(`{"vendor_id": null, "due_date": "2026-04-01"}`))
	require.NoError(t, err)

	assert.Equal(t, id.Ref{}, patch["vendor_id"])
	assert.Equal(t, "2026-04-01", patch["due_date"].(types.Date).String())
}

func TestDecodePatch_InvalidValue(t *testing.T) {
	_, _, err := DecodePatch[patchModel]([]byte(`{"date": "yesterday"}`))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "date", appErr.Details["field"])
}

func TestDecodePatch_NotAnObject(t *testing.T) {
	_, _, err := DecodePatch[patchModel]([]byte(`[1,2]`))
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))
}

func TestPatch_RequireNonEmpty(t *testing.T) {
	tests := []struct {
		name    string
		patch   Patch
		wantErr bool
	}{
		{name: "absent is fine", patch: Patch{"notes": nil}},
		{name: "present value", patch: Patch{"vendor_name": "Acme"}},
		{name: "blanked string", patch: Patch{"vendor_name": ""}, wantErr: true},
		{name: "nulled", patch: Patch{"date": nil}, wantErr: true},
		{name: "zero date", patch: Patch{"date": types.Date{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.RequireNonEmpty("vendor_name", "date")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
