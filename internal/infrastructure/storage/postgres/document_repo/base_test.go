package document_repo

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	"bizerp/internal/core/entity"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
	"bizerp/internal/domain"
	"bizerp/internal/domain/documents/bill"
	"bizerp/internal/domain/filter"
	"bizerp/internal/infrastructure/storage/postgres"
)

// recorder captures Exec calls and answers with a fixed command tag.
type recorder struct {
	sql  []string
	args [][]any
	tag  string
	err  error
}

func (r *recorder) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	r.args = append(r.args, args)
	return pgconn.NewCommandTag(r.tag), r.err
}

func (r *recorder) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	r.sql = append(r.sql, sql)
	return nil, errors.New("query not supported")
}

func (r *recorder) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	r.sql = append(r.sql, sql)
	return errRow{errors.New("query not supported")}
}

type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

var _ postgres.Querier = (*recorder)(nil)

func newBillRepo(rec *recorder) *Repo[*bill.Bill, *bill.Line] {
	return New[*bill.Bill, *bill.Line](rec, bill.Definition)
}

func TestRepo_InsertLinesSingleStatement(t *testing.T) {
	rec := &recorder{tag: "INSERT 0 2"}
	repo := newBillRepo(rec)
	docID := id.New()

	lines := []*bill.Line{
		{Line: entity.Line{ID: id.New(), ItemName: "Bolt", Quantity: 3, Rate: types.MustMoney("100"), Amount: types.MustMoney("300")}, BillID: docID},
		{Line: entity.Line{ID: id.New(), ItemName: "Nut", Quantity: 2, Rate: types.MustMoney("50"), Amount: types.MustMoney("100")}, BillID: docID},
	}
	require.NoError(t, repo.InsertLines(context.Background(), lines))

	require.Len(t, rec.sql, 1)
	assert.Equal(t,
		"INSERT INTO bill_items (id,item_id,item_name,quantity,rate,amount,bill_id,bin_location_id) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8),($9,$10,$11,$12,$13,$14,$15,$16)",
		rec.sql[0])
	assert.Equal(t, docID, rec.args[0][6])
	assert.Equal(t, "Nut", rec.args[0][10])
}

func TestRepo_InsertLinesEmptyIsNoop(t *testing.T) {
	rec := &recorder{}
	require.NoError(t, newBillRepo(rec).InsertLines(context.Background(), nil))
	assert.Empty(t, rec.sql)
}

func TestRepo_PatchIgnoresUnknownColumns(t *testing.T) {
	rec := &recorder{tag: "UPDATE 1"}
	repo := newBillRepo(rec)

	err := repo.Patch(context.Background(), id.New(), entity.Patch{
		"notes":        "late delivery",
		"no_such_col":  1,
		"items":        []any{},
		"total_amount": types.MustMoney("10"),
	})
	require.NoError(t, err)

	require.Len(t, rec.sql, 1)
	assert.Equal(t, "UPDATE bills SET notes = $1, total_amount = $2, updated_at = NOW() WHERE id = $3", rec.sql[0])
}

func TestRepo_PatchMissingRow(t *testing.T) {
	rec := &recorder{tag: "UPDATE 0"}
	err := newBillRepo(rec).Patch(context.Background(), id.New(), entity.Patch{"notes": "x"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestRepo_DeleteReportsExistence(t *testing.T) {
	rec := &recorder{tag: "DELETE 1"}
	repo := newBillRepo(rec)
	existed, err := repo.Delete(context.Background(), id.New())
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "DELETE FROM bills WHERE id = $1", rec.sql[0])

	rec.tag = "DELETE 0"
	existed, err = repo.Delete(context.Background(), id.New())
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestRepo_InsertMapsDuplicate(t *testing.T) {
	rec := &recorder{err: &pgconn.PgError{Code: "23505", TableName: "bills", ConstraintName: "bills_number_key"}}
	doc := &bill.Bill{}
	doc.Number = "BILL-0001"

	err := newBillRepo(rec).Insert(context.Background(), doc)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Equal(t, "number", appErr.Details["field"])
}

func TestRepo_ListRejectsUnknownFilter(t *testing.T) {
	rec := &recorder{}
	_, err := newBillRepo(rec).List(context.Background(), domain.ListFilter{
		Filters: []filter.Item{filter.Eq("password", "x")},
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))
	assert.Empty(t, rec.sql)
}

func TestSettler_SQL(t *testing.T) {
	s := NewSettler(&recorder{}, bill.Definition, bill.StatusOpen)
	sql, args, err := s.build(id.New(), types.MustMoney("25")).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE bills SET amount_paid = amount_paid + $1, "+
			"balance_due = GREATEST(total_amount - (amount_paid + $2), 0), "+
			"status = CASE WHEN total_amount - (amount_paid + $3) <= 0 THEN $4 WHEN amount_paid + $5 > 0 THEN $6 ELSE $7 END, "+
			"updated_at = NOW() WHERE id = $8",
		sql)
	assert.Equal(t, "paid", args[3])
	assert.Equal(t, "partially_paid", args[5])
	assert.Equal(t, "open", args[6])
}

func TestSettler_MissingDocument(t *testing.T) {
	s := NewSettler(&recorder{tag: "UPDATE 0"}, bill.Definition, bill.StatusOpen)
	err := s.Settle(context.Background(), id.New(), types.MustMoney("1"))
	assert.True(t, apperror.IsNotFound(err))
}
