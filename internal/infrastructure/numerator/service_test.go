package numerator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "bizerp/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = m.val
	}
	return nil
}

type mockRows struct {
	values []string
	pos    int
	err    error
}

func (r *mockRows) Close()                                       {}
func (r *mockRows) Err() error                                   { return r.err }
func (r *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *mockRows) RawValues() [][]byte                          { return nil }
func (r *mockRows) Conn() *pgx.Conn                              { return nil }
func (r *mockRows) Values() ([]any, error)                       { return []any{r.values[r.pos-1]}, nil }

func (r *mockRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *mockRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.values[r.pos-1]
	return nil
}

// mockQuerier simulates sys_sequences and a table of existing numbers
// ordered newest first.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	numbers  []string
	queries  []string
	queryErr error
}

func newMockQuerier(numbers ...string) *mockQuerier {
	return &mockQuerier{counters: map[string]int64{}, numbers: numbers}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, sql)

	if m.queryErr != nil {
		return &mockRow{err: m.queryErr}
	}

	key := args[0].(string)
	switch {
	case strings.Contains(sql, "GREATEST"):
		if v := args[1].(int64); v > m.counters[key] {
			m.counters[key] = v
		}
		return &mockRow{val: m.counters[key]}
	case strings.HasPrefix(strings.TrimSpace(sql), "INSERT"):
		m.counters[key]++
		return &mockRow{val: m.counters[key]}
	default:
		v, ok := m.counters[key]
		if !ok {
			return &mockRow{err: pgx.ErrNoRows}
		}
		return &mockRow{val: v}
	}
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, sql)

	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if limit, ok := args[0].(int); ok && limit < len(m.numbers) {
		return &mockRows{values: m.numbers[:limit]}, nil
	}
	return &mockRows{values: m.numbers}, nil
}

var billCfg = corenumerator.Config{Prefix: "BILL-", PadWidth: 4, Table: "bills", Column: "number"}

func TestNext_StrictIsSequential(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		n, err := svc.Next(ctx, billCfg)
		require.NoError(t, err)
		got = append(got, n)
	}
	assert.Equal(t, []string{"BILL-0001", "BILL-0002", "BILL-0003"}, got)
}

func TestNext_StrictSeeds(t *testing.T) {
	cfgs := map[string]corenumerator.Config{
		"PAY-00001": {Prefix: "PAY-", PadWidth: 5, Table: "payments_made"},
		"SO-00001":  {Prefix: "SO-", PadWidth: 5, Table: "sales_orders"},
		"DC-00001":  {Prefix: "DC-", PadWidth: 5, Table: "delivery_challans"},
		"TO-0001":   {Prefix: "TO-", PadWidth: 4, Table: "transfer_orders"},
		"SE1-001":   {Prefix: "SE1-", PadWidth: 3, Table: "pos_sessions"},
	}
	svc := New(newMockQuerier())
	for want, cfg := range cfgs {
		got, err := svc.Next(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNext_StrictConcurrentCallersGetDistinctNumbers(t *testing.T) {
	svc := New(newMockQuerier())
	const n = 50

	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.Next(context.Background(), billCfg)
			if err == nil {
				results <- num
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for r := range results {
		assert.False(t, seen[r], "duplicate %s", r)
		seen[r] = true
	}
	assert.Len(t, seen, n)
}

func TestNext_ScanLatest(t *testing.T) {
	cfg := billCfg
	cfg.Strategy = corenumerator.StrategyScanLatest

	tests := []struct {
		name    string
		numbers []string
		want    string
	}{
		{"empty table", nil, "BILL-0001"},
		{"uses latest created", []string{"BILL-0004", "BILL-0009"}, "BILL-0005"},
		{"unparseable latest", []string{"MANUAL-1", "BILL-0009"}, "BILL-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(newMockQuerier(tt.numbers...)).Next(context.Background(), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_ScanMax(t *testing.T) {
	cfg := corenumerator.Config{Prefix: "SE1-", PadWidth: 3, Table: "pos_sessions", Column: "session_number", Strategy: corenumerator.StrategyScanMax, ScanWindow: 3}

	q := newMockQuerier("SE1-004", "SE1-010", "SE1-002", "SE1-050")
	got, err := New(q).Next(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "SE1-011", got, "rows outside the window are ignored")
}

func TestPeek_DoesNotConsume(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()

	peek, err := svc.Peek(ctx, billCfg)
	require.NoError(t, err)
	assert.Equal(t, "BILL-0001", peek)

	next, err := svc.Next(ctx, billCfg)
	require.NoError(t, err)
	assert.Equal(t, peek, next)

	peek, err = svc.Peek(ctx, billCfg)
	require.NoError(t, err)
	assert.Equal(t, "BILL-0002", peek)
}

func TestSync_RaisesCounterToExistingMax(t *testing.T) {
	q := newMockQuerier("BILL-0003", "BILL-0017", "OTHER-99")
	svc := New(q)
	ctx := context.Background()

	current, err := svc.Sync(ctx, billCfg)
	require.NoError(t, err)
	assert.Equal(t, int64(17), current)

	next, err := svc.Next(ctx, billCfg)
	require.NoError(t, err)
	assert.Equal(t, "BILL-0018", next)
}

func TestSync_NeverMovesBackwards(t *testing.T) {
	q := newMockQuerier("BILL-0002")
	q.counters[billCfg.SequenceKey()] = 40

	current, err := New(q).Sync(context.Background(), billCfg)
	require.NoError(t, err)
	assert.Equal(t, int64(40), current)
}

func TestNext_PropagatesErrors(t *testing.T) {
	q := newMockQuerier()
	q.queryErr = errors.New("connection refused")
	svc := New(q)

	_, err := svc.Next(context.Background(), billCfg)
	assert.ErrorContains(t, err, "connection refused")

	scan := billCfg
	scan.Strategy = corenumerator.StrategyScanLatest
	_, err = svc.Next(context.Background(), scan)
	assert.ErrorContains(t, err, "connection refused")
}

func TestLikePrefix(t *testing.T) {
	assert.Equal(t, `BILL-%`, likePrefix("BILL-"))
	assert.Equal(t, `A\_B\%%`, likePrefix("A_B%"))
}
