// Package numerator provides domain contracts for document auto-numbering.
package numerator

// Strategy defines how the next number is obtained.
type Strategy int

const (
	// StrategyStrict increments an atomic per-table counter in the store.
	// Concurrent callers never receive the same number.
	StrategyStrict Strategy = iota

	// StrategyScanLatest reads the most recently created number and adds one.
	// Two concurrent callers can read the same latest row; the unique index on
	// the number column turns that into a conflict for one of them.
	StrategyScanLatest

	// StrategyScanMax takes the highest suffix among the last ScanWindow rows.
	StrategyScanMax
)

// DefaultScanWindow is the row window used by StrategyScanMax.
const DefaultScanWindow = 100

// ParseStrategy maps a configuration value to a Strategy.
// Unknown values select StrategyStrict.
func ParseStrategy(s string) Strategy {
	switch s {
	case "scan", "scan_latest":
		return StrategyScanLatest
	case "scan_max":
		return StrategyScanMax
	default:
		return StrategyStrict
	}
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case StrategyScanLatest:
		return "scan_latest"
	case StrategyScanMax:
		return "scan_max"
	default:
		return "strict"
	}
}

// Config holds numbering configuration for one document type.
type Config struct {
	// Prefix includes its separator, e.g. "BILL-" or "SE1-".
	Prefix string

	// PadWidth is the zero-padded width of the numeric suffix.
	PadWidth int

	// Table and Column locate existing numbers for the scan strategies and Sync.
	Table  string
	Column string

	Strategy Strategy

	// ScanWindow bounds StrategyScanMax. Zero means DefaultScanWindow.
	ScanWindow int
}

// SequenceKey is the counter key used by StrategyStrict.
func (c Config) SequenceKey() string {
	return c.Table + ":" + c.Prefix
}

// Window returns the effective scan window.
func (c Config) Window() int {
	if c.ScanWindow <= 0 {
		return DefaultScanWindow
	}
	return c.ScanWindow
}
