// Package filter describes list conditions independently of the store.
package filter

// ComparisonType is the operator of a single condition.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	LessOrEqual    ComparisonType = "lte"
	Greater        ComparisonType = "gt"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	Contains       ComparisonType = "contains"
	IsNull         ComparisonType = "null"
	IsNotNull      ComparisonType = "not_null"
)

// Item is one condition on a column.
type Item struct {
	Field    string         `json:"field"`
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}

// Eq builds an equality condition.
func Eq(field string, value any) Item {
	return Item{Field: field, Operator: Equal, Value: value}
}

// Gte builds a lower-bound condition.
func Gte(field string, value any) Item {
	return Item{Field: field, Operator: GreaterOrEqual, Value: value}
}

// Lte builds an upper-bound condition.
func Lte(field string, value any) Item {
	return Item{Field: field, Operator: LessOrEqual, Value: value}
}
