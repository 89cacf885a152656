package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ExtraRow is one named price adjustment attached to a cart item or cart by
// a modifier. Code carries the discount code that unlocked the row, if any.
type ExtraRow struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Code   *string         `json:"code,omitempty"`
}

// ExtraRows is the ordered list of adjustments, stored as a JSON column.
type ExtraRows []ExtraRow

// Value implements driver.Valuer so the rows can be persisted.
func (e ExtraRows) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal extra rows: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the JSON column.
func (e *ExtraRows) Scan(value any) error {
	if value == nil {
		*e = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("extra rows: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*e = ExtraRows{}
		return nil
	}
	return json.Unmarshal(raw, e)
}

// Total sums the amounts of all rows.
func (e ExtraRows) Total() decimal.Decimal {
	total := decimal.Zero
	for _, row := range e {
		total = total.Add(row.Amount)
	}
	return total
}
