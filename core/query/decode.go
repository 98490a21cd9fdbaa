package query

import (
	"fmt"

	"github.com/asaidimu/go-tabula/utils"
)

// Decode runs one pass and decodes every record into a T through its JSON
// field names. Records are decoded from their Map form, so values arrive as
// JSON strings (or null): numeric struct fields need the ",string" tag option.
func Decode[T any](rs *ResultSet) ([]T, error) {
	var out []T
	for e, err := range rs.Records() {
		if err != nil {
			return nil, err
		}
		v, err := utils.MapToStruct[T](e.Record.Map())
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", e.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}
