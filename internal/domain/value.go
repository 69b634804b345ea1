package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FieldValues is a content snapshot: schema field ID -> stored value.
// Values keep their JSON shape (string, float64, bool, nil, []any, map[string]any).
// A nil map is stored as SQL NULL, which models an absent snapshot.
type FieldValues map[string]interface{}

// Value implements driver.Valuer for the MySQL JSON column
func (v FieldValues) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan implements sql.Scanner for the MySQL JSON column
func (v *FieldValues) Scan(src interface{}) error {
	if src == nil {
		*v = nil
		return nil
	}
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported snapshot column type %T", src)
	}
	if len(data) == 0 {
		*v = nil
		return nil
	}
	return json.Unmarshal(data, v)
}

// Clone returns a shallow copy of the snapshot
func (v FieldValues) Clone() FieldValues {
	if v == nil {
		return nil
	}
	out := make(FieldValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
