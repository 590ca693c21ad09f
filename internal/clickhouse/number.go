package clickhouse

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Number is a nullable numeric JSON value. ClickHouse quotes 64-bit integers
// and non-finite floats as strings and renders Nullable columns as null.
type Number struct {
	Float64 float64
	Valid   bool
}

// UnmarshalJSON accepts a number, a quoted number or null
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
		if len(data) == 0 {
			*n = Number{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", data, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		*n = Number{}
		return nil
	}

	*n = Number{Float64: v, Valid: true}
	return nil
}

// Int returns the value as an int, 0 when null
func (n Number) Int() int {
	return int(n.Float64)
}

// NullFloat64 converts to sql.NullFloat64
func (n Number) NullFloat64() sql.NullFloat64 {
	return sql.NullFloat64{Float64: n.Float64, Valid: n.Valid}
}

// NullInt32 converts to sql.NullInt32
func (n Number) NullInt32() sql.NullInt32 {
	return sql.NullInt32{Int32: int32(n.Float64), Valid: n.Valid}
}
