package models

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"math"
)

// MOptionalFloat is a number that is either present or explicitly absent.
// Absent encodes as JSON null and SQL NULL.
type MOptionalFloat struct {
	Float64 float64
	Valid   bool
}

// Some returns a present value. Non-finite input is treated as absent.
func Some(v float64) MOptionalFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return MOptionalFloat{}
	}
	return MOptionalFloat{Float64: v, Valid: true}
}

// None returns an absent value.
func None() MOptionalFloat {
	return MOptionalFloat{}
}

// -----------------------------------------------------------------------------

// Get returns the value and whether it is present.
func (o MOptionalFloat) Get() (float64, bool) {
	return o.Float64, o.Valid
}

// OrElse returns the value, or def when absent.
func (o MOptionalFloat) OrElse(def float64) float64 {
	if !o.Valid {
		return def
	}
	return o.Float64
}

// Ptr returns nil when absent.
func (o MOptionalFloat) Ptr() *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Float64
	return &v
}

// FromPtr is the inverse of Ptr.
func FromPtr(p *float64) MOptionalFloat {
	if p == nil {
		return None()
	}
	return Some(*p)
}

// -----------------------------------------------------------------------------

func (o MOptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Float64)
}

func (o *MOptionalFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// -----------------------------------------------------------------------------

// Scan implements sql.Scanner.
func (o *MOptionalFloat) Scan(src any) error {
	var n sql.NullFloat64
	if err := n.Scan(src); err != nil {
		return err
	}
	*o = MOptionalFloat{Float64: n.Float64, Valid: n.Valid}
	return nil
}

// Value implements driver.Valuer.
func (o MOptionalFloat) Value() (driver.Value, error) {
	if !o.Valid {
		return nil, nil
	}
	return o.Float64, nil
}
