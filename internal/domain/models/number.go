package models

import (
	"math"
	"strconv"
)

// Number is a float64 whose undefined states (NaN, ±Inf) encode as JSON null.
type Number float64

// Undefined returns the undefined Number.
func Undefined() Number { return Number(math.NaN()) }

func (n Number) Float() float64 { return float64(n) }

// Defined reports whether n carries a finite value.
func (n Number) Defined() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Defined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Undefined()
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}
