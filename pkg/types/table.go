// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the observation table data model and the
// configuration structs shared by the pipeline stages.
package types

import (
	"strconv"
	"time"
)

// Kind identifies the concrete type stored in a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindDate
	KindDateTime
)

// Value is one table cell. Only the columns the pipeline consumes are
// typed beyond String; everything else passes through untouched.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	t    time.Time
}

// Null returns the null value (empty cell, unparsable date).
func Null() Value { return Value{kind: KindNull} }

// String returns a string cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer cell.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Float returns a floating-point cell.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Date returns a calendar-date cell (time component ignored on output).
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// DateTime returns a full timestamp cell.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// Kind reports the concrete type of the cell.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string content. Valid only for KindString.
func (v Value) Str() string { return v.str }

// Int64 returns the integer content. Valid only for KindInt.
func (v Value) Int64() int64 { return v.num }

// Float64 returns the float content. Valid only for KindFloat.
func (v Value) Float64() float64 { return v.flt }

// Time returns the time content. Valid only for KindDate and KindDateTime.
func (v Value) Time() time.Time { return v.t }

// AsFloat converts numeric and numeric-looking string cells to float64.
// The second return is false when the cell cannot be read as a number.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.flt, true
	case KindInt:
		return float64(v.num), true
	case KindString:
		f, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Table is an ordered sequence of rows over a fixed column list. Tables
// are treated as immutable after creation: transforms build new tables
// and never write into the one they were given.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// ColumnIndex returns the position of name in Columns, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, column name). Returns Null when the
// column does not exist.
func (t Table) Cell(row int, name string) Value {
	i := t.ColumnIndex(name)
	if i < 0 {
		return Null()
	}
	return t.Rows[row][i]
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }
