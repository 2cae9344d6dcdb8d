package normalizer

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks against a *SchemaError.
var (
	ErrNoDateColumn   = errors.New("no date column")
	ErrNoAmountSource = errors.New("no amount column or debit/credit pair")
)

// SchemaErrorKind names the required column type that could not be resolved.
type SchemaErrorKind int

const (
	NoDateColumn SchemaErrorKind = iota + 1
	NoAmountSource
)

func (k SchemaErrorKind) String() string {
	switch k {
	case NoDateColumn:
		return "NoDateColumn"
	case NoAmountSource:
		return "NoAmountSource"
	default:
		return fmt.Sprintf("SchemaErrorKind(%d)", int(k))
	}
}

// SchemaError reports a table whose header lacks a usable date or amount
// column. The whole normalization is aborted.
type SchemaError struct {
	Kind    SchemaErrorKind
	Columns []string // normalized header names that were inspected
}

func (e *SchemaError) Error() string {
	cols := strings.Join(e.Columns, ", ")
	switch e.Kind {
	case NoDateColumn:
		return fmt.Sprintf("could not find a date column among [%s]: add a column named like \"Date\" or \"Posting Date\"", cols)
	case NoAmountSource:
		return fmt.Sprintf("could not find an amount column among [%s]: add an \"Amount\" column or a \"Withdrawal\"/\"Deposit\" pair", cols)
	default:
		return fmt.Sprintf("schema error %s among [%s]", e.Kind, cols)
	}
}

// Is lets errors.Is match the package sentinels.
func (e *SchemaError) Is(target error) bool {
	switch e.Kind {
	case NoDateColumn:
		return target == ErrNoDateColumn
	case NoAmountSource:
		return target == ErrNoAmountSource
	}
	return false
}
