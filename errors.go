package xcrud

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotStruct is returned by Reflect when T is not a struct and does not
// declare its columns through Mapped.
var ErrNotStruct = errors.New("xcrud: record type must be a struct")

// ErrDuplicateColumn is returned when two fields resolve to the same column
// name (case-insensitive).
var ErrDuplicateColumn = errors.New("xcrud: duplicate column")

// ErrInvalidPage is returned by paged selects when page < 1 or size < 1.
var ErrInvalidPage = errors.New("xcrud: page must be >= 1 and page size > 0")

// ErrNoColumns is returned when a statement would have an empty column list,
// e.g. an UPDATE on a record whose only field is the key column.
var ErrNoColumns = errors.New("xcrud: no columns to write")

// ErrEmptyBatch is returned by the insert and upsert builders when there are
// no rows. Table methods treat it as a no-op and never surface it.
var ErrEmptyBatch = errors.New("xcrud: empty batch")

// MappingError reports a key column that names no field of the record type.
// It is returned before any SQL is built.
type MappingError struct {
	Type   reflect.Type
	Column string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("xcrud: key column %q has no field on %s", e.Column, e.Type)
}
