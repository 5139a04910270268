package xcrud

import (
	"fmt"
)

// MapRows reads every remaining row of cur into a new T and closes cur.
//
// Columns bind to schema fields by name, ignoring case and surrounding
// quotes ("id", `ID` and [Id] all match a field named Id). When several
// columns match one field the first wins. NULL values and fields with no
// matching column keep their zero value; extra columns are ignored.
//
// A Close error is returned if nothing else failed.
func MapRows[T any](cur Cursor, s *Schema[T]) (out []T, err error) {
	st := newStream(cur, s)
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for st.Next() {
		out = append(out, st.Record())
	}
	if err := st.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowPlan binds cursor columns to schema fields. It is built once per
// cursor, from the first call to Columns.
type rowPlan[T any] struct {
	cols   []string
	fields []int // per column: index into the schema, or -1
	vals   []any
	dests  []any
}

func planRows[T any](s *Schema[T], cols []string) (*rowPlan[T], error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("xcrud: query returned zero columns")
	}
	p := &rowPlan[T]{
		cols:   cols,
		fields: make([]int, len(cols)),
		vals:   make([]any, len(cols)),
		dests:  make([]any, len(cols)),
	}
	taken := make([]bool, len(s.fields))
	for i, c := range cols {
		p.fields[i] = -1
		p.dests[i] = &p.vals[i]
		fi, ok := s.byName[normalizeColAscii(c)]
		if ok && !taken[fi] {
			p.fields[i] = fi
			taken[fi] = true
		}
	}
	return p, nil
}

// scan reads the cursor's current row into a fresh T.
func (p *rowPlan[T]) scan(cur Cursor, s *Schema[T]) (T, error) {
	var rec T
	for i := range p.vals {
		p.vals[i] = nil
	}
	if err := cur.Scan(p.dests...); err != nil {
		return rec, err
	}
	for i, fi := range p.fields {
		if fi < 0 || p.vals[i] == nil {
			continue
		}
		if err := s.fields[fi].set(&rec, p.vals[i]); err != nil {
			return rec, fmt.Errorf("xcrud: column %q: %w", p.cols[i], err)
		}
	}
	return rec, nil
}

// ---------------- Column normalization (ASCII fast-path) ----------------

func normalizeColAscii(s string) string {
	if l := len(s); l >= 2 {
		switch s[0] {
		case '"':
			if s[l-1] == '"' {
				s = s[1 : l-1]
			}
		case '`':
			if s[l-1] == '`' {
				s = s[1 : l-1]
			}
		case '[':
			if s[l-1] == ']' {
				s = s[1 : l-1]
			}
		}
	}
	return toLowerAscii(s)
}

func toLowerAscii(s string) string {
	var need bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			need = true
			break
		}
	}
	if !need {
		return s
	}
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c = c + ('a' - 'A')
		}
		b[i] = c
	}
	return string(b)
}
