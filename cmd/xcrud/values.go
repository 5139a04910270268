package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-mizu/xcrud"
)

// assignment is one --set col=value pair.
type assignment struct {
	Column string
	Value  any
}

// parseLiteral types a command-line value: null, integers, floats and
// true/false keep their SQL meaning, anything else is text. Wrap a value in
// single quotes to force text, e.g. '42'.
func parseLiteral(s string) any {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	switch strings.ToLower(s) {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func parseAssignments(sets []string) ([]assignment, error) {
	out := make([]assignment, 0, len(sets))
	seen := make(map[string]bool, len(sets))
	for _, s := range sets {
		col, val, ok := strings.Cut(s, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --set %q: want column=value", s)
		}
		key := strings.ToLower(col)
		if seen[key] {
			return nil, fmt.Errorf("column %q set twice", col)
		}
		seen[key] = true
		out = append(out, assignment{Column: col, Value: parseLiteral(val)})
	}
	return out, nil
}

// columnsAndLiterals splits assignments into parallel column and SQL literal lists.
func columnsAndLiterals(as []assignment) (cols, lits []string) {
	cols = make([]string, len(as))
	lits = make([]string, len(as))
	for i, a := range as {
		cols[i] = a.Column
		lits[i] = xcrud.FormatValue(a.Value)
	}
	return cols, lits
}

// keyLiteral finds the key column among the assignments, ignoring case, and
// returns its SQL literal.
func keyLiteral(as []assignment, key string) (string, bool) {
	for _, a := range as {
		if strings.EqualFold(a.Column, key) {
			return xcrud.FormatValue(a.Value), true
		}
	}
	return "", false
}
