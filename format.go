package xcrud

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// TimeLayout is the literal form of time.Time values: no zone, no fraction.
const TimeLayout = "2006-01-02 15:04:05"

// FormatValue renders v as a SQL literal for inlining into statement text.
//
// The rules are deliberately small:
//
//   - nil, nil pointers and NULL driver.Valuer results render as NULL
//   - strings are single-quoted with every ' doubled; nothing else is escaped
//   - time.Time renders as 'YYYY-MM-DD HH:MM:SS' in the value's own location
//   - bool renders as 1 or 0
//   - []byte renders as a hex literal X'...'
//   - anything else uses its fmt.Sprint form, unquoted
//
// Doubling quotes is the only escaping performed. Values that reach SQL text
// this way are trusted; backslashes are passed through untouched, so servers
// running without NO_BACKSLASH_ESCAPES interpret them. Callers writing
// untrusted text should use parameterized statements instead.
//
// FormatValue never fails. Types whose fmt.Sprint form is not a valid literal
// (structs, maps, NaN) produce invalid SQL, which the server rejects.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quoteString(x)
	case time.Time:
		return "'" + x.Format(TimeLayout) + "'"
	case bool:
		return formatBool(x)
	case []byte:
		if x == nil {
			return "NULL"
		}
		return "X'" + hex.EncodeToString(x) + "'"
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "NULL"
		}
		// A pointer may itself be the Valuer (e.g. *MyNullable).
		if vr, ok := rv.Interface().(driver.Valuer); ok {
			return formatValuer(vr, v)
		}
		rv = rv.Elem()
	}

	if vr, ok := rv.Interface().(driver.Valuer); ok {
		return formatValuer(vr, v)
	}

	switch rv.Kind() {
	case reflect.String:
		return quoteString(rv.String())
	case reflect.Bool:
		return formatBool(rv.Bool())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return FormatValue(rv.Bytes())
		}
	case reflect.Struct:
		if t, ok := rv.Interface().(time.Time); ok {
			return FormatValue(t)
		}
	}
	return fmt.Sprint(rv.Interface())
}

func formatValuer(vr driver.Valuer, orig any) string {
	dv, err := vr.Value()
	if err != nil {
		return fmt.Sprint(orig)
	}
	if _, again := dv.(driver.Valuer); again {
		// Guard against a Valuer returning itself.
		return fmt.Sprint(dv)
	}
	return FormatValue(dv)
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// QuoteIdent wraps a table or column name in backticks. The name is not
// validated or escaped.
func QuoteIdent(name string) string {
	return "`" + name + "`"
}
