package xcrud

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
)

// timeLayouts are tried, in order, when a date/time column arrives as text.
var timeLayouts = []string{
	TimeLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02",
}

// assign stores the driver value src into *dst. The common driver shapes are
// handled without reflection; everything else goes through assignValue.
func assign[V any](dst *V, src any) error {
	switch d := any(dst).(type) {
	case *string:
		switch s := src.(type) {
		case string:
			*d = s
			return nil
		case []byte:
			*d = string(s)
			return nil
		}
	case *int64:
		if s, ok := src.(int64); ok {
			*d = s
			return nil
		}
	case *int:
		if s, ok := src.(int64); ok {
			*d = int(s)
			return nil
		}
	case *float64:
		if s, ok := src.(float64); ok {
			*d = s
			return nil
		}
	case *bool:
		if s, ok := src.(bool); ok {
			*d = s
			return nil
		}
	case *time.Time:
		if s, ok := src.(time.Time); ok {
			*d = s
			return nil
		}
	}
	return assignValue(reflect.ValueOf(dst).Elem(), src)
}

// assignValue converts src and stores it into the settable dst. A nil src
// leaves dst untouched.
//
// It covers:
//   - fields implementing sql.Scanner (src handed to Scan)
//   - pointer fields (allocated, then filled)
//   - []byte -> string and named string types
//   - integer / unsigned / float widenings and text numerals
//   - 0/1, "true"/"false" -> bool
//   - text timestamps -> time.Time
func assignValue(dst reflect.Value, src any) error {
	if src == nil {
		return nil
	}
	if dst.CanAddr() && reflect.PointerTo(dst.Type()).Implements(scannerType) {
		return dst.Addr().Interface().(sql.Scanner).Scan(src)
	}
	if dst.Kind() == reflect.Ptr {
		nv := reflect.New(dst.Type().Elem())
		if err := assignValue(nv.Elem(), src); err != nil {
			return err
		}
		dst.Set(nv)
		return nil
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dst.Type()) {
		if b, ok := src.([]byte); ok {
			src = append([]byte(nil), b...)
			sv = reflect.ValueOf(src)
		}
		dst.Set(sv)
		return nil
	}

	if dst.Type() == timeType {
		t, err := asTime(src)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(t))
		return nil
	}

	switch dst.Kind() {
	case reflect.String:
		s, ok := asString(src)
		if !ok {
			break
		}
		dst.SetString(s)
		return nil
	case reflect.Bool:
		b, err := driver.Bool.ConvertValue(src)
		if err != nil {
			return fmt.Errorf("xcrud: converting %T to %s: %w", src, dst.Type(), err)
		}
		dst.SetBool(b.(bool))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := asInt64(src)
		if err != nil {
			return fmt.Errorf("xcrud: converting %T to %s: %w", src, dst.Type(), err)
		}
		if dst.OverflowInt(n) {
			return fmt.Errorf("xcrud: value %d overflows %s", n, dst.Type())
		}
		dst.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := asUint64(src)
		if err != nil {
			return fmt.Errorf("xcrud: converting %T to %s: %w", src, dst.Type(), err)
		}
		if dst.OverflowUint(n) {
			return fmt.Errorf("xcrud: value %d overflows %s", n, dst.Type())
		}
		dst.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := asFloat64(src)
		if err != nil {
			return fmt.Errorf("xcrud: converting %T to %s: %w", src, dst.Type(), err)
		}
		dst.SetFloat(f)
		return nil
	case reflect.Slice:
		if dst.Type().Elem().Kind() != reflect.Uint8 {
			break
		}
		switch s := src.(type) {
		case []byte:
			dst.SetBytes(append([]byte(nil), s...))
			return nil
		case string:
			dst.SetBytes([]byte(s))
			return nil
		}
	}

	if sv.Type().ConvertibleTo(dst.Type()) && sv.Kind() == dst.Kind() {
		dst.Set(sv.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("xcrud: cannot assign %T to %s", src, dst.Type())
}

func asString(src any) (string, bool) {
	switch s := src.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case time.Time:
		return s.Format(TimeLayout), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

func asInt64(src any) (int64, error) {
	rv := reflect.ValueOf(src)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return 0, strconv.ErrRange
		}
		return int64(u), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	if s, ok := textOf(src); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	return 0, fmt.Errorf("unsupported source type %T", src)
}

func asUint64(src any) (uint64, error) {
	rv := reflect.ValueOf(src)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < 0 {
			return 0, strconv.ErrRange
		}
		return uint64(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	}
	if s, ok := textOf(src); ok {
		return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	}
	return 0, fmt.Errorf("unsupported source type %T", src)
}

func asFloat64(src any) (float64, error) {
	rv := reflect.ValueOf(src)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	if s, ok := textOf(src); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return 0, fmt.Errorf("unsupported source type %T", src)
}

func asTime(src any) (time.Time, error) {
	s, ok := textOf(src)
	if !ok {
		return time.Time{}, fmt.Errorf("xcrud: cannot assign %T to time.Time", src)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("xcrud: unrecognised time value %q", s)
}

func textOf(src any) (string, bool) {
	switch s := src.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}

func isTimeType(t reflect.Type) bool { return t == timeType }
