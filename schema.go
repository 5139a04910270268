package xcrud

import (
	"fmt"
	"reflect"
)

// Field is one column of a record type: its name plus an accessor that reads
// the column value from a record and a mutator that stores a driver value
// into one.
type Field[T any] struct {
	Name string
	get  func(*T) any
	set  func(*T, any) error
}

// Get returns the field's current value in rec.
func (f Field[T]) Get(rec *T) any { return f.get(rec) }

// Set converts the driver value src and stores it in rec.
func (f Field[T]) Set(rec *T, src any) error { return f.set(rec, src) }

// Col declares a column whose storage is the variable ref returns.
//
//	func (User) Columns() []xcrud.Field[User] {
//	    return []xcrud.Field[User]{
//	        xcrud.Col("id", func(u *User) *int64 { return &u.ID }),
//	        xcrud.Col("email", func(u *User) *string { return &u.Email }),
//	    }
//	}
func Col[T, V any](name string, ref func(*T) *V) Field[T] {
	return Field[T]{
		Name: name,
		get:  func(rec *T) any { return *ref(rec) },
		set:  func(rec *T, src any) error { return assign(ref(rec), src) },
	}
}

// Mapped is implemented by record types that declare their columns
// explicitly instead of relying on struct reflection. Columns is called once
// per schema; its order is the column order of generated statements.
type Mapped[T any] interface {
	Columns() []Field[T]
}

// Schema is the ordered column set of a record type. Writes (column lists,
// value tuples) and reads (row mapping) both enumerate it, so the order is
// the same everywhere a Schema is used.
type Schema[T any] struct {
	rt     reflect.Type
	fields []Field[T]
	byName map[string]int // lower-case name -> index into fields
}

// SchemaOf returns the schema of T: its Mapped declaration when T (or *T)
// implements Mapped, otherwise the result of Reflect.
func SchemaOf[T any]() (*Schema[T], error) {
	var zero T
	if m, ok := any(zero).(Mapped[T]); ok {
		return NewSchema(m.Columns()...)
	}
	if m, ok := any(&zero).(Mapped[T]); ok {
		return NewSchema(m.Columns()...)
	}
	return Reflect[T]()
}

// NewSchema builds a schema from explicit field declarations. Column names
// must be unique ignoring case.
func NewSchema[T any](fields ...Field[T]) (*Schema[T], error) {
	s := &Schema[T]{
		rt:     reflect.TypeOf((*T)(nil)).Elem(),
		fields: make([]Field[T], 0, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" || f.get == nil || f.set == nil {
			return nil, fmt.Errorf("xcrud: incomplete field declaration %q on %s", f.Name, s.rt)
		}
		lc := toLowerAscii(f.Name)
		if _, dup := s.byName[lc]; dup {
			return nil, fmt.Errorf("%w: %q on %s", ErrDuplicateColumn, f.Name, s.rt)
		}
		s.byName[lc] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	if len(s.fields) == 0 {
		return nil, fmt.Errorf("%w: %s declares no columns", ErrNoColumns, s.rt)
	}
	return s, nil
}

// Reflect builds the schema of struct type T from its exported fields in
// declaration order.
//
//   - `db:"name"` renames the column; `db:"-"` skips the field.
//   - Anonymous struct fields, and fields tagged `db:",inline"`, are
//     flattened in place.
//   - When two fields resolve to the same name, the first one wins.
//   - Otherwise the Go field name is the column name.
func Reflect[T any]() (*Schema[T], error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotStruct, rt)
	}
	var fields []Field[T]
	for _, sf := range structFields(rt) {
		fields = append(fields, reflectField[T](sf.name, sf.path))
	}
	return NewSchema(fields...)
}

// Fields returns the schema's fields in column order.
func (s *Schema[T]) Fields() []Field[T] {
	return append([]Field[T](nil), s.fields...)
}

// Names returns the column names in order.
func (s *Schema[T]) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Lookup finds a field by column name, ignoring case.
func (s *Schema[T]) Lookup(name string) (Field[T], bool) {
	i, ok := s.byName[toLowerAscii(name)]
	if !ok {
		return Field[T]{}, false
	}
	return s.fields[i], true
}

// Key resolves a key column. An unknown name yields a *MappingError.
func (s *Schema[T]) Key(name string) (Field[T], error) {
	f, ok := s.Lookup(name)
	if !ok {
		return Field[T]{}, &MappingError{Type: s.rt, Column: name}
	}
	return f, nil
}

// Literals formats every column value of rec, in column order.
func (s *Schema[T]) Literals(rec *T) []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = FormatValue(f.get(rec))
	}
	return out
}

// ---------------- Struct walking & tags ----------------

type structField struct {
	name string
	path []int
}

// structFields lists the mappable fields of rt in declaration order,
// descending into inline and embedded structs.
func structFields(rt reflect.Type) []structField {
	var out []structField
	seen := make(map[string]struct{})

	var walk func(t reflect.Type, base []int, forceInline bool)
	walk = func(t reflect.Type, base []int, forceInline bool) {
		t = derefPtr(t)
		if t.Kind() != reflect.Struct {
			return
		}
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.PkgPath != "" && !sf.Anonymous { // unexported, non-anonymous
				continue
			}
			tag := sf.Tag.Get("db")
			name, inline, omit := parseTag(tag)
			if omit {
				continue
			}
			ft := sf.Type
			path := append(append([]int(nil), base...), i)

			if inline || (sf.Anonymous && (forceInline || tag == "")) {
				if ft.Kind() == reflect.Ptr && sf.PkgPath != "" {
					// Unexported embedded pointers cannot be allocated.
					continue
				}
				if isStruct(ft) && !isTimeType(derefPtr(ft)) {
					walk(ft, path, inline)
					continue
				}
			}
			if sf.PkgPath != "" {
				continue
			}
			if name == "" {
				name = sf.Name
			}
			lc := toLowerAscii(name)
			if _, ok := seen[lc]; ok {
				continue
			}
			seen[lc] = struct{}{}
			out = append(out, structField{name: name, path: path})
		}
	}
	walk(rt, nil, false)
	return out
}

// parseTag supports: "-", "col", ",inline", "col,inline", "inline,col".
func parseTag(tag string) (name string, inline bool, omit bool) {
	if tag == "-" {
		return "", false, true
	}
	if tag == "" {
		return "", false, false
	}
	start := 0
	for i := 0; i <= len(tag); i++ {
		if i == len(tag) || tag[i] == ',' {
			part := tag[start:i]
			if part == "inline" {
				inline = true
			} else if part != "" && name == "" {
				name = part
			}
			start = i + 1
		}
	}
	return name, inline, false
}

func reflectField[T any](name string, path []int) Field[T] {
	return Field[T]{
		Name: name,
		get: func(rec *T) any {
			v, ok := fieldByPath(reflect.ValueOf(rec).Elem(), path)
			if !ok {
				return nil
			}
			return v.Interface()
		},
		set: func(rec *T, src any) error {
			return assignValue(fieldByPathAlloc(reflect.ValueOf(rec).Elem(), path), src)
		},
	}
}

// fieldByPath walks fpath for reading; a nil embedded pointer on the way
// reports ok=false.
func fieldByPath(root reflect.Value, fpath []int) (reflect.Value, bool) {
	v := root
	for _, i := range fpath {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v, true
}

// fieldByPathAlloc walks fpath, allocating nil embedded pointers so the final
// field is addressable. The final field itself is left as is.
func fieldByPathAlloc(root reflect.Value, fpath []int) reflect.Value {
	v := root
	for _, i := range fpath {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

func isStruct(t reflect.Type) bool { return derefPtr(t).Kind() == reflect.Struct }

func derefPtr(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
