package xcrud

import "iter"

// Stream yields the records of an open cursor one at a time. Rows are fetched
// only when Next is called, on the caller's goroutine.
//
// The cursor is released as soon as the rows are exhausted or an error
// occurs. A caller that stops early must call Close (or range over All,
// which closes on break). The connection the cursor runs on must not be used
// for other statements until the stream is closed.
//
//	st, err := users.Stream(ctx, "active = 1")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//	for st.Next() {
//	    u := st.Record()
//	    // ...
//	}
//	return st.Err()
type Stream[T any] struct {
	cur    Cursor
	schema *Schema[T]
	plan   *rowPlan[T]
	rec    T
	err    error
	closed bool
}

func newStream[T any](cur Cursor, s *Schema[T]) *Stream[T] {
	return &Stream[T]{cur: cur, schema: s}
}

// Next advances to the next record. It returns false when the rows are
// exhausted, on error, or after Close.
func (s *Stream[T]) Next() bool {
	if s.closed {
		return false
	}
	if s.plan == nil {
		cols, err := s.cur.Columns()
		if err == nil {
			s.plan, err = planRows(s.schema, cols)
		}
		if err != nil {
			s.fail(err)
			return false
		}
	}
	if !s.cur.Next() {
		s.fail(s.cur.Err())
		return false
	}
	rec, err := s.plan.scan(s.cur, s.schema)
	if err != nil {
		s.fail(err)
		return false
	}
	s.rec = rec
	return true
}

// Record returns the record read by the last successful Next.
func (s *Stream[T]) Record() T { return s.rec }

// Err returns the first error met while iterating or closing.
func (s *Stream[T]) Err() error { return s.err }

// Close releases the cursor. It is safe to call more than once.
func (s *Stream[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if cerr := s.cur.Close(); cerr != nil {
		if s.err == nil {
			s.err = cerr
		}
		return cerr
	}
	return nil
}

// All adapts the stream to a range-over-func sequence. The stream is closed
// when the loop ends, including on break. An iteration error is yielded once,
// with a zero record, as the final element.
func (s *Stream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.rec, nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

func (s *Stream[T]) fail(err error) {
	if s.err == nil {
		s.err = err
	}
	_ = s.Close()
}
