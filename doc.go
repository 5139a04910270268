/*
Package xcrud is a small record-oriented layer over database/sql. Given a Go
record type and a table name it writes the routine statements for you
(insert, select, update, delete, upsert, paged and streaming select), runs
them, and maps result rows back into typed records.

# Overview

	users, err := xcrud.NewTable[User](db, "users", &xcrud.Config{
	    Logger: xcrud.SlogLogger(slog.Default(), slog.LevelDebug),
	})
	if err != nil {
	    return err
	}
	if err := users.Insert(ctx, User{ID: 1, Name: "Ada"}); err != nil {
	    return err
	}
	active, err := users.SelectPage(ctx, "active = 1", "name", 1, 50)

Table works with *sql.DB, *sql.Tx and *sql.Conn. Statements target the MySQL
dialect: backtick-quoted identifiers and INSERT ... ON DUPLICATE KEY UPDATE
for upserts.

# Column mapping

  - A struct's exported fields are its columns, in declaration order.
  - `db:"name"` renames a column, `db:"-"` skips a field, and embedded or
    `db:",inline"` structs are flattened.
  - A type may instead declare its columns by implementing [Mapped] with [Col]
    accessors; no struct reflection is used for such types.
  - Reading, columns bind to fields by name, ignoring case. NULLs and missing
    columns leave zero values; extra columns are ignored.

The column set is resolved once per Table; the same order drives INSERT
column lists, value tuples and row mapping.

# Literal SQL

xcrud inlines values as SQL literals rather than binding parameters; see
[FormatValue] for the exact rules. Strings are quoted with embedded quotes
doubled and nothing else is escaped. Predicate and ORDER BY fragments are
inserted verbatim. Both are trusted input: do not route untrusted text
through them.

# Error handling

  - An unknown key column fails with *[MappingError] before any SQL is built.
  - Driver errors are returned unchanged; xcrud never retries or wraps them.
  - [RunTx] rolls back when its function fails and returns that same error.
  - [IsDuplicateKey] recognises MySQL duplicate-key violations.

# Logging

The only thing xcrud emits is the SQL text of each statement, handed to the
[Config] Logger before execution. Outcomes and errors are left to the caller.
*/
package xcrud
