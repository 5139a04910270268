package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/go-mizu/xcrud"
	"github.com/spf13/cobra"
)

var (
	// Version information
	Version = "0.1.0"

	// Global flags
	opts    options
	dsn     string
	verbose bool
	timeout time.Duration

	// Color definitions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	sqlColor     = color.New(color.FgYellow)
)

// options holds the statement flags shared by every subcommand.
type options struct {
	Table string
	Sets  []string
	Key   string
	Value string
	Where string
	Order string
	Page  int
	Size  int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xcrud",
		Short: "Build and run single-table MySQL statements",
		Long: `xcrud builds INSERT, UPSERT, UPDATE, DELETE and SELECT statements for one
MySQL table from command-line flags.

Without --dsn the statement is printed. With --dsn it is executed and, for
select and page, the rows are printed as a table.

Values passed to --set and --value are typed: null, integers, floats and
true/false keep their SQL meaning, anything else is quoted text.

Examples:
  xcrud insert --table users --set id=1 --set name=ada
  xcrud update --table users --key id --value 1 --set name=bob
  xcrud page --table users --order id --page 2 --size 20 --dsn 'u:p@tcp(db:3306)/app'`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.Table, "table", "t", "", "Table name")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "MySQL DSN; when set the statement is executed")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every statement to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for connecting and running the statement")
	_ = rootCmd.MarkPersistentFlagRequired("table")

	setFlag := func(c *cobra.Command) {
		c.Flags().StringArrayVarP(&opts.Sets, "set", "s", nil, "Column assignment col=value (repeatable)")
	}
	keyFlag := func(c *cobra.Command) {
		c.Flags().StringVarP(&opts.Key, "key", "k", "", "Key column")
	}
	valueFlag := func(c *cobra.Command) {
		c.Flags().StringVar(&opts.Value, "value", "", "Key value")
	}
	whereFlag := func(c *cobra.Command) {
		c.Flags().StringVarP(&opts.Where, "where", "w", "", "Raw SQL predicate")
	}

	insertCmd := &cobra.Command{Use: "insert", Short: "Insert one row", Args: cobra.NoArgs, RunE: run}
	setFlag(insertCmd)

	upsertCmd := &cobra.Command{Use: "upsert", Short: "Insert one row or update it on a duplicate key", Args: cobra.NoArgs, RunE: run}
	setFlag(upsertCmd)
	keyFlag(upsertCmd)

	updateCmd := &cobra.Command{Use: "update", Short: "Update the row with the given key", Args: cobra.NoArgs, RunE: run}
	setFlag(updateCmd)
	keyFlag(updateCmd)
	valueFlag(updateCmd)

	deleteCmd := &cobra.Command{Use: "delete", Short: "Delete the rows with the given key", Args: cobra.NoArgs, RunE: run}
	keyFlag(deleteCmd)
	valueFlag(deleteCmd)

	selectCmd := &cobra.Command{Use: "select", Short: "Select rows", Args: cobra.NoArgs, RunE: run}
	whereFlag(selectCmd)

	pageCmd := &cobra.Command{Use: "page", Short: "Select one page of rows", Args: cobra.NoArgs, RunE: run}
	whereFlag(pageCmd)
	pageCmd.Flags().StringVarP(&opts.Order, "order", "o", "", "Raw SQL ORDER BY expression")
	pageCmd.Flags().IntVarP(&opts.Page, "page", "p", 1, "Page number, starting at 1")
	pageCmd.Flags().IntVar(&opts.Size, "size", 50, "Rows per page")

	for _, c := range []*cobra.Command{upsertCmd, updateCmd, deleteCmd} {
		_ = c.MarkFlagRequired("key")
	}
	rootCmd.AddCommand(insertCmd, upsertCmd, updateCmd, deleteCmd, selectCmd, pageCmd)
	return rootCmd
}

func run(cmd *cobra.Command, _ []string) error {
	query, read, err := buildStatement(cmd.Name(), opts, cmd.Flags().Changed("value"))
	if err != nil {
		return err
	}
	if dsn == "" {
		sqlColor.Fprintln(cmd.OutOrStdout(), query)
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg := &xcrud.Config{}
	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		cfg.Logger = xcrud.SlogLogger(logger, slog.LevelDebug)
	}

	db, err := xcrud.OpenMySQL(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	if read {
		rows, err := xcrud.QueryRows(ctx, db, cfg, query)
		if err != nil {
			return err
		}
		n, err := printRows(cmd.OutOrStdout(), rows)
		if err != nil {
			return err
		}
		infoColor.Fprintf(cmd.ErrOrStderr(), "%d row(s)\n", n)
		return nil
	}

	res, err := xcrud.Exec(ctx, db, cfg, query)
	if err != nil {
		if xcrud.IsDuplicateKey(err) {
			return fmt.Errorf("duplicate key in %s: %w", opts.Table, err)
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	successColor.Fprintf(cmd.OutOrStdout(), "%s: %d row(s) affected\n", cmd.Name(), affected)
	return nil
}

// buildStatement turns a subcommand name and its flags into SQL. read reports
// whether the statement returns rows. hasValue tells an explicit empty
// --value apart from an absent one.
func buildStatement(verb string, o options, hasValue bool) (query string, read bool, err error) {
	if o.Table == "" {
		return "", false, errors.New("--table is required")
	}
	sets, err := parseAssignments(o.Sets)
	if err != nil {
		return "", false, err
	}
	cols, lits := columnsAndLiterals(sets)

	switch verb {
	case "insert":
		query, err = xcrud.BuildInsert(o.Table, cols, [][]string{lits})
	case "upsert":
		if _, ok := keyLiteral(sets, o.Key); !ok {
			return "", false, fmt.Errorf("key column %q needs a --set value", o.Key)
		}
		query, err = xcrud.BuildUpsert(o.Table, cols, [][]string{lits}, o.Key)
	case "update":
		keyLit, err := updateKey(sets, o, hasValue)
		if err != nil {
			return "", false, err
		}
		query, err = xcrud.BuildUpdate(o.Table, cols, lits, o.Key, keyLit)
		return query, false, err
	case "delete":
		if !hasValue {
			return "", false, errors.New("--value is required")
		}
		query, err = xcrud.BuildDelete(o.Table, o.Key, xcrud.FormatValue(parseLiteral(o.Value)))
	case "select":
		query, err = xcrud.BuildSelect(o.Table, o.Where)
		read = true
	case "page":
		query, err = xcrud.BuildPagedSelect(o.Table, o.Where, o.Order, o.Page, o.Size)
		read = true
	default:
		return "", false, fmt.Errorf("unknown command %q", verb)
	}
	if err != nil {
		return "", false, err
	}
	return query, read, nil
}

func updateKey(sets []assignment, o options, hasValue bool) (string, error) {
	if hasValue {
		return xcrud.FormatValue(parseLiteral(o.Value)), nil
	}
	if lit, ok := keyLiteral(sets, o.Key); ok {
		return lit, nil
	}
	return "", fmt.Errorf("key column %q needs --value or a --set value", o.Key)
}

// printRows writes rows as a tab-aligned table, NULLs shown as NULL, and
// closes them.
func printRows(w io.Writer, rows *sql.Rows) (n int, err error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeLine(tw, cols)

	vals := make([]any, len(cols))
	dests := make([]any, len(cols))
	for i := range vals {
		dests[i] = &vals[i]
	}
	cells := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(dests...); err != nil {
			return n, err
		}
		for i, v := range vals {
			cells[i] = cell(v)
		}
		writeLine(tw, cells)
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	return n, tw.Flush()
}

func writeLine(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(xcrud.TimeLayout)
	default:
		return fmt.Sprint(x)
	}
}
