package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratadb/strata/internal/repo"
	"github.com/stratadb/strata/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	DB      string
	Table   string
	Records string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <query-doc>",
		Short: "Run a query document against a backend",
		Long: `Run a query document (YAML or JSON) against a SQLite database
(--db with --table) or a JSON records file (--records) and print the
result envelope.

Both backends produce identical result sets for identical queries.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path")
	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "table name (with --db)")
	cmd.Flags().StringVar(&opts.Records, "records", "", "JSON records file path")

	return cmd
}

func runQuery(opts *QueryOptions, docPath string, cmd *cobra.Command) error {
	q, err := LoadQueryDoc(docPath)
	if err != nil {
		return err
	}

	var repository repo.Repository
	switch {
	case opts.DB != "" && opts.Records != "":
		return fmt.Errorf("--db and --records are mutually exclusive")
	case opts.DB != "":
		if opts.Table == "" {
			return fmt.Errorf("--table is required with --db")
		}
		st, err := store.Open(opts.DB)
		if err != nil {
			return err
		}
		defer st.Close()
		repository = repo.NewSQLRepository(st, opts.Table)
	case opts.Records != "":
		fs, err := store.OpenFile(opts.Records)
		if err != nil {
			return err
		}
		repository = repo.NewRecordRepository(fs)
	default:
		return fmt.Errorf("one of --db or --records is required")
	}

	result, err := repository.Find(cmd.Context(), q)
	if err != nil {
		return err
	}

	if opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "matched %d item(s)\n", len(result.Items))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result.Envelope())
}
