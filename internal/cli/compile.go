package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratadb/strata/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Table string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <query-doc>",
		Short: "Compile a query document to parameterized SQL",
		Long: `Compile a query document (YAML or JSON) to a parameterized SQL
statement and its ordered argument list.

Values never appear in the SQL text; inspect the argument list to see
what would be bound at execution time.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Table, "table", "t", "", "target table name (required)")
	cmd.MarkFlagRequired("table")

	return cmd
}

func runCompile(opts *CompileOptions, docPath string, cmd *cobra.Command) error {
	q, err := LoadQueryDoc(docPath)
	if err != nil {
		return err
	}

	compiled := querysql.NewCompiler().Compile(opts.Table, q)

	if opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "compiled query for table %q with %d bound argument(s)\n",
			opts.Table, len(compiled.Args))
	}

	if opts.Format == "json" {
		payload := map[string]any{"sql": compiled.SQL, "args": compiled.Args}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	fmt.Fprintln(cmd.OutOrStdout(), compiled.SQL)
	for i, arg := range compiled.Args {
		fmt.Fprintf(cmd.OutOrStdout(), "  ?%d = %v\n", i+1, arg)
	}
	return nil
}
