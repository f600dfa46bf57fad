package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/stacklok/sobject-gateway/internal/config"
	"github.com/stacklok/sobject-gateway/internal/filtering"
	"github.com/stacklok/sobject-gateway/internal/gateway"
	"github.com/stacklok/sobject-gateway/internal/query"
	"github.com/stacklok/sobject-gateway/internal/schema"
	"github.com/stacklok/sobject-gateway/internal/sobjectapi"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// newGateway builds a one-shot gateway from the --config file
func newGateway(cmd *cobra.Command) (gateway.Service, error) {
	v, err := bindFlags(cmd, "config")
	if err != nil {
		return nil, err
	}
	path := v.GetString("config")
	if path == "" {
		return nil, errors.New("--config is required")
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := sobjectapi.NewFromConfig(cfg.API)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	store := filtering.NewStore()
	store.SetConfiguration(cfg.Filter)
	return gateway.New(client, store), nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	switch format {
	case formatTable, formatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use %s or %s)", format, formatTable, formatJSON)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, header []any, rows [][]any) error {
	table := tablewriter.NewWriter(w)
	table.Header(header...)
	for _, row := range rows {
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	return table.Render()
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the visible SObject classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			patterns, err := cmd.Flags().GetStringSlice("match")
			if err != nil {
				return err
			}
			matcher, err := filtering.NewNameMatcher(patterns...)
			if err != nil {
				return err
			}

			svc, err := newGateway(cmd)
			if err != nil {
				return err
			}
			names, err := svc.ListSObjects(cmd.Context())
			if err != nil {
				return err
			}
			return printNames(cmd.OutOrStdout(), format, matcher.Filter(names))
		},
	}
	cmd.Flags().StringSlice("match", nil, "Only list classes matching these glob patterns")
	cmd.Flags().StringP("output", "o", formatTable, "Output format (table or json)")
	return cmd
}

func printNames(w io.Writer, format string, names []string) error {
	if format == formatJSON {
		if names == nil {
			names = []string{}
		}
		return writeJSON(w, names)
	}

	rows := make([][]any, 0, len(names))
	for _, name := range names {
		rows = append(rows, []any{name})
	}
	return writeTable(w, []any{"SObject"}, rows)
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe NAME",
		Short: "Describe the visible fields of an SObject class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			rejected, err := cmd.Flags().GetBool("rejected")
			if err != nil {
				return err
			}

			svc, err := newGateway(cmd)
			if err != nil {
				return err
			}
			if !svc.IsClassVisible(args[0]) {
				return fmt.Errorf("%w: %s", gateway.ErrClassNotVisible, args[0])
			}
			desc, err := svc.DescribeSObject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printDescription(cmd.OutOrStdout(), format, desc, rejected)
		},
	}
	cmd.Flags().Bool("rejected", false, "Include the fields removed by the filter policy")
	cmd.Flags().StringP("output", "o", formatTable, "Output format (table or json)")
	return cmd
}

func printDescription(w io.Writer, format string, desc *schema.Description, rejected bool) error {
	if !rejected {
		shown := *desc
		shown.RejectedFields = nil
		desc = &shown
	}
	if format == formatJSON {
		return writeJSON(w, desc)
	}

	rows := make([][]any, 0, len(desc.Fields)+len(desc.RejectedFields))
	for _, f := range desc.Fields {
		rows = append(rows, []any{f.Name, f.Type, f.Label, "visible"})
	}
	for _, f := range desc.RejectedFields {
		rows = append(rows, []any{f.Name, f.Type, f.Label, "rejected"})
	}
	return writeTable(w, []any{"Field", "Type", "Label", "Status"}, rows)
}

func newSOQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soql",
		Short: "Build a SOQL statement and optionally execute it",
		Long: `Build a SOQL statement from its components.

Without --select the statement selects the visible fields of the --from class,
which requires --config. With --execute the statement is run against the
configured API and the records are printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: runSOQL,
	}
	cmd.Flags().String("select", "", "SELECT field list")
	cmd.Flags().String("from", "", "SObject to query")
	cmd.Flags().String("where", "", "WHERE condition")
	cmd.Flags().String("order-by", "", "ORDER BY expression")
	cmd.Flags().String("limit", "", "LIMIT value")
	cmd.Flags().Bool("execute", false, "Execute the statement and print the records")
	return cmd
}

var soqlFlags = map[string]query.Component{
	"select":   query.ComponentSelect,
	"from":     query.ComponentFrom,
	"where":    query.ComponentWhere,
	"order-by": query.ComponentOrderBy,
	"limit":    query.ComponentLimit,
}

func runSOQL(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	execute, err := flags.GetBool("execute")
	if err != nil {
		return err
	}

	var (
		svc     gateway.Service
		builder = query.New()
	)

	if !flags.Changed("select") && flags.Changed("from") {
		from, _ := flags.GetString("from")
		if svc, err = newGateway(cmd); err != nil {
			return err
		}
		qs, err := svc.NewQuery(cmd.Context(), from)
		if err != nil {
			return err
		}
		builder = qs.Builder()
	}

	for name, component := range soqlFlags {
		if !flags.Changed(name) {
			continue
		}
		value, _ := flags.GetString(name)
		builder.Set(component, value)
	}

	soql, err := builder.Build()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), soql); err != nil {
		return err
	}
	if !execute {
		return nil
	}

	if svc == nil {
		if svc, err = newGateway(cmd); err != nil {
			return err
		}
	}
	records, err := svc.Query(cmd.Context(), soql)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), records)
}
