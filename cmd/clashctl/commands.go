package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/internal/kpis"
)

func newJoinCmd(in *inputs) *cobra.Command {
	var withSkips bool

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join clash, instance and document feeds into clashes",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := in.join()
			if err != nil {
				return err
			}

			if withSkips {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			for reason, n := range result.SkipCounts() {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d record(s): %s\n", n, reason)
			}
			return writeJSON(cmd.OutOrStdout(), result.Clashes)
		},
	}

	cmd.Flags().BoolVar(&withSkips, "skips", false, "print the join result with skipped records")
	return cmd
}

func newKPIsCmd(in *inputs) *cobra.Command {
	return &cobra.Command{
		Use:   "kpis",
		Short: "Summarize a clash collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := in.collection()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), kpis.Aggregate(cs))
		},
	}
}

func newQueryCmd(in *inputs) *cobra.Command {
	var (
		severities []string
		statuses   []string
		discipline string
		level      string
		filter     clashes.Filter
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter, sort and page a clash collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range severities {
				filter.Severity = append(filter.Severity, clashes.Severity(s))
			}
			for _, s := range statuses {
				filter.Status = append(filter.Status, clashes.Status(s))
			}
			if discipline != "" {
				filter.Discipline = &discipline
			}
			if level != "" {
				filter.Level = &level
			}
			if err := filter.Validate(); err != nil {
				return err
			}

			cs, err := in.collection()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), clashes.Query(cs, filter))
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&severities, "severity", nil, "severities to keep ("+joinValues(clashes.Severities)+")")
	flags.StringSliceVar(&statuses, "status", nil, "statuses to keep ("+joinValues(clashes.Statuses)+")")
	flags.StringVar(&discipline, "discipline", "", "keep clashes involving this discipline")
	flags.StringVar(&level, "level", "", "keep clashes on this level")
	flags.StringVar(&filter.SortBy, "sort-by", "", "severity, status, updated_at or created_at")
	flags.StringVar(&filter.SortOrder, "sort-order", "", "asc or desc")
	flags.IntVar(&filter.Page, "page", 1, "page number (1-based)")
	flags.IntVar(&filter.PageSize, "page-size", clashes.DefaultPageSize, "clashes per page")
	return cmd
}

func joinValues[S ~string](values []S) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return strings.Join(out, ", ")
}
