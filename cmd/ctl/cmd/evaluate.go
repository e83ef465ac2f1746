package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
	"github.com/jpfielding/ophdicom.go/pkg/extract"
	"github.com/jpfielding/ophdicom.go/pkg/report"
)

// NewEvaluateCmd evaluates a single file and prints one line per element
func NewEvaluateCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <file>",
		Short: "evaluate one DICOM file against its rule table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("rules")
			asJSON, _ := cmd.Flags().GetBool("json")
			errorsOnly, _ := cmd.Flags().GetBool("errors")

			ds, err := extract.New(nil).Load(ctx, args[0])
			if err != nil {
				return err
			}
			rs, err := s.ruleSetFor(key, ds.SOPClassUID)
			if err != nil {
				return err
			}
			rep := report.Assemble(rs, []*extract.Dataset{ds})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					File     string              `json:"file"`
					Rules    string              `json:"rules"`
					Outcomes compliance.Outcomes `json:"outcomes"`
				}{ds.Path, rs.Key, rep.Outcomes[0]})
			}

			fmt.Fprintf(out, "%s: %s\n", ds.Path, rs)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, row := range rep.Rows {
				c := row.Cells[0]
				if errorsOnly && !c.Outcome.IsError() {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.Module, row.Tag, row.Name, c.Outcome, c.Display)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			sum := rep.Summary()[0]
			fmt.Fprintf(out, "%d errors\n", sum.Errors)
			return nil
		},
	}
	f := cmd.Flags()
	f.String("rules", "", "rule set key (default: by SOP class)")
	f.Bool("json", false, "print the outcome map as JSON")
	f.Bool("errors", false, "only print elements that need a tag or value")
	return cmd
}
