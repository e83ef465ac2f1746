package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewRulesCmd lists the rule tables or prints one of them
func NewRulesCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [key]",
		Short: "list rule tables, or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if len(args) == 0 {
				fmt.Fprintln(tw, "KEY\tNAME\tTAGS")
				for _, rs := range s.catalog.All() {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", rs.Key, rs.Name, len(rs.Tags()))
				}
				return tw.Flush()
			}
			rs, err := s.ruleSetFor(args[0], "")
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "ENTITY\tMODULE\tREFERENCE\tTAG\tNAME\tVR\tCONDITION")
			for _, r := range rs.Refs() {
				el := r.Element
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Entity, r.Module, r.Reference, el.Tag, el.Name, el.VR, el.Condition)
			}
			return tw.Flush()
		},
	}
	return cmd
}
