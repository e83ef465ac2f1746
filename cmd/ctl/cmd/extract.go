package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/extract"
)

// NewExtractCmd prints the flattened view of a file
func NewExtractCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "print the flat tag/name/VR/value view of a DICOM file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, _ := cmd.Flags().GetStringSlice("tags")
			extra, _ := cmd.Flags().GetBool("extra")
			key, _ := cmd.Flags().GetString("rules")

			wanted := make([]string, 0, len(tags))
			for _, t := range tags {
				parsed, err := tag.Parse(t)
				if err != nil {
					return fmt.Errorf("--tags: %w", err)
				}
				wanted = append(wanted, parsed.Hex())
			}

			ds, err := extract.New(nil).Load(ctx, args[0])
			if err != nil {
				return err
			}
			if key != "" || extra {
				rs, err := s.ruleSetFor(key, ds.SOPClassUID)
				if err != nil {
					return err
				}
				wanted = append(wanted, rs.Tags()...)
			}
			switch {
			case extra:
				ds = ds.Except(wanted)
			case len(wanted) > 0:
				ds = ds.Only(wanted)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ds)
		},
	}
	f := cmd.Flags()
	f.StringSlice("tags", nil, "only these tags (GGGGEEEE or (GGGG,EEEE))")
	f.String("rules", "", "only the tags of this rule set")
	f.Bool("extra", false, "only the tags outside the file's rule set")
	return cmd
}
