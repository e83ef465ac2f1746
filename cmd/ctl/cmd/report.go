package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
	"github.com/jpfielding/ophdicom.go/pkg/report"
)

// NewReportCmd groups a folder of files by SOP class and writes one report per rule set
func NewReportCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <input-dir> <device_protocol>",
		Short: "write compliance reports for a folder of DICOM files",
		Long: `Discovers DICOM files under input-dir, groups them by SOP Class UID and writes
<out>/<device>/<device_protocol>_eval_<rules>.<csv|json|xlsx> plus an _extra.csv
of the tags each file carries beyond the rule table (a second sheet for xlsx)
and a _nested file expanding the group's sequences.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("rules")
			presentOK, _ := cmd.Flags().GetBool("preferred-ok")
			skipNested, _ := cmd.Flags().GetBool("no-nested")
			return runReport(ctx, s, cmd.OutOrStdout(), args[0], args[1], key, presentOK, skipNested)
		},
	}
	f := cmd.Flags()
	f.Int("workers", 0, "files decoded in parallel (default NumCPU)")
	f.Duration("timeout", 0, "per file decode timeout (default 60s)")
	f.StringP("out", "o", "", "output folder (default .)")
	f.StringP("format", "f", "", "grid format (csv|json|xlsx)")
	f.String("rules", "", "force one rule set for every file instead of grouping by SOP class")
	f.Bool("preferred-ok", false, "report present PREFERRED elements as OK")
	f.Bool("no-nested", false, "skip the per group export of nested sequence content")
	return cmd
}

func runReport(ctx context.Context, s *settings, stdout io.Writer, inputDir, deviceProtocol, key string, presentOK, skipNested bool) error {
	cfg := s.cfg
	files, err := report.Discover(inputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%s: %w", inputDir, report.ErrNoFiles)
	}
	slog.InfoContext(ctx, "discovered files", "dir", inputDir, "count", len(files))

	opts := []report.Option{report.WithWorkers(cfg.Workers), report.WithTimeout(cfg.Timeout)}
	if presentOK {
		opts = append(opts, report.WithEvalOptions(compliance.WithPresentPreferredOK()))
	}

	batch, err := report.Load(ctx, files, opts...)
	if err != nil {
		return err
	}
	if len(batch.Datasets) == 0 {
		return fmt.Errorf("every file in %s failed to decode", inputDir)
	}

	var groups []report.Group
	if key != "" {
		rs, err := s.ruleSetFor(key, "")
		if err != nil {
			return err
		}
		groups = []report.Group{{RuleSet: rs, Datasets: batch.Datasets}}
	} else {
		var unmatched []string
		grouped, rest := report.GroupBySOPClass(batch.Datasets, s.catalog)
		for _, ds := range rest {
			unmatched = append(unmatched, ds.Path)
			slog.WarnContext(ctx, "no rule set for SOP class", "file", ds.Path, "sop_class", ds.SOPClassUID)
		}
		groups = grouped
		if len(groups) == 0 {
			return fmt.Errorf("none of %d files has a known SOP class", len(unmatched))
		}
	}

	var errs []error
	for _, g := range groups {
		rep := report.Assemble(g.RuleSet, g.Datasets, opts...)
		if err := writeReport(cfg.Out, deviceProtocol, cfg.Format, rep); err != nil {
			errs = append(errs, err)
			continue
		}
		if seqs := report.SequencesFor(g.RuleSet); len(seqs) > 0 && !skipNested {
			if err := writeNested(cfg.Out, deviceProtocol, cfg.Format, report.BuildNested(rep.Key, seqs, g.Datasets)); err != nil {
				errs = append(errs, err)
			}
		}
		grid, _ := report.OutputPaths(cfg.Out, deviceProtocol, rep.Key, cfg.Format)
		fmt.Fprintf(stdout, "%-24s %4d files %5d errors  %s\n", rep.Name, len(rep.Files), rep.Errors(), grid)
	}
	for _, f := range batch.Failures {
		fmt.Fprintf(stdout, "skipped %s: %v\n", f.File, f.Err)
	}
	return errors.Join(errs...)
}

func writeReport(out, deviceProtocol, format string, rep *report.Report) error {
	grid, extras := report.OutputPaths(out, deviceProtocol, rep.Key, format)
	if err := os.MkdirAll(filepath.Dir(grid), 0o755); err != nil {
		return err
	}
	switch format {
	case "xlsx": // extras are a sheet of the workbook
		return writeTo(grid, rep, report.WriteXLSX)
	case "json":
		if err := writeTo(grid, rep, report.WriteJSON); err != nil {
			return err
		}
	default:
		if err := writeTo(grid, rep, report.WriteCSV); err != nil {
			return err
		}
	}
	return writeTo(extras, rep, report.WriteExtrasCSV)
}

func writeNested(out, deviceProtocol, format string, n *report.Nested) error {
	write := report.WriteNestedCSV
	switch format {
	case "xlsx":
		write = report.WriteNestedXLSX
	case "json":
		write = report.WriteNestedJSON
	}
	return writeTo(report.NestedPath(out, deviceProtocol, n.Key, format), n, write)
}

func writeTo[T any](path string, v T, write func(io.Writer, T) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, v); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
