package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/ophdicom.go/pkg/compliance"
	"github.com/jpfielding/ophdicom.go/pkg/config"
	"github.com/jpfielding/ophdicom.go/pkg/logging"
)

// settings are resolved once per invocation in PersistentPreRunE
type settings struct {
	cfg     *config.Config
	catalog *compliance.Catalog
	logOut  io.WriteCloser
}

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	s := &settings{}
	cmd := &cobra.Command{
		Use:           "ophctl",
		Short:         "ophthalmic DICOM compliance reporting",
		Long:          "checks ophthalmic DICOM files against per SOP class attribute tables and writes compliance reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			s.cfg = cfg

			// Parse log level
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Log.Level))); err != nil {
				level = slog.LevelInfo
			}
			var w io.Writer = os.Stderr
			if cfg.Log.File != "" {
				s.logOut = logging.RotatingWriter(cfg.Log.File, 50, 3, 28)
				w = s.logOut
			}
			slog.SetDefault(logging.Logger(w, cfg.Log.JSON, level))

			var extra []*compliance.RuleSet
			if cfg.Rules.Dir != "" {
				extra, err = compliance.LoadRuleSetDir(cfg.Rules.Dir)
				if err != nil {
					return fmt.Errorf("loading rule tables: %w", err)
				}
				slog.DebugContext(ctx, "loaded rule tables", "dir", cfg.Rules.Dir, "count", len(extra))
			}
			s.catalog = compliance.NewCatalog(extra...)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logOut != nil {
				s.logOut.Close()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewReportCmd(ctx, s),
		NewEvaluateCmd(ctx, s),
		NewExtractCmd(ctx, s),
		NewRulesCmd(ctx, s),
		NewDecodeCmd(ctx),
		NewAnalyzeCmd(ctx, s),
	)
	pf := cmd.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "write logs to a rotating file instead of stderr")
	pf.Bool("log-json", false, "log as JSON")
	pf.String("rules-dir", "", "directory of YAML rule tables that add to or replace the built-ins")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

// ruleSetFor resolves --rules when given, otherwise the file's SOP class
func (s *settings) ruleSetFor(key, sopClass string) (*compliance.RuleSet, error) {
	if key != "" {
		rs, ok := s.catalog.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("unknown rule set %q", key)
		}
		return rs, nil
	}
	rs, ok := s.catalog.ForSOPClass(sopClass)
	if !ok {
		return nil, fmt.Errorf("no rule set for SOP class %q (use --rules)", sopClass)
	}
	return rs, nil
}
