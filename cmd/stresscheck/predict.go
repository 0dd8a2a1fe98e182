package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/stresscheck/internal/output"
	"github.com/crimson-sun/stresscheck/internal/output/file"
	"github.com/crimson-sun/stresscheck/internal/output/stdout"
	"github.com/crimson-sun/stresscheck/internal/pipeline"
	"github.com/crimson-sun/stresscheck/internal/source"
)

func newPredictCmd(a *app) *cobra.Command {
	var (
		workers   int
		verbosity string
		pretty    bool
		outPath   string
		appendOut bool
	)
	cmd := &cobra.Command{
		Use:   "predict [file|-]",
		Short: "Score newline-delimited JSON answer sets",
		Long: `Reads one JSON answer set per line (canonical field names, optional "id")
from a file or stdin and writes one JSON report per line to stdout, in input
order. Lines that cannot be decoded or scored produce an error report and
scoring continues. With --out the reports go to a file instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if verbosity != "" {
				cfg.Output.Verbosity = verbosity
			}
			if pretty {
				cfg.Output.Pretty = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			v, err := output.ParseVerbosity(cfg.Output.Verbosity)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			cls, err := openClassifier(cfg)
			if err != nil {
				return err
			}
			eng, err := newEngine(cfg, cls)
			if err != nil {
				cls.Close()
				return err
			}
			defer eng.Close()

			var out output.Output = stdout.NewWriter(cmd.OutOrStdout(), v, cfg.Output.Pretty)
			if outPath != "" {
				var opts []file.Option
				if appendOut {
					opts = append(opts, file.WithAppend())
				}
				if cfg.Output.Pretty {
					opts = append(opts, file.WithPretty())
				}
				if out, err = file.New(outPath, v, opts...); err != nil {
					return err
				}
			}

			p := pipeline.New(source.NewNDJSON(in), eng, out, pipeline.WithWorkers(workers))
			sum, err := p.Run(cmd.Context())
			if cerr := p.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			slog.Info("predictions written", "scored", sum.Scored, "failed", sum.Failed, "by_label", sum.ByLabel)
			if sum.Scored == 0 && sum.Failed > 0 {
				return fmt.Errorf("no records scored (%d failed)", sum.Failed)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "records scored concurrently")
	cmd.Flags().StringVar(&verbosity, "verbosity", "", "minimal, standard or full (default from STRESSCHECK_VERBOSITY)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write reports to this file instead of stdout")
	cmd.Flags().BoolVar(&appendOut, "append", false, "append to --out instead of truncating it")
	return cmd
}
