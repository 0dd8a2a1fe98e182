package main

import (
	"fmt"
	"log/slog"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/stresscheck/internal/engine"
	"github.com/crimson-sun/stresscheck/internal/scenario"
)

func newScenariosCmd(a *app) *cobra.Command {
	var (
		file    string
		noModel bool
	)
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Run the reference respondents through the pipeline",
		Long: `Preprocesses each reference scenario and checks the normalized record
against its recorded expectation. When a model is available each scenario
is also classified.

Exits non-zero if any scenario's preprocessing differs from its expectation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scs, err := loadScenarios(file)
			if err != nil {
				return err
			}

			eng, err := a.scenarioEngine(noModel)
			if err != nil {
				return err
			}
			defer eng.Close()

			return runScenarios(cmd, eng, scs)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario YAML file (default: built-in set)")
	cmd.Flags().BoolVar(&noModel, "no-model", false, "preprocess only, skip classification")
	return cmd
}

func loadScenarios(file string) ([]scenario.Scenario, error) {
	if file == "" {
		return scenario.Builtin()
	}
	return scenario.Load(file)
}

// scenarioEngine falls back to preprocessing only when no model loads.
func (a *app) scenarioEngine(noModel bool) (*engine.Engine, error) {
	if noModel {
		return newEngine(a.cfg, nil)
	}
	cls, err := openClassifier(a.cfg)
	if err != nil {
		slog.Warn("model unavailable, preprocessing only", "error", err)
		return newEngine(a.cfg, nil)
	}
	eng, err := newEngine(a.cfg, cls)
	if err != nil {
		cls.Close()
	}
	return eng, err
}

func runScenarios(cmd *cobra.Command, eng *engine.Engine, scs []scenario.Scenario) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPREPROCESS\tEXPECTED\tPREDICTED\tLOW\tMEDIUM\tHIGH")

	var mismatched int
	for _, sc := range scs {
		tr, err := eng.Preprocess(sc.RawAnswers())
		if err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}

		status := "ok"
		if diffs := compareNormalized(sc.Normalized, tr.Normalized); len(diffs) > 0 {
			mismatched++
			status = "MISMATCH"
			for _, d := range diffs {
				slog.Error("preprocessing mismatch", "scenario", sc.Name, "feature", d.feature, "want", d.want, "got", d.got)
			}
		}

		expected := orDash(sc.Expected)
		if !eng.HasClassifier() {
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t-\t-\n", sc.Name, status, expected)
			continue
		}
		v, err := eng.Classify(cmd.Context(), tr)
		if err != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\terror: %v\t-\t-\t-\n", sc.Name, status, expected, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\n", sc.Name, status, expected,
			v.Label, v.Probabilities.Low, v.Probabilities.Medium, v.Probabilities.High)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if mismatched > 0 {
		return fmt.Errorf("%d of %d scenarios did not preprocess as expected", mismatched, len(scs))
	}
	return nil
}

type featureDiff struct {
	feature   string
	want, got float64
}

// compareNormalized checks only the features the scenario pins down.
func compareNormalized(want, got map[string]float64) []featureDiff {
	var diffs []featureDiff
	for feature, w := range want {
		if g, ok := got[feature]; !ok || g != w {
			diffs = append(diffs, featureDiff{feature: feature, want: w, got: g})
		}
	}
	sort.Slice(diffs, func(i, j int) bool { return diffs[i].feature < diffs[j].feature })
	return diffs
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

