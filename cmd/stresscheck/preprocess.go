package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/stresscheck/internal/intake"
	"github.com/crimson-sun/stresscheck/internal/model"
)

func newPreprocessCmd(a *app) *cobra.Command {
	var form bool
	cmd := &cobra.Command{
		Use:   "preprocess [file]",
		Short: "Show the normalized record and feature vectors for one answer set",
		Long: `Reads one answer set (JSON or YAML, keyed by canonical field name) from
a file or stdin and prints its normalized record, raw vector and scaled
vector. No model is needed.

With --form the input uses the web questionnaire's field names instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			raw, err := decodeAnswers(data, form)
			if err != nil {
				return err
			}

			eng, err := newEngine(a.cfg, nil)
			if err != nil {
				return err
			}
			tr, err := eng.Preprocess(raw)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Features []string `json:"features"`
				model.Trace
			}{eng.Schema().Names(), tr})
		},
	}
	cmd.Flags().BoolVar(&form, "form", false, "input uses questionnaire field names")
	return cmd
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

// decodeAnswers accepts JSON or YAML; JSON documents parse as YAML.
func decodeAnswers(data []byte, form bool) (model.RawAnswers, error) {
	if form {
		return intake.Parse(data)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return model.AnswersFromMap(m), nil
}
