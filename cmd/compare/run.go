package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bespaarwijzer/backend/internal/usecase"
)

// newRunCmd creates the run subcommand.
func newRunCmd() *cobra.Command {
	var (
		input    string
		annotate bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compare the promotion records in a file",
		Example: `  compare run --input promotions.json
  compare run --input promotions.yaml --annotate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			records, err := loadRecords(input)
			if err != nil {
				return err
			}
			logger.Info().Str("input", input).Int("records", len(records)).Msg("records loaded")

			service := usecase.NewComparisonService(nil, nil, usecase.ComparisonServiceConfig{
				Matching: usecase.MatchConfig{
					MinSavingsPct:      cfg.Matching.MinSavingsPct,
					MaxResults:         cfg.Matching.MaxResults,
					MinNameSimilarity:  cfg.Matching.MinNameSimilarity,
					MaxVolumeRatio:     cfg.Matching.MaxVolumeRatio,
					MaxCountRatio:      cfg.Matching.MaxCountRatio,
					Workers:            cfg.Matching.Workers,
					EnableDebugLogging: cfg.Matching.EnableDebugLogging || verbose,
				},
			}, logger)

			var out interface{}
			if annotate {
				out = map[string]interface{}{"products": service.Annotate(records)}
			} else {
				resp, err := service.Compare(ctx, records)
				if err != nil {
					return fmt.Errorf("compare: %w", err)
				}
				out = resp
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "records file (.json, .yaml or .yml)")
	cmd.Flags().BoolVar(&annotate, "annotate", false, "print the annotated records instead of comparisons")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "maximum time to spend matching")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
