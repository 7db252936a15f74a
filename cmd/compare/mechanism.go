package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bespaarwijzer/backend/internal/usecase"
)

// newMechanismCmd creates the mechanism subcommand.
func newMechanismCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mechanism <tag> <reference-price>",
		Short: "Resolve a promotional mechanism to a price per item",
		Example: `  compare mechanism "2 voor 5,00" 3.49
  compare mechanism "1+1 gratis" 4,00`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, err := strconv.ParseFloat(strings.ReplaceAll(args[1], ",", "."), 64)
			if err != nil {
				return fmt.Errorf("invalid reference price %q: %w", args[1], err)
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
				"tag":             args[0],
				"reference_price": reference,
				"price":           usecase.ResolveMechanism(args[0], reference),
			})
		},
	}
}
