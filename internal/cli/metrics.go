package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uldpack/pkg/errors"
	"github.com/matzehuels/uldpack/pkg/metrics"
)

func (c *CLI) metricsCommand() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute shape metrics for one loaded ULD",
		Long:  `Metrics reads a JSON file describing a loaded ULD (interior dimensions, capacity, placed boxes) and prints moment-of-inertia, utilization, and stability figures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "read input %q", inputPath)
			}
			var req metrics.Request
			if err := json.Unmarshal(data, &req); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse input %q", inputPath)
			}

			printKV("packages", "%d", len(req.Packages))
			printKV("moi", "%.4f", metrics.MomentOfInertia(req))
			printKV("volume", "%.1f%%", 100*metrics.VolumeUtilization(req))
			printKV("weight", "%.1f%%", 100*metrics.WeightUtilization(req))
			printKV("stability", "%.4f", metrics.Stability(req))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "loaded-ULD JSON file (required)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
