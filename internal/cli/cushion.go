package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uldpack/pkg/metrics"
)

func (c *CLI) cushionCommand() *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "cushion",
		Short: "Report per-ULD cushion volume for a solved placement",
		Long:  `Cushion reads a solve result and reports, per ULD, the total gap volume around the side faces of placed boxes alongside the packed volume.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := readResult(inputPath)
			if err != nil {
				return err
			}

			boxes := make([]metrics.PlacedBox, len(result.Placements))
			for i, rec := range result.Placements {
				boxes[i] = metrics.PlacedBox{
					ULDID:     rec.ULDID,
					PackageID: rec.PackageID,
					X1:        rec.X1, Y1: rec.Y1, Z1: rec.Z1,
					X2: rec.X2, Y2: rec.Y2, Z2: rec.Z2,
				}
			}

			rows := metrics.Cushion(boxes)
			for _, row := range rows {
				fmt.Fprintf(os.Stderr, "ULD %s | cushion %.1f | packed %.1f | ratio %.3f\n",
					row.ULDID, row.CushionVolume, row.PackVolume, row.Ratio)
			}

			if outputPath != "" {
				if err := writeJSONOutput(outputPath, rows); err != nil {
					return err
				}
				printSuccess("wrote %s", outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "solve result JSON file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write rows as JSON")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
