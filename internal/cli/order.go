package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uldpack/pkg/errors"
	"github.com/matzehuels/uldpack/pkg/loadorder"
	"github.com/matzehuels/uldpack/pkg/pack"
	"github.com/matzehuels/uldpack/pkg/pipeline"
)

func (c *CLI) orderCommand() *cobra.Command {
	var (
		inputPath  string
		dotPath    string
		renderPath string
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Derive the loading sequence from a solved placement",
		Long:  `Order reads a solve result, rebuilds the support-dependency graph, and prints the loading sequence. The graph can also be exported as DOT or rendered with Graphviz.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.Logger

			result, err := readResult(inputPath)
			if err != nil {
				return err
			}

			placements, pkgs, ulds := fromRecords(result.Placements)
			p := newProgress(logger)
			seq, g, err := loadorder.Compute(placements, pkgs, ulds)
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Ordered %d packages, %d dependencies", g.NodeCount(), g.EdgeCount()))

			if dotPath != "" {
				dot := loadorder.ToDOT(g, loadorder.DOTOptions{Detailed: detailed})
				if err := os.WriteFile(dotPath, []byte(dot), 0644); err != nil {
					return err
				}
				printSuccess("wrote %s", dotPath)
			}

			if renderPath != "" {
				dot := loadorder.ToDOT(g, loadorder.DOTOptions{Detailed: detailed})
				var data []byte
				switch {
				case strings.HasSuffix(renderPath, ".svg"):
					data, err = loadorder.RenderSVG(cmd.Context(), dot)
				case strings.HasSuffix(renderPath, ".png"):
					data, err = loadorder.RenderPNG(cmd.Context(), dot)
				default:
					return errors.New(errors.ErrCodeInvalidFormat, "render target must end in .svg or .png, got %q", renderPath)
				}
				if err != nil {
					return err
				}
				if err := os.WriteFile(renderPath, data, 0644); err != nil {
					return err
				}
				printSuccess("wrote %s", renderPath)
			}

			for _, id := range seq {
				fmt.Println(id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "solve result JSON file (required)")
	cmd.Flags().StringVar(&dotPath, "dot", "", "write the dependency graph as DOT")
	cmd.Flags().StringVar(&renderPath, "render", "", "render the graph to an .svg or .png file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include ULD and position in graph labels")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func readResult(path string) (*pipeline.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read result %q", path)
	}
	var result pipeline.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse result %q", path)
	}
	return &result, nil
}

// fromRecords rebuilds engine placements from wire records. Only ids and
// coordinates matter for the loading order, so the synthetic package and
// ULD lists carry ids alone.
func fromRecords(records []pipeline.PlacementRecord) ([]pack.Placement, []pack.Package, []pack.ULD) {
	placements := make([]pack.Placement, 0, len(records))
	var pkgs []pack.Package
	var ulds []pack.ULD
	uldIdx := make(map[string]int)

	for _, rec := range records {
		uid, ok := uldIdx[rec.ULDID]
		if !ok {
			uid = len(ulds)
			uldIdx[rec.ULDID] = uid
			ulds = append(ulds, pack.ULD{ID: rec.ULDID})
		}
		pkgs = append(pkgs, pack.Package{ID: rec.PackageID})
		placements = append(placements, pack.Placement{
			Package: len(pkgs) - 1,
			ULD:     uid,
			Min:     pack.Point{rec.X1, rec.Y1, rec.Z1},
			Max:     pack.Point{rec.X2, rec.Y2, rec.Z2},
		})
	}
	return placements, pkgs, ulds
}
