package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/uldpack/internal/config"
	"github.com/matzehuels/uldpack/pkg/errors"
	"github.com/matzehuels/uldpack/pkg/pack"
	"github.com/matzehuels/uldpack/pkg/pipeline"
)

// solveInput is the JSON shape of the solve input file.
type solveInput struct {
	Packages []pack.Package `json:"packages"`
	ULDs     []pack.ULD     `json:"ulds"`
}

func (c *CLI) solveCommand() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		configPath string
		seed       int64
		population int
		gens       int
		elites     int
		eliteBias  float64
		noCache    bool
		refresh    bool
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Pack packages into ULDs and derive the loading order",
		Long:  `Solve reads a JSON file with packages and ULDs, runs the genetic packing search, and writes the placements and loading order as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			input, err := readSolveInput(inputPath)
			if err != nil {
				return err
			}

			params := cfg.Solver.Params()
			if cmd.Flags().Changed("population") {
				params.Population = population
			}
			if cmd.Flags().Changed("generations") {
				params.Generations = gens
			}
			if cmd.Flags().Changed("elites") {
				params.Elites = elites
			}
			if cmd.Flags().Changed("elite-bias") {
				params.EliteBias = eliteBias
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Solver.Seed
			}

			runner, err := c.newRunner(cfg, noCache)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Packages: input.Packages,
				ULDs:     input.ULDs,
				Params:   params,
				Seed:     seed,
				Refresh:  refresh,
				Logger:   c.Logger,
			}

			var result *pipeline.Result
			if watch {
				result, err = c.runWatch(ctx, runner, opts)
			} else {
				sp := newSpinner(ctx, "Solving...")
				sp.Start()
				result, err = runner.Execute(ctx, opts)
				sp.Stop()
			}
			if err != nil {
				return err
			}

			c.printSolveSummary(result, input)

			return writeJSONOutput(outputPath, result)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input JSON file with packages and ulds (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path")
	cmd.Flags().Int64Var(&seed, "seed", pipeline.DefaultSeed, "random seed for reproducible runs")
	cmd.Flags().IntVar(&population, "population", 2, "population size")
	cmd.Flags().IntVar(&gens, "generations", 500, "number of generations")
	cmd.Flags().IntVar(&elites, "elites", 1, "elite chromosomes carried per generation")
	cmd.Flags().Float64Var(&eliteBias, "elite-bias", 0.8, "crossover probability of inheriting the elite gene")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the solution cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached solutions, solve fresh")
	cmd.Flags().BoolVar(&watch, "watch", false, "show live generation progress")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func readSolveInput(path string) (*solveInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read input %q", path)
	}
	var input solveInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse input %q", path)
	}
	return &input, nil
}

func writeJSONOutput(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// printSolveSummary renders a per-ULD load table plus overall counters to
// stderr, keeping stdout free for the JSON result.
func (c *CLI) printSolveSummary(result *pipeline.Result, input *solveInput) {
	uldsByID := make(map[string]pack.ULD, len(input.ULDs))
	for _, u := range input.ULDs {
		uldsByID[u.ID] = u
	}
	pkgWeights := make(map[string]float64, len(input.Packages))
	for _, p := range input.Packages {
		pkgWeights[p.ID] = p.Weight
	}

	type row struct {
		count  int
		weight float64
		volume float64
	}
	rows := make(map[string]*row)
	for _, pl := range result.Placements {
		r := rows[pl.ULDID]
		if r == nil {
			r = &row{}
			rows[pl.ULDID] = r
		}
		r.count++
		r.weight += pkgWeights[pl.PackageID]
		r.volume += float64(pl.X2-pl.X1) * float64(pl.Y2-pl.Y1) * float64(pl.Z2-pl.Z1)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(r, col int) lipgloss.Style {
			if r == -1 {
				return headerStyle
			}
			return StyleValue
		}).
		Headers("ULD", "PACKAGES", "WEIGHT", "VOLUME %")

	for _, u := range input.ULDs {
		r := rows[u.ID]
		if r == nil {
			r = &row{}
		}
		uldVolume := u.Length * u.Width * u.Height
		t.Row(
			u.ID,
			fmt.Sprintf("%d", r.count),
			fmt.Sprintf("%.1f / %.1f", r.weight, u.Capacity),
			fmt.Sprintf("%.1f", 100*r.volume/uldVolume),
		)
	}
	fmt.Fprintln(os.Stderr, t.Render())

	printKV("placed", "%d of %d", result.Stats.Placed, len(input.Packages))
	printKV("fitness", "%.0f", result.Fitness)
	if result.CacheInfo.Hit {
		printKV("cache", "hit")
	}
	if len(result.Unplaced) > 0 {
		printWarning("unplaced: %v", result.Unplaced)
	} else {
		printSuccess("all packages placed")
	}
}
