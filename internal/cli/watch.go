package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/uldpack/pkg/observability"
	"github.com/matzehuels/uldpack/pkg/pipeline"
)

// genMsg is sent for every evaluated generation.
type genMsg struct {
	gen     int
	fitness float64
}

// doneMsg is sent when the pipeline finishes.
type doneMsg struct {
	result *pipeline.Result
	err    error
}

// forwardHooks forwards solver generation events into the bubbletea program.
type forwardHooks struct {
	observability.NoopSolverHooks
	program *tea.Program
}

func (h *forwardHooks) OnGeneration(ctx context.Context, generation int, bestFitness float64) {
	h.program.Send(genMsg{gen: generation, fitness: bestFitness})
}

// watchModel is the bubbletea model for the live solve view.
type watchModel struct {
	generations int
	gen         int
	fitness     float64
	started     time.Time
	done        bool
	err         error
	result      *pipeline.Result
}

func (m watchModel) Init() tea.Cmd { return nil }

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case genMsg:
		m.gen = msg.gen
		m.fitness = msg.fitness
		return m, nil
	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.err = context.Canceled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n",
		StyleTitle.Render("solving"),
		StyleDim.Render(fmt.Sprintf("generation %d/%d  best fitness %s  elapsed %s",
			m.gen+1, m.generations,
			StyleNumber.Render(fmt.Sprintf("%.0f", m.fitness)),
			time.Since(m.started).Round(time.Second))))
}

// runWatch executes the pipeline while showing a live generation view.
// Solver hooks are swapped for the duration of the run and restored after.
func (c *CLI) runWatch(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	model := watchModel{generations: opts.Params.Generations, started: time.Now()}
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr))

	prev := observability.Solver()
	observability.SetSolverHooks(&forwardHooks{program: program})
	defer observability.SetSolverHooks(prev)

	go func() {
		result, err := runner.Execute(ctx, opts)
		program.Send(doneMsg{result: result, err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return nil, err
	}
	m := final.(watchModel)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
