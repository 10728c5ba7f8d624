package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gridpath-server/config"
	"gridpath-server/grid"
	"gridpath-server/instance"
	"gridpath-server/pathfinding"
	"gridpath-server/render"
)

var (
	taskID        int
	mapPath       string
	startFlag     string
	goalFlag      string
	finalFlag     string
	ticks         int
	diagonal      bool
	maxExpansions int
	heuristicName string
	pngPath       string
	color         bool
	interval      time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "gridpath",
	Short:         "Search weighted grid maps for paths to a moving goal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the preset tasks",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, t := range config.TaskList() {
			final := "-"
			if t.FinalGoal != nil {
				final = t.FinalGoal.String()
			}
			fmt.Fprintf(out, "%d  start %-8s goal %-8s final %-8s %s\n", t.ID, t.Start, t.Goal, final, t.MapFile)
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Advance the goal, search, and print the final frame",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel(cmd)
		if err != nil {
			return err
		}
		opts, err := searchOptions(cmd)
		if err != nil {
			return err
		}
		return runTicks(cmd, model, opts)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Animate the goal and the path in the terminal (q or Esc quits)",
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadModel(cmd)
		if err != nil {
			return err
		}
		opts, err := searchOptions(cmd)
		if err != nil {
			return err
		}
		return watch(model, opts, interval, ticks)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, watchCmd} {
		f := cmd.Flags()
		f.IntVar(&taskID, "task", 0, "Preset task to load (see `gridpath tasks`).")
		f.StringVar(&mapPath, "map", "", "CSV cost map to load instead of a task.")
		f.StringVar(&startFlag, "start", "", "Start cell as row,col.")
		f.StringVar(&goalFlag, "goal", "", "Goal cell as row,col.")
		f.StringVar(&finalFlag, "final", "", "Cell the goal walks to, as row,col.")
		f.BoolVar(&diagonal, "diagonal", false, "Allow diagonal moves.")
		f.IntVar(&maxExpansions, "max-expansions", pathfinding.DefaultMaxExpansions, "Expansion cap per search.")
		f.StringVar(&heuristicName, "heuristic", "", "Heuristic: squared_euclidean or manhattan.")
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 0, "Ticks to advance before the final search.")
	runCmd.Flags().StringVar(&pngPath, "png", "", "Write the final frame as a PNG to this path.")
	runCmd.Flags().BoolVar(&color, "color", false, "Print the frame with terminal colours.")
	watchCmd.Flags().IntVar(&ticks, "ticks", 0, "Stop ticking after this many ticks (0 runs until quit).")
	watchCmd.Flags().DurationVar(&interval, "interval", 250*time.Millisecond, "Delay between ticks.")

	rootCmd.AddCommand(tasksCmd, runCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// parsePosition reads "row,col".
func parsePosition(s string) (grid.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return grid.Position{}, fmt.Errorf("position %q: want row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return grid.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return grid.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	return grid.Position{Row: row, Col: col}, nil
}

// loadModel builds the map model from --task or --map, with --start, --goal
// and --final overriding the task's cells.
func loadModel(cmd *cobra.Command) (*instance.MapModel, error) {
	cfg := config.LoadConfig()
	var (
		g           *grid.Grid
		start, goal grid.Position
		final       *grid.Position
		err         error
	)
	switch {
	case taskID != 0 && mapPath != "":
		return nil, fmt.Errorf("--task and --map are mutually exclusive")
	case taskID != 0:
		task, err := config.TaskByID(taskID)
		if err != nil {
			return nil, err
		}
		if g, err = grid.LoadCSV(task.MapPath(cfg.MapsDir)); err != nil {
			return nil, err
		}
		start, goal, final = task.Start, task.Goal, task.FinalGoal
	case mapPath != "":
		if startFlag == "" || goalFlag == "" {
			return nil, fmt.Errorf("--map needs --start and --goal")
		}
		if g, err = grid.LoadCSV(mapPath); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("one of --task or --map is required")
	}

	if startFlag != "" {
		if start, err = parsePosition(startFlag); err != nil {
			return nil, err
		}
	}
	if goalFlag != "" {
		if goal, err = parsePosition(goalFlag); err != nil {
			return nil, err
		}
	}
	if finalFlag != "" {
		p, err := parsePosition(finalFlag)
		if err != nil {
			return nil, err
		}
		final = &p
	}
	return instance.NewMapModel(g, start, goal, final)
}

// searchOptions starts from the environment config and applies any flags
// set on cmd.
func searchOptions(cmd *cobra.Command) ([]pathfinding.Option, error) {
	cfg := config.LoadConfig()
	flags := cmd.Flags()
	if flags.Changed("diagonal") {
		cfg.AllowDiagonal = diagonal
	}
	if flags.Changed("max-expansions") {
		if maxExpansions < 0 {
			return nil, fmt.Errorf("--max-expansions must not be negative")
		}
		cfg.MaxExpansions = maxExpansions
	}
	opts := cfg.SearchOptions()
	if heuristicName != "" {
		h, ok := pathfinding.HeuristicByName(heuristicName)
		if !ok {
			return nil, fmt.Errorf("unknown heuristic %q", heuristicName)
		}
		opts = append(opts, pathfinding.WithHeuristic(h))
	}
	return opts, nil
}

func summary(tick int, goal grid.Position, res pathfinding.Result) string {
	return fmt.Sprintf("tick %d  goal %s  %s  cost %g  length %d  expanded %d",
		tick, goal, res.Status, res.Cost, len(res.Path), res.Expanded)
}

// runTicks searches once, then again every time the goal moves, and prints
// the last frame.
func runTicks(cmd *cobra.Command, model *instance.MapModel, opts []pathfinding.Option) error {
	out := cmd.OutOrStdout()
	res, err := model.FindPath(opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, summary(0, model.Goal(), res))

	for i := 1; i <= ticks; i++ {
		before := model.Goal()
		if model.Tick() == before {
			continue
		}
		if res, err = model.FindPath(opts...); err != nil {
			return err
		}
		fmt.Fprintln(out, summary(i, model.Goal(), res))
	}
	if model.Goals().Stalled() {
		fmt.Fprintf(out, "goal stalled at %s\n", model.Goal())
	}

	frame := model.Frame(res.Path)
	if color {
		fmt.Fprint(out, render.Styled(frame))
	} else {
		fmt.Fprint(out, render.Text(frame))
	}
	if pngPath != "" {
		if err := render.SavePNG(pngPath, frame, config.LoadConfig().ImageScale); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", pngPath)
	}
	return nil
}
