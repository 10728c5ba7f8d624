package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"gridpath-server/grid"
)

// Task is a preset start/goal/map combination.
type Task struct {
	ID        int            `json:"id"`
	Start     grid.Position  `json:"start"`
	Goal      grid.Position  `json:"goal"`
	FinalGoal *grid.Position `json:"final_goal,omitempty"` // nil: the goal never moves
	MapFile   string         `json:"map_file"`
}

func pos(row, col int) grid.Position { return grid.Position{Row: row, Col: col} }

func ptr(p grid.Position) *grid.Position { return &p }

// Tasks lists the presets by ID.
var Tasks = map[int]Task{
	1: {ID: 1, Start: pos(27, 18), Goal: pos(40, 32), MapFile: "Samfundet_map_1.csv"},
	2: {ID: 2, Start: pos(40, 32), Goal: pos(8, 5), MapFile: "Samfundet_map_1.csv"},
	3: {ID: 3, Start: pos(28, 32), Goal: pos(6, 32), MapFile: "Samfundet_map_2.csv"},
	4: {ID: 4, Start: pos(28, 32), Goal: pos(6, 32), MapFile: "Samfundet_map_Edgar_full.csv"},
	5: {ID: 5, Start: pos(14, 18), Goal: pos(6, 36), FinalGoal: ptr(pos(6, 7)), MapFile: "Samfundet_map_2.csv"},
}

// TaskByID returns the preset with the given ID.
func TaskByID(id int) (Task, error) {
	t, ok := Tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("unknown task %d", id)
	}
	return t, nil
}

// TaskList returns the presets ordered by ID.
func TaskList() []Task {
	out := make([]Task, 0, len(Tasks))
	for _, t := range Tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MapPath resolves the task's map file inside dir.
func (t Task) MapPath(dir string) string {
	return filepath.Join(dir, t.MapFile)
}
