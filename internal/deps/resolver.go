// Package deps orders template tasks by their declared predecessor edges and
// detects dependency cycles.
package deps

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/atomize/models"
	"github.com/rs/zerolog"
)

// CycleError reports a dependency cycle. Path holds the ordered task ids
// forming the cycle so a template author can diagnose it directly.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s -> %s",
		strings.Join(e.Path, " -> "), e.Path[0])
}

// Resolver orders task definitions.
type Resolver struct {
	log zerolog.Logger
}

// New creates a Resolver.
func New(log zerolog.Logger) *Resolver {
	return &Resolver{log: log}
}

// ResolveOrder returns the tasks ordered so that every task appears after
// all tasks it depends on. Tasks without an id are leaves: they cannot be a
// dependency target. An edge to an id absent from the set is dropped with a
// warning rather than failing. A cycle fails with a CycleError carrying the
// cycle path; the outcome is deterministic for a given input order.
func (r *Resolver) ResolveOrder(tasks []models.TaskDefinition) ([]models.TaskDefinition, error) {
	byID := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if t.ID != "" {
			byID[t.ID] = i
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(tasks))
	sorted := make([]models.TaskDefinition, 0, len(tasks))
	var stack []string

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			// Cycle: slice the recursion stack from the first occurrence of
			// this task's id.
			id := tasks[i].ID
			for start, sid := range stack {
				if sid == id {
					return &CycleError{Path: append([]string(nil), stack[start:]...)}
				}
			}
			return &CycleError{Path: []string{id}}
		}
		state[i] = visiting
		stack = append(stack, tasks[i].ID)

		for _, dep := range tasks[i].DependsOn {
			j, ok := byID[dep]
			if !ok {
				r.log.Warn().Str("task", tasks[i].Title).Str("dependsOn", dep).
					Msg("dependency target not found in template; edge dropped")
				continue
			}
			if err := visit(j); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		state[i] = done
		sorted = append(sorted, tasks[i])
		return nil
	}

	for i := range tasks {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
