// Package estimation computes per-task numeric estimations from a story's
// budget: condition filtering, proportional renormalization of percentages,
// rounding, assignment macro resolution and placeholder interpolation.
package estimation

import (
	"fmt"
	"math"
	"strings"

	"github.com/josephgoksu/atomize/internal/condition"
	"github.com/josephgoksu/atomize/models"
	"github.com/rs/zerolog"
)

// Config carries the calculation knobs for one template.
type Config struct {
	Rounding          models.RoundingMode
	MinimumTaskPoints float64
	// Identity resolves the @Me assignment macro.
	Identity string
	// InheritAssignee makes tasks without an assignTo default to the
	// story's assignee.
	InheritAssignee bool
	DefaultActivity string
}

// Result is the outcome of calculating one story against a template.
type Result struct {
	Tasks    []models.CalculatedTask
	Skipped  []models.SkippedTask
	Warnings []string
}

// Calculator evaluates template tasks against stories.
type Calculator struct {
	conditions *condition.Evaluator
	log        zerolog.Logger
}

// New creates a Calculator.
func New(log zerolog.Logger) *Calculator {
	return &Calculator{
		conditions: condition.New(log),
		log:        log,
	}
}

// Calculate resolves the template tasks against one story. Tasks whose
// condition is not met are recorded in Skipped; the remaining tasks have
// their percentages renormalized to sum to exactly 100 whenever at least one
// task was skipped, then their estimations computed from the story's budget.
func (c *Calculator) Calculate(story models.WorkItem, defs []models.TaskDefinition, cfg Config) Result {
	var res Result

	budget := story.Estimation
	if budget <= 0 {
		budget = 0
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("story %s has no estimation; tasks will carry zero estimation", story.ID))
	}

	// Condition filtering.
	var retained []models.TaskDefinition
	for _, def := range defs {
		if def.Condition != "" && !c.conditions.Evaluate(def.Condition, story) {
			res.Skipped = append(res.Skipped, models.SkippedTask{
				TemplateID: def.ID,
				Title:      def.Title,
				Reason:     fmt.Sprintf("condition not met: %s", strings.TrimSpace(def.Condition)),
			})
			continue
		}
		retained = append(retained, def)
	}

	percents := c.renormalize(retained, len(res.Skipped) > 0)

	for i, def := range retained {
		task := models.CalculatedTask{
			TemplateID:   def.ID,
			Title:        Interpolate(def.Title, story),
			Description:  Interpolate(def.Description, story),
			Tags:         def.Tags,
			Priority:     def.Priority,
			Activity:     def.Activity,
			DependsOn:    def.DependsOn,
			CustomFields: def.CustomFields,
		}
		if task.Activity == "" {
			task.Activity = cfg.DefaultActivity
		}

		switch {
		case def.HasFixed():
			task.Estimation = math.Max(*def.EstimationFixed, cfg.MinimumTaskPoints)
		case def.EstimationFormula != "":
			c.log.Warn().Str("task", def.Title).Str("formula", def.EstimationFormula).
				Msg("estimation formulas are not supported; using 0")
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("task %q uses an unsupported estimation formula; estimation set to 0", def.Title))
			task.Estimation = math.Max(0, cfg.MinimumTaskPoints)
		default:
			task.EstimationPercent = percents[i]
			raw := budget * percents[i] / 100
			task.Estimation = math.Max(round(raw, cfg.Rounding), cfg.MinimumTaskPoints)
		}

		task.AssignedTo = resolveAssignee(def.AssignTo, story, cfg)
		res.Tasks = append(res.Tasks, task)
	}
	return res
}

// renormalize returns the effective percentage for each retained task, by
// retained index. Fixed and formula tasks never participate and report 0.
//
// When anything was skipped and the percent-bearing tasks do not already sum
// to 100, each percentage is rescaled proportionally with the last task
// receiving the exact remainder so the sum is 100 regardless of rounding
// error. A zero declared sum distributes equally, remainder on the first
// task. When nothing was skipped the author's declared values are respected.
func (c *Calculator) renormalize(retained []models.TaskDefinition, anySkipped bool) []float64 {
	percents := make([]float64, len(retained))
	var eligible []int
	sum := 0.0
	for i, def := range retained {
		if def.HasFixed() || def.EstimationFormula != "" {
			continue
		}
		percents[i] = def.Percent()
		eligible = append(eligible, i)
		sum += def.Percent()
	}
	if !anySkipped || len(eligible) == 0 || sum == 100 {
		return percents
	}

	declared := make([]float64, len(eligible))
	for n, idx := range eligible {
		declared[n] = percents[idx]
	}
	for n, scaled := range ScaleToHundred(declared) {
		percents[eligible[n]] = scaled
	}
	return percents
}

// ScaleToHundred rescales the values proportionally so they sum to exactly
// 100. All but the last value are rounded; the last receives the exact
// remainder so the sum holds regardless of rounding error. An all-zero input
// distributes equally with the remainder on the first value.
func ScaleToHundred(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		base := math.Floor(100 / float64(len(values)))
		for i := range out {
			out[i] = base
		}
		out[0] += 100 - base*float64(len(values))
		return out
	}
	allocated := 0.0
	for i, v := range values {
		if i == len(values)-1 {
			out[i] = 100 - allocated
			break
		}
		out[i] = math.Round(v * 100 / sum)
		allocated += out[i]
	}
	return out
}

func round(v float64, mode models.RoundingMode) float64 {
	switch mode {
	case models.RoundUp:
		return math.Ceil(v)
	case models.RoundDown:
		return math.Floor(v)
	case models.RoundNearest:
		return math.Round(v)
	default:
		// No integer rounding: truncate to two decimal places.
		return math.Trunc(v*100) / 100
	}
}

// resolveAssignee applies the assignment macros. The empty return value
// means the task is left unassigned.
func resolveAssignee(assignTo string, story models.WorkItem, cfg Config) string {
	if assignTo == "" {
		if cfg.InheritAssignee {
			return story.AssignedTo
		}
		return ""
	}
	switch macro, literal := models.ParseAssignee(assignTo); macro {
	case models.AssigneeParent:
		return story.AssignedTo
	case models.AssigneeMe:
		return cfg.Identity
	case models.AssigneeUnassigned:
		return ""
	default:
		return literal
	}
}

// Interpolate substitutes the ${story.title}, ${story.id} and
// ${story.description} placeholders.
func Interpolate(s string, story models.WorkItem) string {
	if s == "" {
		return s
	}
	r := strings.NewReplacer(
		"${story.title}", story.Title,
		"${story.id}", story.ID,
		"${story.description}", story.Description,
	)
	return r.Replace(s)
}
