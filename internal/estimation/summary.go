package estimation

import (
	"fmt"
	"math"

	"github.com/josephgoksu/atomize/models"
)

// Summary is a read-only aggregation of a story's calculated tasks against
// its own estimation. It never corrects anything.
type Summary struct {
	StoryEstimation float64 `json:"storyEstimation"`
	TaskTotal       float64 `json:"taskTotal"`
	Difference      float64 `json:"difference"`
	PercentUsed     float64 `json:"percentUsed"`
}

// Total sums the estimations of the calculated tasks.
func Total(tasks []models.CalculatedTask) float64 {
	var sum float64
	for _, t := range tasks {
		sum += t.Estimation
	}
	return sum
}

// Summarize compares the task total against the story's estimation.
func Summarize(story models.WorkItem, tasks []models.CalculatedTask) Summary {
	total := Total(tasks)
	s := Summary{
		StoryEstimation: story.Estimation,
		TaskTotal:       total,
		Difference:      total - story.Estimation,
	}
	if story.Estimation > 0 {
		s.PercentUsed = total / story.Estimation * 100
	}
	return s
}

// ValidateEstimation returns warnings when the task total drifts from the
// story estimation by more than half a point, or when any task ended up with
// a zero estimation.
func ValidateEstimation(story models.WorkItem, tasks []models.CalculatedTask) []string {
	var warnings []string
	if diff := Summarize(story, tasks).Difference; math.Abs(diff) > 0.5 {
		warnings = append(warnings,
			fmt.Sprintf("task estimations differ from story estimation by %.2f", diff))
	}
	for _, t := range tasks {
		if t.Estimation == 0 {
			warnings = append(warnings, fmt.Sprintf("task %q has zero estimation", t.Title))
		}
	}
	return warnings
}
