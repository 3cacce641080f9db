package models

import "time"

// StoryResult is the outcome of atomizing a single story.
type StoryResult struct {
	StoryID    string `json:"storyId"`
	StoryTitle string `json:"storyTitle,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`

	TasksCalculated int `json:"tasksCalculated"`
	TasksCreated    int `json:"tasksCreated"`
	TasksSkipped    int `json:"tasksSkipped"`

	// Tasks holds the calculated tasks for dry runs, where no work items
	// are created to point at.
	Tasks []CalculatedTask `json:"tasks,omitempty"`

	CreatedIDs []string      `json:"createdIds,omitempty"`
	Skipped    []SkippedTask `json:"skipped,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// AtomizationReport aggregates a full run. It is built once per run and is
// immutable after the orchestrator returns it.
type AtomizationReport struct {
	RunID     string        `json:"runId"`
	DryRun    bool          `json:"dryRun"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`

	StoriesProcessed int `json:"storiesProcessed"`
	StoriesSucceeded int `json:"storiesSucceeded"`
	StoriesFailed    int `json:"storiesFailed"`

	TasksCalculated int `json:"tasksCalculated"`
	TasksCreated    int `json:"tasksCreated"`
	TasksSkipped    int `json:"tasksSkipped"`

	Results  []StoryResult `json:"results"`
	Warnings []string      `json:"warnings,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
}

// Record appends a story result and updates the aggregate counters.
func (r *AtomizationReport) Record(res StoryResult) {
	r.Results = append(r.Results, res)
	r.StoriesProcessed++
	if res.Success {
		r.StoriesSucceeded++
	} else {
		r.StoriesFailed++
		if res.Error != "" {
			r.Errors = append(r.Errors, res.StoryID+": "+res.Error)
		}
	}
	r.TasksCalculated += res.TasksCalculated
	r.TasksCreated += res.TasksCreated
	r.TasksSkipped += res.TasksSkipped
}
