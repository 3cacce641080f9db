package models

// CalculatedTask is a TaskDefinition resolved against one story: placeholders
// substituted, estimation computed, assignee resolved. It lives only for the
// duration of one story's processing.
type CalculatedTask struct {
	// TemplateID is the originating task definition's id, used to remap
	// created work items when building dependency links.
	TemplateID  string `json:"templateId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Estimation float64 `json:"estimation"`
	// EstimationPercent is the post-renormalization percentage this task
	// received, 0 for fixed-estimation tasks.
	EstimationPercent float64 `json:"estimationPercent,omitempty"`

	// AssignedTo is empty when the task is deliberately unassigned.
	AssignedTo string `json:"assignedTo,omitempty"`

	Tags         []string          `json:"tags,omitempty"`
	Priority     *int              `json:"priority,omitempty"`
	Activity     string            `json:"activity,omitempty"`
	DependsOn    []string          `json:"dependsOn,omitempty"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

// SkippedTask records a task definition excluded from a story together with a
// human-readable reason.
type SkippedTask struct {
	TemplateID string `json:"templateId,omitempty"`
	Title      string `json:"title"`
	Reason     string `json:"reason"`
}
