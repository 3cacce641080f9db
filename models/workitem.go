package models

// WorkItem is a tracked unit (story or task) owned by the external work-item
// platform. The engine treats it as an immutable read model; only the ID of
// newly created tasks is assigned on this side of the boundary.
type WorkItem struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Type        string `yaml:"type" json:"type"`
	State       string `yaml:"state,omitempty" json:"state,omitempty"`

	// Estimation is the numeric size value; 0 means "unestimated".
	Estimation float64 `yaml:"estimation,omitempty" json:"estimation,omitempty"`

	AssignedTo   string         `yaml:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Tags         []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
	Priority     int            `yaml:"priority,omitempty" json:"priority,omitempty"`
	AreaPath     string         `yaml:"areaPath,omitempty" json:"areaPath,omitempty"`
	Iteration    string         `yaml:"iteration,omitempty" json:"iteration,omitempty"`
	CustomFields map[string]any `yaml:"customFields,omitempty" json:"customFields,omitempty"`

	Children []WorkItem `yaml:"children,omitempty" json:"children,omitempty"`
}

// HasTag reports whether the item carries the given tag.
func (w WorkItem) HasTag(tag string) bool {
	for _, t := range w.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
