package models

// FilterCriteria is the abstract story filter a template declares. No single
// field is required, but at least one criterion must be present before the
// filter is translated into a platform query.
type FilterCriteria struct {
	// WorkItemTypes and States distinguish "absent" (nil) from "explicitly
	// empty" ([]): an explicitly empty list is a validation error.
	WorkItemTypes []string `yaml:"workItemTypes,omitempty" json:"workItemTypes,omitempty"`
	States        []string `yaml:"states,omitempty" json:"states,omitempty"`

	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	ExcludeTags []string `yaml:"excludeTags,omitempty" json:"excludeTags,omitempty"`
	AreaPath    string   `yaml:"areaPath,omitempty" json:"areaPath,omitempty"`
	Iteration   string   `yaml:"iteration,omitempty" json:"iteration,omitempty"`

	// AssignedTo entries may use the @Me identity macro; translation resolves
	// it against the platform identity.
	AssignedTo []string `yaml:"assignedTo,omitempty" json:"assignedTo,omitempty"`

	MinPriority *int `yaml:"minPriority,omitempty" json:"minPriority,omitempty"`
	MaxPriority *int `yaml:"maxPriority,omitempty" json:"maxPriority,omitempty"`

	// ExcludeIfHasTasks skips stories that already have child tasks.
	ExcludeIfHasTasks bool `yaml:"excludeIfHasTasks,omitempty" json:"excludeIfHasTasks,omitempty"`

	CustomFields map[string]string `yaml:"customFields,omitempty" json:"customFields,omitempty"`
	CustomQuery  string            `yaml:"customQuery,omitempty" json:"customQuery,omitempty"`
}

// HasCriteria reports whether at least one criterion is set.
func (f FilterCriteria) HasCriteria() bool {
	return len(f.WorkItemTypes) > 0 ||
		len(f.States) > 0 ||
		len(f.Tags) > 0 ||
		len(f.ExcludeTags) > 0 ||
		f.AreaPath != "" ||
		f.Iteration != "" ||
		len(f.AssignedTo) > 0 ||
		f.MinPriority != nil ||
		f.MaxPriority != nil ||
		f.ExcludeIfHasTasks ||
		len(f.CustomFields) > 0 ||
		f.CustomQuery != ""
}
