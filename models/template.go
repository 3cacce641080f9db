package models

// RoundingMode controls how fractional estimations are rounded.
type RoundingMode string

const (
	RoundUp      RoundingMode = "up"
	RoundDown    RoundingMode = "down"
	RoundNearest RoundingMode = "nearest"
	// RoundNone truncates to two decimal places instead of rounding to an integer.
	RoundNone RoundingMode = "none"
)

// IsValid reports whether the mode is one of the recognized rounding modes.
// The empty string is valid and behaves like RoundNone.
func (m RoundingMode) IsValid() bool {
	switch m {
	case RoundUp, RoundDown, RoundNearest, RoundNone, "":
		return true
	}
	return false
}

// AssigneeMacro is the closed set of assignment macros a task definition may
// use in its assignTo field. Anything that is not a macro is a literal user.
type AssigneeMacro int

const (
	AssigneeLiteral AssigneeMacro = iota
	AssigneeParent
	AssigneeMe
	AssigneeUnassigned
)

const (
	MacroParentAssignee = "@ParentAssignee"
	MacroInherit        = "@Inherit"
	MacroMe             = "@Me"
	MacroUnassigned     = "@Unassigned"
)

// ParseAssignee classifies an assignTo value. For AssigneeLiteral the second
// return value is the literal user identifier, otherwise it is empty.
func ParseAssignee(s string) (AssigneeMacro, string) {
	switch s {
	case MacroParentAssignee, MacroInherit:
		return AssigneeParent, ""
	case MacroMe:
		return AssigneeMe, ""
	case MacroUnassigned:
		return AssigneeUnassigned, ""
	}
	return AssigneeLiteral, s
}

// TaskDefinition describes one child task to generate per matching story.
// At most one of the three estimation modes is meaningful; EstimationFixed
// takes priority when more than one is set.
type TaskDefinition struct {
	// ID is unique within the template and is the target of dependsOn edges.
	// Tasks without an ID can never be depended on.
	ID          string `yaml:"id,omitempty" json:"id,omitempty"`
	Title       string `yaml:"title" json:"title" validate:"required,nonempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	EstimationPercent *float64 `yaml:"estimationPercent,omitempty" json:"estimationPercent,omitempty" validate:"omitempty,min=0,max=100"`
	EstimationFixed   *float64 `yaml:"estimationFixed,omitempty" json:"estimationFixed,omitempty" validate:"omitempty,min=0"`
	EstimationFormula string   `yaml:"estimationFormula,omitempty" json:"estimationFormula,omitempty"`

	// Condition is a boolean expression gating whether this task applies to a
	// given story. Empty means always applicable.
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`

	DependsOn    []string          `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty"`
	AssignTo     string            `yaml:"assignTo,omitempty" json:"assignTo,omitempty"`
	Tags         []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
	Priority     *int              `yaml:"priority,omitempty" json:"priority,omitempty"`
	Activity     string            `yaml:"activity,omitempty" json:"activity,omitempty"`
	CustomFields map[string]string `yaml:"customFields,omitempty" json:"customFields,omitempty"`
}

// Percent returns the declared estimation percent, or 0 when unset.
func (t TaskDefinition) Percent() float64 {
	if t.EstimationPercent == nil {
		return 0
	}
	return *t.EstimationPercent
}

// HasPercent reports whether the task declares a percentage estimation.
func (t TaskDefinition) HasPercent() bool { return t.EstimationPercent != nil }

// HasFixed reports whether the task declares a fixed estimation.
func (t TaskDefinition) HasFixed() bool { return t.EstimationFixed != nil }

// TemplateConfig carries calculation knobs shared by every task in a template.
type TemplateConfig struct {
	Rounding          RoundingMode `yaml:"rounding,omitempty" json:"rounding,omitempty"`
	MinimumTaskPoints float64      `yaml:"minimumTaskPoints,omitempty" json:"minimumTaskPoints,omitempty" validate:"min=0"`
	InheritAssignee   bool         `yaml:"inheritAssignee,omitempty" json:"inheritAssignee,omitempty"`
	DefaultActivity   string       `yaml:"defaultActivity,omitempty" json:"defaultActivity,omitempty"`
}

// Template is the declarative document describing a story filter and the task
// definitions to generate for each matching story.
type Template struct {
	Name        string           `yaml:"name" json:"name" validate:"required,nonempty"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Filter      FilterCriteria   `yaml:"filter" json:"filter"`
	Tasks       []TaskDefinition `yaml:"tasks" json:"tasks" validate:"required,min=1,dive"`
	Config      TemplateConfig   `yaml:"config,omitempty" json:"config,omitempty"`
}

// TaskByID returns the task definition with the given id, if any.
func (t *Template) TaskByID(id string) (TaskDefinition, bool) {
	if id == "" {
		return TaskDefinition{}, false
	}
	for _, task := range t.Tasks {
		if task.ID == id {
			return task, true
		}
	}
	return TaskDefinition{}, false
}
