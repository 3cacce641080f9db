package models

// StoryAnalysis is one historical story decomposed for learning: the story
// itself, the task definitions extracted from its children, and the template
// inferred from this single story.
type StoryAnalysis struct {
	Story    WorkItem         `json:"story"`
	Tasks    []TaskDefinition `json:"tasks"`
	Template Template         `json:"template"`
}

// CommonTask is a task that recurs across analyzed stories.
type CommonTask struct {
	Task TaskDefinition `json:"task"`
	// FrequencyRatio is the fraction of analyzed stories containing a
	// matching task, in [0,1].
	FrequencyRatio float64 `json:"frequencyRatio"`
	Occurrences    int     `json:"occurrences"`
	// MeanPosition is the average index of the matching tasks within their
	// stories, used to order the learned template.
	MeanPosition float64 `json:"meanPosition"`
}

// MergedTask is a cluster of near-duplicate tasks observed in different
// analyses, treated as one recurring task.
type MergedTask struct {
	Representative TaskDefinition   `json:"representative"`
	Members        []TaskDefinition `json:"members"`
	// Similarity is the mean pairwise similarity of the cluster, in [0,1].
	Similarity float64 `json:"similarity"`
}

// PatternDetectionResult is the output of cross-story pattern detection.
type PatternDetectionResult struct {
	CommonTasks []CommonTask `json:"commonTasks"`
	MergedTasks []MergedTask `json:"mergedTasks"`
}

// ConfidenceLevel buckets the overall confidence score.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// ConfidenceFactor is one weighted signal contributing to a confidence score.
type ConfidenceFactor struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"` // 0-100
	Weight float64 `json:"weight"`
	Detail string  `json:"detail,omitempty"`
}

// ConfidenceScore expresses how trustworthy a learned template is.
type ConfidenceScore struct {
	Overall int                `json:"overall"` // 0-100
	Level   ConfidenceLevel    `json:"level"`
	Factors []ConfidenceFactor `json:"factors"`
}
