package learn

import (
	"context"
	"fmt"

	"github.com/josephgoksu/atomize/internal/estimation"
	"github.com/josephgoksu/atomize/models"
	"github.com/josephgoksu/atomize/platform"
	"github.com/josephgoksu/atomize/types"
	"github.com/rs/zerolog"
)

// Options control one learning run.
type Options struct {
	// TemplateName names the learned template; empty uses a default.
	TemplateName string
	// MinFrequency is the minimum frequency ratio for a common task to be
	// included in the learned template. Zero means the 0.5 default.
	MinFrequency float64
}

// Result is the outcome of a learning run.
type Result struct {
	Template   models.Template
	Confidence models.ConfidenceScore
	Patterns   models.PatternDetectionResult
	Analyses   []models.StoryAnalysis
	// StoryErrors records per-story failures (missing story, no children).
	// They do not abort the run unless every story fails.
	StoryErrors []string
}

// Learner runs the inverse pipeline: historical stories in, template plus
// confidence out.
type Learner struct {
	source platform.Source
	log    zerolog.Logger
}

// NewLearner creates a Learner bound to a source.
func NewLearner(source platform.Source, log zerolog.Logger) *Learner {
	return &Learner{source: source, log: log}
}

// Learn fetches each story with its children, analyzes them, detects
// recurring patterns and scores confidence. A story that is missing or has
// no children is a hard per-story error; the run fails only when no story
// could be analyzed. A confidence score is always produced for the stories
// that were.
func (l *Learner) Learn(ctx context.Context, storyIDs []string, opts Options) (*Result, error) {
	res := &Result{}

	for _, id := range storyIDs {
		story, err := l.source.GetWorkItem(ctx, id)
		if err != nil {
			msg := fmt.Sprintf("story %s: %v", id, err)
			l.log.Error().Str("story", id).Err(err).Msg("cannot analyze story")
			res.StoryErrors = append(res.StoryErrors, msg)
			continue
		}
		children, err := l.source.GetChildren(ctx, id)
		if err != nil {
			res.StoryErrors = append(res.StoryErrors, fmt.Sprintf("story %s: %v", id, err))
			continue
		}
		if len(children) == 0 {
			res.StoryErrors = append(res.StoryErrors,
				fmt.Sprintf("story %s has no child tasks; cannot learn from it", id))
			continue
		}
		res.Analyses = append(res.Analyses, AnalyzeStory(story, children))
	}

	if len(res.Analyses) == 0 {
		return nil, types.NewEngineError(types.ErrLearningFailed,
			"no analyzable stories", map[string]any{"errors": res.StoryErrors})
	}

	res.Patterns = DetectPatterns(res.Analyses)
	res.Confidence = ScoreConfidence(res.Analyses, res.Patterns)
	res.Template = buildTemplate(res.Analyses, res.Patterns, opts)
	return res, nil
}

// buildTemplate assembles the learned template: filter inferred from the
// analyzed stories, tasks from the common tasks above the frequency cutoff,
// with percentages rescaled to sum to exactly 100.
func buildTemplate(analyses []models.StoryAnalysis, patterns models.PatternDetectionResult, opts Options) models.Template {
	minFreq := opts.MinFrequency
	if minFreq == 0 {
		minFreq = 0.5
	}
	name := opts.TemplateName
	if name == "" {
		name = fmt.Sprintf("Learned template (%d stories)", len(analyses))
	}

	var itemTypes, states []string
	for _, a := range analyses {
		itemTypes = appendUnique(itemTypes, a.Story.Type)
		states = appendUnique(states, a.Story.State)
	}

	var tasks []models.TaskDefinition
	var percents []float64
	for _, c := range patterns.CommonTasks {
		if c.FrequencyRatio < minFreq {
			continue
		}
		tasks = append(tasks, c.Task)
		percents = append(percents, c.Task.Percent())
	}
	for i, p := range estimation.ScaleToHundred(percents) {
		scaled := p
		tasks[i].EstimationPercent = &scaled
	}

	return models.Template{
		Name:   name,
		Filter: models.FilterCriteria{WorkItemTypes: itemTypes, States: states},
		Tasks:  tasks,
	}
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
