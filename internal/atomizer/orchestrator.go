// Package atomizer composes filter translation, estimation and dependency
// ordering into the per-story atomization pipeline and aggregates a
// run-level report.
package atomizer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/atomize/internal/deps"
	"github.com/josephgoksu/atomize/internal/estimation"
	"github.com/josephgoksu/atomize/internal/filter"
	"github.com/josephgoksu/atomize/models"
	"github.com/josephgoksu/atomize/platform"
	"github.com/josephgoksu/atomize/types"
	"github.com/rs/zerolog"
)

// Options control one atomization run.
type Options struct {
	// DryRun suppresses all creation calls; the report still carries the
	// full calculation results.
	DryRun bool
	// ContinueOnError keeps processing subsequent stories after a story
	// fails instead of stopping at the first failure.
	ContinueOnError bool
	// Project is passed through to the platform query, not interpreted
	// here.
	Project string
}

// Orchestrator runs the atomization pipeline against a work-item source.
//
// Stories are processed one at a time in query order. The renormalization
// rules and the partial-failure policy both depend on stable ordering, so
// concurrent story processing is deliberately not offered here; a platform
// adapter may parallelize its own I/O as long as observable results are
// unchanged.
type Orchestrator struct {
	source   platform.Source
	log      zerolog.Logger
	filters  *filter.Translator
	calc     *estimation.Calculator
	resolver *deps.Resolver
}

// New creates an Orchestrator bound to a source.
func New(source platform.Source, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		source:   source,
		log:      log,
		filters:  filter.New(log),
		calc:     estimation.New(log),
		resolver: deps.New(log),
	}
}

// Atomize runs the template against every matching story and returns the
// run report. An invalid filter aborts the run before any query.
func (o *Orchestrator) Atomize(ctx context.Context, tmpl models.Template, opts Options) (*models.AtomizationReport, error) {
	start := time.Now()

	if v := filter.Validate(tmpl.Filter); !v.Valid {
		return nil, types.NewEngineError(types.ErrFilterInvalid,
			fmt.Sprintf("invalid filter: %v", v.Errors),
			map[string]any{"errors": v.Errors})
	}

	identity, err := o.source.CurrentUserIdentity(ctx)
	if err != nil {
		o.log.Warn().Err(err).Str("platform", o.source.Name()).
			Msg("could not resolve current user identity")
		identity = ""
	}

	query, warnings := o.filters.Translate(tmpl.Filter, identity)
	query.Project = opts.Project

	stories, err := o.source.QueryWorkItems(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}

	report := &models.AtomizationReport{
		RunID:     uuid.NewString(),
		DryRun:    opts.DryRun,
		StartedAt: start,
		Warnings:  warnings,
	}

	for _, story := range stories {
		res := o.processStory(ctx, tmpl, story, identity, opts)
		report.Record(res)
		if !res.Success && !opts.ContinueOnError {
			o.log.Error().Str("story", story.ID).Msg("story failed, stopping run")
			break
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

// Preview runs the template as a forced dry-run.
func (o *Orchestrator) Preview(ctx context.Context, tmpl models.Template, opts Options) (*models.AtomizationReport, error) {
	opts.DryRun = true
	return o.Atomize(ctx, tmpl, opts)
}

// CountMatchingStories returns the number of stories the template's filter
// currently matches.
func (o *Orchestrator) CountMatchingStories(ctx context.Context, tmpl models.Template, opts Options) (int, error) {
	if v := filter.Validate(tmpl.Filter); !v.Valid {
		return 0, types.NewEngineError(types.ErrFilterInvalid,
			fmt.Sprintf("invalid filter: %v", v.Errors),
			map[string]any{"errors": v.Errors})
	}
	identity, err := o.source.CurrentUserIdentity(ctx)
	if err != nil {
		identity = ""
	}
	query, _ := o.filters.Translate(tmpl.Filter, identity)
	query.Project = opts.Project

	stories, err := o.source.QueryWorkItems(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("query stories: %w", err)
	}
	return len(stories), nil
}

// processStory runs the per-story pipeline. Failures are captured in the
// result, never raised; the caller decides whether the run continues.
func (o *Orchestrator) processStory(ctx context.Context, tmpl models.Template, story models.WorkItem, identity string, opts Options) models.StoryResult {
	res := models.StoryResult{StoryID: story.ID, StoryTitle: story.Title}

	ordered, err := o.resolver.ResolveOrder(tmpl.Tasks)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	calcRes := o.calc.Calculate(story, ordered, estimation.Config{
		Rounding:          tmpl.Config.Rounding,
		MinimumTaskPoints: tmpl.Config.MinimumTaskPoints,
		Identity:          identity,
		InheritAssignee:   tmpl.Config.InheritAssignee,
		DefaultActivity:   tmpl.Config.DefaultActivity,
	})
	res.TasksCalculated = len(calcRes.Tasks)
	res.TasksSkipped = len(calcRes.Skipped)
	res.Skipped = calcRes.Skipped
	res.Warnings = append(res.Warnings, calcRes.Warnings...)
	res.Warnings = append(res.Warnings, estimation.ValidateEstimation(story, calcRes.Tasks)...)

	if opts.DryRun {
		res.Tasks = calcRes.Tasks
		res.Success = true
		return res
	}

	created, err := o.source.CreateTasksBulk(ctx, story.ID, calcRes.Tasks)
	if err != nil {
		engineErr := types.NewEngineError(types.ErrCreationFailed,
			fmt.Sprintf("create tasks for story %s: %v", story.ID, err),
			map[string]any{"platform": o.source.Name()})
		res.Error = engineErr.Error()
		return res
	}
	res.TasksCreated = len(created)
	for _, item := range created {
		res.CreatedIDs = append(res.CreatedIDs, item.ID)
	}

	res.Warnings = append(res.Warnings, o.linkDependencies(ctx, calcRes.Tasks, created)...)
	res.Success = true
	return res
}

// linkDependencies creates predecessor links between the created work items.
// The created slice is order-preserving with respect to tasks, so the
// template-id remapping is built positionally. The map lives only for this
// story's processing.
func (o *Orchestrator) linkDependencies(ctx context.Context, tasks []models.CalculatedTask, created []models.WorkItem) []string {
	hasDeps := false
	for _, t := range tasks {
		if len(t.DependsOn) > 0 {
			hasDeps = true
			break
		}
	}
	if !hasDeps {
		return nil
	}

	linker, ok := o.source.(platform.DependencyLinker)
	if !ok {
		msg := fmt.Sprintf("platform %s does not support dependency links; links skipped", o.source.Name())
		o.log.Warn().Msg(msg)
		return []string{msg}
	}

	idByTemplate := make(map[string]string, len(created))
	for i, t := range tasks {
		if i < len(created) && t.TemplateID != "" {
			idByTemplate[t.TemplateID] = created[i].ID
		}
	}

	var warnings []string
	for i, t := range tasks {
		if i >= len(created) {
			break
		}
		for _, dep := range t.DependsOn {
			fromID, ok := idByTemplate[dep]
			if !ok {
				// Target missing or skipped by its condition.
				msg := fmt.Sprintf("dependency %q of task %q was not created; link dropped", dep, t.Title)
				o.log.Warn().Msg(msg)
				warnings = append(warnings, msg)
				continue
			}
			if err := linker.CreateDependencyLink(ctx, fromID, created[i].ID); err != nil {
				msg := fmt.Sprintf("link %q -> %q failed: %v", dep, t.Title, err)
				o.log.Warn().Msg(msg)
				warnings = append(warnings, msg)
			}
		}
	}
	return warnings
}
