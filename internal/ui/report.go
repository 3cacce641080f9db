package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/josephgoksu/atomize/models"
)

// RenderReport formats an atomization run report for terminal output.
func RenderReport(r *models.AtomizationReport) string {
	var sb strings.Builder

	mode := "run"
	if r.DryRun {
		mode = "dry run"
	}
	sb.WriteString(StyleSectionTitle.Render(fmt.Sprintf("Atomization %s", mode)))
	sb.WriteString("\n\n")

	for _, res := range r.Results {
		sb.WriteString(renderStory(res, r.DryRun))
	}

	summary := fmt.Sprintf("%d stories: %d succeeded, %d failed · %d tasks calculated, %d created, %d skipped · %s",
		r.StoriesProcessed, r.StoriesSucceeded, r.StoriesFailed,
		r.TasksCalculated, r.TasksCreated, r.TasksSkipped,
		r.Duration.Round(time.Millisecond))
	sb.WriteString(StyleSummaryBox.Render(summary))
	sb.WriteString("\n")

	for _, w := range r.Warnings {
		sb.WriteString(StyleWarning.Render("⚠ "+w) + "\n")
	}
	for _, e := range r.Errors {
		sb.WriteString(StyleError.Render("✗ "+e) + "\n")
	}
	return sb.String()
}

func renderStory(res models.StoryResult, dryRun bool) string {
	var sb strings.Builder

	mark := StyleSuccess.Render("✓")
	if !res.Success {
		mark = StyleError.Render("✗")
	}
	title := res.StoryTitle
	if title == "" {
		title = res.StoryID
	}
	sb.WriteString(fmt.Sprintf("%s %s %s\n", mark, StyleTitle.Render(title), StyleSubtle.Render("("+res.StoryID+")")))

	if res.Error != "" {
		sb.WriteString("  " + StyleError.Render(res.Error) + "\n")
	}
	verb := "created"
	if dryRun {
		verb = "would create"
	}
	sb.WriteString(fmt.Sprintf("  %d calculated, %s %d, %d skipped\n",
		res.TasksCalculated, verb, res.TasksCreated, res.TasksSkipped))

	for _, s := range res.Skipped {
		sb.WriteString("  " + StyleSubtle.Render(fmt.Sprintf("skipped %s: %s", s.Title, s.Reason)) + "\n")
	}
	for _, w := range res.Warnings {
		sb.WriteString("  " + StyleWarning.Render("⚠ "+w) + "\n")
	}
	return sb.String()
}

// RenderPreviewTasks formats the calculated tasks of a story as a table.
func RenderPreviewTasks(tasks []models.CalculatedTask) string {
	tbl := Table{Headers: []string{"Title", "Points", "%", "Assignee", "Activity"}}
	for _, t := range tasks {
		percent := ""
		if t.EstimationPercent > 0 {
			percent = strconv.FormatFloat(t.EstimationPercent, 'f', -1, 64)
		}
		tbl.Rows = append(tbl.Rows, []string{
			t.Title,
			strconv.FormatFloat(t.Estimation, 'f', -1, 64),
			percent,
			t.AssignedTo,
			t.Activity,
		})
	}
	return tbl.Render()
}

// RenderConfidence formats a learned-template confidence score with its
// contributing factors.
func RenderConfidence(c models.ConfidenceScore) string {
	var sb strings.Builder

	levelStyle := StyleError
	switch c.Level {
	case models.ConfidenceHigh:
		levelStyle = StyleSuccess
	case models.ConfidenceMedium:
		levelStyle = StyleWarning
	}
	sb.WriteString(fmt.Sprintf("%s %s\n",
		StyleTitle.Render(fmt.Sprintf("Confidence: %d/100", c.Overall)),
		levelStyle.Render(string(c.Level))))

	tbl := Table{Headers: []string{"Factor", "Score", "Weight", "Detail"}}
	for _, f := range c.Factors {
		tbl.Rows = append(tbl.Rows, []string{
			f.Name,
			fmt.Sprintf("%.0f", f.Score),
			fmt.Sprintf("%.2f", f.Weight),
			f.Detail,
		})
	}
	sb.WriteString(tbl.Render())
	return sb.String()
}
