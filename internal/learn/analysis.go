// Package learn implements the inverse direction of the engine: inferring a
// task template from previously completed stories and scoring its
// statistical confidence.
package learn

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/josephgoksu/atomize/models"
)

// storyIDPattern matches "Story-N", "STORY-N" and "#N" shaped substrings
// that embed a story identifier in a task title.
var storyIDPattern = regexp.MustCompile(`(?i)\bstory-\d+\b|#\d+`)

// placeholderPattern matches ${...} placeholders when deriving slugs.
var placeholderPattern = regexp.MustCompile(`\$\{[^}]*\}`)

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// leadingVerbs are common imperative openers stripped when deriving a task
// id from a title.
var leadingVerbs = map[string]bool{
	"implement": true, "create": true, "add": true, "build": true,
	"write": true, "design": true, "develop": true, "update": true,
	"fix": true, "make": true, "setup": true, "set": true, "do": true,
	"test": true, "verify": true, "review": true, "deploy": true,
}

// activity classification rules, checked in priority order. The first rule
// whose keyword appears in the task's title or description wins; tasks
// matching nothing are Development.
var activityRules = []struct {
	activity string
	keywords []string
}{
	{"Design", []string{"design", "architect", "wireframe", "mockup", "ux"}},
	{"Testing", []string{"test", "qa", "verify", "validation"}},
	{"Deployment", []string{"deploy", "release", "ship", "rollout"}},
	{"Documentation", []string{"review"}},
	{"Documentation", []string{"document", "doc", "readme"}},
}

const defaultActivity = "Development"

// ClassifyActivity tags a task by keyword match against title+description.
func ClassifyActivity(title, description string) string {
	haystack := strings.ToLower(title + " " + description)
	for _, rule := range activityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.activity
			}
		}
	}
	return defaultActivity
}

// TitlePattern generalizes a task title observed under one story: the
// literal story title becomes ${story.title} and story-id shaped substrings
// become ${story.id}.
func TitlePattern(title string, story models.WorkItem) string {
	out := title
	if story.Title != "" {
		out = strings.ReplaceAll(out, story.Title, "${story.title}")
	}
	out = storyIDPattern.ReplaceAllString(out, "${story.id}")
	return out
}

// SlugID derives a stable template task id from a cleaned title: lowercase,
// leading verb words and placeholders stripped, non-alphanumerics collapsed
// to hyphens, capped at 30 characters. Falls back to task-<index> (1-based)
// when nothing survives cleaning.
func SlugID(title string, index int) string {
	s := placeholderPattern.ReplaceAllString(strings.ToLower(title), " ")
	s = nonAlnumPattern.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	for len(words) > 0 && leadingVerbs[words[0]] {
		words = words[1:]
	}
	slug := strings.Join(words, "-")
	if len(slug) > 30 {
		slug = slug[:30]
		slug = strings.TrimRight(slug, "-")
	}
	if slug == "" {
		return fmt.Sprintf("task-%d", index+1)
	}
	return slug
}

// AnalyzeStory decomposes one historical story and its child tasks into a
// StoryAnalysis carrying the extracted task definitions and the template
// inferred from this single story.
func AnalyzeStory(story models.WorkItem, children []models.WorkItem) models.StoryAnalysis {
	tasks := make([]models.TaskDefinition, 0, len(children))
	for i, child := range children {
		percent := 0.0
		if story.Estimation > 0 {
			percent = math.Round(child.Estimation / story.Estimation * 100)
		}
		title := TitlePattern(child.Title, story)
		def := models.TaskDefinition{
			ID:                SlugID(title, i),
			Title:             title,
			Description:       TitlePattern(child.Description, story),
			EstimationPercent: &percent,
			Activity:          ClassifyActivity(child.Title, child.Description),
			Tags:              child.Tags,
		}
		tasks = append(tasks, def)
	}

	tmpl := models.Template{
		Name: fmt.Sprintf("Learned from %s", story.ID),
		Filter: models.FilterCriteria{
			WorkItemTypes: []string{story.Type},
			States:        []string{story.State},
		},
		Tasks: tasks,
	}
	return models.StoryAnalysis{Story: story, Tasks: tasks, Template: tmpl}
}
