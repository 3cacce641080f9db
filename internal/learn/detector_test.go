package learn

import (
	"testing"

	"github.com/josephgoksu/atomize/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func analysisOf(story models.WorkItem, tasks ...models.TaskDefinition) models.StoryAnalysis {
	return models.StoryAnalysis{Story: story, Tasks: tasks}
}

func def(id, title, activity string, percent float64) models.TaskDefinition {
	return models.TaskDefinition{ID: id, Title: title, Activity: activity, EstimationPercent: fp(percent)}
}

func TestDetectPatterns_RecurringTasks(t *testing.T) {
	s1 := models.WorkItem{ID: "s1", Type: "User Story"}
	s2 := models.WorkItem{ID: "s2", Type: "User Story"}

	analyses := []models.StoryAnalysis{
		analysisOf(s1,
			def("design", "Design ${story.title} screens", "Design", 30),
			def("build", "Build ${story.title} backend", "Development", 50),
			def("test", "Test ${story.title} backend", "Testing", 20),
		),
		analysisOf(s2,
			def("design", "Design ${story.title} screens", "Design", 40),
			def("build", "Build ${story.title} backend", "Development", 40),
			def("migrate", "Migrate legacy records", "Development", 20),
		),
	}

	res := DetectPatterns(analyses)

	byTitle := make(map[string]models.CommonTask)
	for _, c := range res.CommonTasks {
		byTitle[c.Task.Title] = c
	}

	design, ok := byTitle["Design ${story.title} screens"]
	require.True(t, ok)
	assert.Equal(t, 1.0, design.FrequencyRatio)
	assert.Equal(t, 2, design.Occurrences)
	assert.Equal(t, float64(35), design.Task.Percent(), "mean of 30 and 40")

	migrate, ok := byTitle["Migrate legacy records"]
	require.True(t, ok)
	assert.Equal(t, 0.5, migrate.FrequencyRatio)

	// design and build recur across both stories; migrate and test do not.
	require.Len(t, res.MergedTasks, 2)
	for _, m := range res.MergedTasks {
		assert.Len(t, m.Members, 2)
		assert.InDelta(t, 1.0, m.Similarity, 0.001, "identical titles merge at full similarity")
	}
}

func TestDetectPatterns_OrderedByMeanPosition(t *testing.T) {
	s1 := models.WorkItem{ID: "s1"}
	analyses := []models.StoryAnalysis{
		analysisOf(s1,
			def("a", "Alpha ingest pipeline", "Development", 50),
			def("b", "Beta export report", "Development", 50),
		),
	}

	res := DetectPatterns(analyses)
	require.Len(t, res.CommonTasks, 2)
	assert.Equal(t, "Alpha ingest pipeline", res.CommonTasks[0].Task.Title)
	assert.Equal(t, "Beta export report", res.CommonTasks[1].Task.Title)
	assert.Empty(t, res.MergedTasks, "a single story produces no merges")
}

func TestDetectPatterns_Deterministic(t *testing.T) {
	s1 := models.WorkItem{ID: "s1"}
	s2 := models.WorkItem{ID: "s2"}
	analyses := []models.StoryAnalysis{
		analysisOf(s1,
			def("a", "Design checkout", "Design", 30),
			def("b", "Build checkout", "Development", 70),
		),
		analysisOf(s2,
			def("a", "Design checkout", "Design", 25),
			def("b", "Build checkout", "Development", 75),
		),
	}

	first := DetectPatterns(analyses)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DetectPatterns(analyses))
	}
}

func TestTaskSimilarity(t *testing.T) {
	a := def("x", "Design checkout screens", "Design", 0)
	b := def("y", "Design checkout screens", "Design", 0)
	assert.InDelta(t, 1.0, TaskSimilarity(a, b), 0.001)

	c := def("z", "Migrate billing database", "Development", 0)
	assert.Less(t, TaskSimilarity(a, c), similarityThreshold)

	// Same activity alone is not enough to cluster.
	d := def("w", "Completely different words", "Design", 0)
	assert.Less(t, TaskSimilarity(a, d), similarityThreshold)
}
