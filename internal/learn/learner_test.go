package learn

import (
	"context"
	"testing"

	"github.com/josephgoksu/atomize/models"
	"github.com/josephgoksu/atomize/platform"
	"github.com/josephgoksu/atomize/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func learningSource(t *testing.T) *platform.MemorySource {
	t.Helper()
	src := platform.NewMemorySource("me@example.com")
	src.Add(models.WorkItem{
		ID: "s1", Title: "Search page", Type: "User Story", State: "Closed", Estimation: 10,
		Children: []models.WorkItem{
			{ID: "s1t1", Title: "Design Search page mockups", Estimation: 3},
			{ID: "s1t2", Title: "Implement query endpoint", Estimation: 5},
			{ID: "s1t3", Title: "Test query endpoint", Estimation: 2},
		},
	})
	src.Add(models.WorkItem{
		ID: "s2", Title: "Filter panel", Type: "User Story", State: "Closed", Estimation: 8,
		Children: []models.WorkItem{
			{ID: "s2t1", Title: "Design Filter panel mockups", Estimation: 2},
			{ID: "s2t2", Title: "Implement query endpoint", Estimation: 4},
			{ID: "s2t3", Title: "Test query endpoint", Estimation: 2},
		},
	})
	src.Add(models.WorkItem{
		ID: "childless", Title: "Empty story", Type: "User Story", State: "Closed", Estimation: 5,
	})
	return src
}

func TestLearn_BuildsTemplate(t *testing.T) {
	l := NewLearner(learningSource(t), zerolog.Nop())

	res, err := l.Learn(context.Background(), []string{"s1", "s2"}, Options{TemplateName: "learned"})
	require.NoError(t, err)
	require.Len(t, res.Analyses, 2)
	assert.Empty(t, res.StoryErrors)

	tmpl := res.Template
	assert.Equal(t, "learned", tmpl.Name)
	assert.Equal(t, []string{"User Story"}, tmpl.Filter.WorkItemTypes)
	assert.Equal(t, []string{"Closed"}, tmpl.Filter.States)

	// All three tasks recur in both stories.
	require.Len(t, tmpl.Tasks, 3)
	var sum float64
	for _, task := range tmpl.Tasks {
		sum += task.Percent()
	}
	assert.Equal(t, float64(100), sum, "learned percents are renormalized to exactly 100")

	assert.NotZero(t, res.Confidence.Overall)
	assert.Len(t, res.Confidence.Factors, 5)
}

func TestLearn_MissingStoryIsPerStoryError(t *testing.T) {
	l := NewLearner(learningSource(t), zerolog.Nop())

	res, err := l.Learn(context.Background(), []string{"s1", "ghost"}, Options{})
	require.NoError(t, err)
	require.Len(t, res.Analyses, 1)
	require.Len(t, res.StoryErrors, 1)
	assert.Contains(t, res.StoryErrors[0], "ghost")
}

func TestLearn_ChildlessStoryIsPerStoryError(t *testing.T) {
	l := NewLearner(learningSource(t), zerolog.Nop())

	res, err := l.Learn(context.Background(), []string{"s1", "childless"}, Options{})
	require.NoError(t, err)
	require.Len(t, res.Analyses, 1)
	require.Len(t, res.StoryErrors, 1)
	assert.Contains(t, res.StoryErrors[0], "no child tasks")
}

func TestLearn_AllStoriesFailingFailsRun(t *testing.T) {
	l := NewLearner(learningSource(t), zerolog.Nop())

	_, err := l.Learn(context.Background(), []string{"ghost", "childless"}, Options{})
	var engineErr *types.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, types.ErrLearningFailed, engineErr.Code)
}

func TestLearn_FrequencyCutoff(t *testing.T) {
	src := learningSource(t)
	// A third story with one outlier task that appears nowhere else.
	src.Add(models.WorkItem{
		ID: "s3", Title: "Export view", Type: "User Story", State: "Closed", Estimation: 6,
		Children: []models.WorkItem{
			{ID: "s3t1", Title: "Design Export view mockups", Estimation: 2},
			{ID: "s3t2", Title: "Implement query endpoint", Estimation: 2},
			{ID: "s3t3", Title: "Migrate archival storage", Estimation: 2},
		},
	})
	l := NewLearner(src, zerolog.Nop())

	res, err := l.Learn(context.Background(), []string{"s1", "s2", "s3"}, Options{})
	require.NoError(t, err)

	for _, task := range res.Template.Tasks {
		assert.NotContains(t, task.Title, "Migrate",
			"a task seen in 1 of 3 stories is below the 0.5 frequency cutoff")
	}
}
