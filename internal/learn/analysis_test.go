package learn

import (
	"testing"

	"github.com/josephgoksu/atomize/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitlePattern(t *testing.T) {
	story := models.WorkItem{ID: "story-12", Title: "Checkout flow"}

	tests := []struct {
		in   string
		want string
	}{
		{"Implement Checkout flow", "Implement ${story.title}"},
		{"Fix Story-12 regression", "Fix ${story.id} regression"},
		{"Fix STORY-12 regression", "Fix ${story.id} regression"},
		{"Investigate #12", "Investigate ${story.id}"},
		{"Checkout flow for Story-12", "${story.title} for ${story.id}"},
		{"Unrelated work", "Unrelated work"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitlePattern(tt.in, story), "input %q", tt.in)
	}
}

func TestSlugID(t *testing.T) {
	tests := []struct {
		title string
		index int
		want  string
	}{
		{"Implement payment gateway", 0, "payment-gateway"},
		{"Create API client & retry logic", 1, "api-client-retry-logic"},
		{"Design ${story.title} screens", 2, "screens"},
		{"Implement ${story.title}", 3, "task-4"},
		{"", 0, "task-1"},
		{"Build a very long descriptive title that keeps going on", 0, "a-very-long-descriptive-title"},
	}
	for _, tt := range tests {
		got := SlugID(tt.title, tt.index)
		assert.Equal(t, tt.want, got, "title %q", tt.title)
		assert.LessOrEqual(t, len(got), 30)
	}
}

func TestClassifyActivity(t *testing.T) {
	tests := []struct {
		title string
		desc  string
		want  string
	}{
		{"Design login screen", "", "Design"},
		{"Test and deploy the service", "", "Testing"},
		{"Ship the release", "", "Deployment"},
		{"Review the API docs", "", "Documentation"},
		{"Update the readme", "", "Documentation"},
		{"Refactor payment service", "", "Development"},
		{"Payment work", "add qa coverage", "Testing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyActivity(tt.title, tt.desc), "title %q", tt.title)
	}
}

func TestAnalyzeStory(t *testing.T) {
	story := models.WorkItem{
		ID: "story-7", Title: "Search page", Type: "User Story",
		State: "Closed", Estimation: 10,
	}
	children := []models.WorkItem{
		{ID: "t1", Title: "Design Search page", Estimation: 3},
		{ID: "t2", Title: "Implement search backend", Estimation: 5},
		{ID: "t3", Title: "Test Search page", Estimation: 2},
	}

	a := AnalyzeStory(story, children)
	require.Len(t, a.Tasks, 3)

	assert.Equal(t, "Design ${story.title}", a.Tasks[0].Title)
	assert.Equal(t, float64(30), a.Tasks[0].Percent())
	assert.Equal(t, "Design", a.Tasks[0].Activity)

	assert.Equal(t, "search-backend", a.Tasks[1].ID)
	assert.Equal(t, float64(50), a.Tasks[1].Percent())

	assert.Equal(t, float64(20), a.Tasks[2].Percent())
	assert.Equal(t, "Testing", a.Tasks[2].Activity)

	assert.Equal(t, []string{"User Story"}, a.Template.Filter.WorkItemTypes)
	assert.Equal(t, []string{"Closed"}, a.Template.Filter.States)
	require.Len(t, a.Template.Tasks, 3)
}

func TestAnalyzeStory_UnestimatedStory(t *testing.T) {
	story := models.WorkItem{ID: "s", Title: "X", Estimation: 0}
	children := []models.WorkItem{{ID: "t1", Title: "Work on X thing", Estimation: 5}}

	a := AnalyzeStory(story, children)
	require.Len(t, a.Tasks, 1)
	assert.Equal(t, float64(0), a.Tasks[0].Percent())
}
