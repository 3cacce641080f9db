package estimation

import (
	"testing"

	"github.com/josephgoksu/atomize/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func percentTask(id string, percent float64) models.TaskDefinition {
	return models.TaskDefinition{ID: id, Title: id, EstimationPercent: fp(percent)}
}

func TestCalculate_RenormalizesAfterSkip(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Title: "Story", Estimation: 10, State: "Ready"}

	skipped := percentTask("c", 30)
	skipped.Condition = `${story.state} == 'Blocked'`
	defs := []models.TaskDefinition{
		percentTask("a", 20),
		percentTask("b", 30),
		skipped,
		percentTask("d", 20),
	}

	res := c.Calculate(story, defs, Config{})
	require.Len(t, res.Skipped, 1)
	require.Len(t, res.Tasks, 3)

	percents := []float64{res.Tasks[0].EstimationPercent, res.Tasks[1].EstimationPercent, res.Tasks[2].EstimationPercent}
	assert.Equal(t, []float64{29, 43, 28}, percents)
	assert.Equal(t, float64(100), percents[0]+percents[1]+percents[2])
	assert.InDelta(t, 10, Total(res.Tasks), 0.1)
}

func TestCalculate_NearestRounding(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 10}
	defs := []models.TaskDefinition{
		percentTask("a", 30),
		percentTask("b", 50),
		percentTask("c", 20),
	}

	res := c.Calculate(story, defs, Config{Rounding: models.RoundNearest})
	require.Len(t, res.Tasks, 3)
	assert.Equal(t, float64(3), res.Tasks[0].Estimation)
	assert.Equal(t, float64(5), res.Tasks[1].Estimation)
	assert.Equal(t, float64(2), res.Tasks[2].Estimation)
}

func TestCalculate_SingleSurvivorTakesFullBudget(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 8, State: "Ready"}

	never := `${story.state} == 'Nope'`
	a := percentTask("a", 40)
	a.Condition = never
	b := percentTask("b", 40)
	b.Condition = never
	defs := []models.TaskDefinition{a, b, percentTask("c", 20)}

	res := c.Calculate(story, defs, Config{})
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, float64(100), res.Tasks[0].EstimationPercent)
	assert.Equal(t, float64(8), res.Tasks[0].Estimation)
}

func TestCalculate_NoSkipRespectsDeclaredPercents(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 10}
	// Deliberately does not sum to 100; the author's values are respected.
	defs := []models.TaskDefinition{percentTask("a", 30), percentTask("b", 30)}

	res := c.Calculate(story, defs, Config{})
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, float64(30), res.Tasks[0].EstimationPercent)
	assert.Equal(t, float64(30), res.Tasks[1].EstimationPercent)
	assert.InDelta(t, 6, Total(res.Tasks), 0.01)
}

func TestCalculate_ZeroSumDistributesEqually(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 9, State: "Ready"}

	skip := percentTask("x", 100)
	skip.Condition = `${story.state} == 'Nope'`
	defs := []models.TaskDefinition{
		skip,
		{ID: "a", Title: "a"},
		{ID: "b", Title: "b"},
		{ID: "c", Title: "c"},
	}

	res := c.Calculate(story, defs, Config{})
	require.Len(t, res.Tasks, 3)
	// floor(100/3)=33, remainder on the first task.
	assert.Equal(t, float64(34), res.Tasks[0].EstimationPercent)
	assert.Equal(t, float64(33), res.Tasks[1].EstimationPercent)
	assert.Equal(t, float64(33), res.Tasks[2].EstimationPercent)
}

func TestCalculate_FixedTakesPriority(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 10}
	def := models.TaskDefinition{ID: "a", Title: "a", EstimationPercent: fp(50), EstimationFixed: fp(3)}

	res := c.Calculate(story, []models.TaskDefinition{def}, Config{})
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, float64(3), res.Tasks[0].Estimation)
	assert.Equal(t, float64(0), res.Tasks[0].EstimationPercent)
}

func TestCalculate_FormulaUnsupported(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 10}
	def := models.TaskDefinition{ID: "a", Title: "a", EstimationFormula: "E * 0.5"}

	res := c.Calculate(story, []models.TaskDefinition{def}, Config{})
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, float64(0), res.Tasks[0].Estimation)
	assert.NotEmpty(t, res.Warnings)
}

func TestCalculate_MinimumTaskPoints(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 10}
	defs := []models.TaskDefinition{percentTask("a", 1)}

	res := c.Calculate(story, defs, Config{Rounding: models.RoundDown, MinimumTaskPoints: 1})
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, float64(1), res.Tasks[0].Estimation)
}

func TestCalculate_RoundingModes(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 10}
	defs := []models.TaskDefinition{percentTask("a", 25)} // raw 2.5

	tests := []struct {
		mode models.RoundingMode
		want float64
	}{
		{models.RoundUp, 3},
		{models.RoundDown, 2},
		{models.RoundNearest, 3},
		{models.RoundNone, 2.5},
		{"", 2.5},
	}
	for _, tt := range tests {
		res := c.Calculate(story, defs, Config{Rounding: tt.mode})
		require.Len(t, res.Tasks, 1)
		assert.Equal(t, tt.want, res.Tasks[0].Estimation, "mode %q", tt.mode)
	}
}

func TestCalculate_NoneTruncatesToTwoDecimals(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 10}
	defs := []models.TaskDefinition{percentTask("a", 33.333)}

	res := c.Calculate(story, defs, Config{})
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, 3.33, res.Tasks[0].Estimation)
}

func TestCalculate_ZeroBudgetWarnsAndContinues(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1"}
	defs := []models.TaskDefinition{percentTask("a", 100)}

	res := c.Calculate(story, defs, Config{})
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, float64(0), res.Tasks[0].Estimation)
	assert.NotEmpty(t, res.Warnings)
}

func TestCalculate_AssigneeResolution(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 4, AssignedTo: "owner@example.com"}

	tests := []struct {
		name     string
		assignTo string
		cfg      Config
		want     string
	}{
		{"parent assignee", models.MacroParentAssignee, Config{}, "owner@example.com"},
		{"inherit", models.MacroInherit, Config{}, "owner@example.com"},
		{"me", models.MacroMe, Config{Identity: "me@example.com"}, "me@example.com"},
		{"unassigned", models.MacroUnassigned, Config{}, ""},
		{"literal", "bob@example.com", Config{}, "bob@example.com"},
		{"empty without inherit", "", Config{}, ""},
		{"empty with inherit", "", Config{InheritAssignee: true}, "owner@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := percentTask("a", 100)
			def.AssignTo = tt.assignTo
			res := c.Calculate(story, []models.TaskDefinition{def}, tt.cfg)
			require.Len(t, res.Tasks, 1)
			assert.Equal(t, tt.want, res.Tasks[0].AssignedTo)
		})
	}
}

func TestCalculate_Interpolation(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "story-7", Title: "Checkout", Description: "the checkout flow", Estimation: 2}
	def := percentTask("a", 100)
	def.Title = "Test ${story.title}"
	def.Description = "Verify ${story.description} (${story.id})"

	res := c.Calculate(story, []models.TaskDefinition{def}, Config{})
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "Test Checkout", res.Tasks[0].Title)
	assert.Equal(t, "Verify the checkout flow (story-7)", res.Tasks[0].Description)
}

func TestRenormalizedPercentsAlwaysSumToHundred(t *testing.T) {
	c := New(zerolog.Nop())
	story := models.WorkItem{ID: "s1", Estimation: 13, State: "Ready"}

	cases := [][]float64{
		{10, 20, 30, 40},
		{7, 13, 17},
		{1, 1, 1, 1, 1},
		{33, 33, 33},
	}
	for _, percents := range cases {
		skip := percentTask("skip", 5)
		skip.Condition = `${story.state} == 'Nope'`
		defs := []models.TaskDefinition{skip}
		for i, p := range percents {
			defs = append(defs, percentTask(string(rune('a'+i)), p))
		}

		res := c.Calculate(story, defs, Config{})
		var sum float64
		for _, task := range res.Tasks {
			sum += task.EstimationPercent
		}
		assert.Equal(t, float64(100), sum, "percents %v", percents)
	}
}

func TestSummarizeAndValidate(t *testing.T) {
	story := models.WorkItem{ID: "s1", Estimation: 10}
	tasks := []models.CalculatedTask{
		{Title: "a", Estimation: 5},
		{Title: "b", Estimation: 3},
	}

	s := Summarize(story, tasks)
	assert.Equal(t, float64(8), s.TaskTotal)
	assert.Equal(t, float64(-2), s.Difference)
	assert.InDelta(t, 80, s.PercentUsed, 0.001)

	warnings := ValidateEstimation(story, tasks)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "differ")

	tasks = append(tasks, models.CalculatedTask{Title: "c", Estimation: 2})
	assert.Empty(t, ValidateEstimation(story, tasks))

	tasks = append(tasks, models.CalculatedTask{Title: "d", Estimation: 0})
	warnings = ValidateEstimation(story, tasks)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "zero estimation")
}
