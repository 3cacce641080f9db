package learn

import (
	"fmt"
	"testing"

	"github.com/josephgoksu/atomize/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identicalAnalyses builds n stories that each contain the same three tasks.
func identicalAnalyses(n int) []models.StoryAnalysis {
	analyses := make([]models.StoryAnalysis, 0, n)
	for i := 0; i < n; i++ {
		story := models.WorkItem{ID: fmt.Sprintf("s%d", i), Type: "User Story", State: "Closed"}
		analyses = append(analyses, analysisOf(story,
			def("build", "Build api endpoints", "Development", 40),
			def("test", "Test api endpoints", "Testing", 40),
			def("deploy", "Deploy api service", "Deployment", 20),
		))
	}
	return analyses
}

func TestScoreConfidence_MonotonicInSampleSize(t *testing.T) {
	prev := -1
	for n := 0; n <= 8; n++ {
		analyses := identicalAnalyses(n)
		score := ScoreConfidence(analyses, DetectPatterns(analyses))

		assert.GreaterOrEqual(t, score.Overall, 0)
		assert.LessOrEqual(t, score.Overall, 100)
		assert.GreaterOrEqual(t, score.Overall, prev,
			"score must not decrease when sample size grows (n=%d)", n)
		prev = score.Overall
	}
}

func TestScoreConfidence_Levels(t *testing.T) {
	// Many consistent stories: high confidence.
	analyses := identicalAnalyses(6)
	score := ScoreConfidence(analyses, DetectPatterns(analyses))
	assert.Equal(t, models.ConfidenceHigh, score.Level)
	assert.GreaterOrEqual(t, score.Overall, 75)

	// One story: the small-sample penalty keeps confidence low.
	analyses = identicalAnalyses(1)
	score = ScoreConfidence(analyses, DetectPatterns(analyses))
	assert.Equal(t, models.ConfidenceLow, score.Level)
	assert.Less(t, score.Overall, 45)
}

func TestScoreConfidence_AlwaysProducesFiveFactors(t *testing.T) {
	score := ScoreConfidence(nil, models.PatternDetectionResult{})
	require.Len(t, score.Factors, 5)
	assert.Equal(t, 0, score.Overall)
	assert.Equal(t, models.ConfidenceLow, score.Level)

	var weightSum float64
	for _, f := range score.Factors {
		weightSum += f.Weight
	}
	assert.InDelta(t, 1.0, weightSum, 0.001)
}

func TestSampleSizeScoreSteps(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0}, {1, 20}, {2, 40}, {3, 60}, {4, 75}, {5, 80}, {6, 85}, {7, 90}, {8, 90}, {20, 90},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sampleSizeScore(tt.n), "n=%d", tt.n)
	}
}

func TestScoreConfidence_CoverageDegradesScore(t *testing.T) {
	full := identicalAnalyses(3)
	fullScore := ScoreConfidence(full, DetectPatterns(full))

	// Same stories but without estimations.
	bare := identicalAnalyses(3)
	for i := range bare {
		for j := range bare[i].Tasks {
			bare[i].Tasks[j].EstimationPercent = fp(0)
		}
	}
	bareScore := ScoreConfidence(bare, DetectPatterns(bare))
	assert.Less(t, bareScore.Overall, fullScore.Overall)
}
