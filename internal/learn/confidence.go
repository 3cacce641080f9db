package learn

import (
	"fmt"
	"math"

	"github.com/josephgoksu/atomize/models"
)

// Factor weights. They sum to 1.
const (
	weightSampleSize      = 0.25
	weightTaskConsistency = 0.30
	weightEstimation      = 0.20
	weightMergeQuality    = 0.15
	weightCoverage        = 0.10
)

// ScoreConfidence computes the confidence of a learned template from five
// weighted signals plus a small-sample penalty. It always produces a score;
// absence of data degrades the score rather than failing.
func ScoreConfidence(analyses []models.StoryAnalysis, patterns models.PatternDetectionResult) models.ConfidenceScore {
	n := len(analyses)

	sample := sampleSizeScore(n)
	consistency := taskConsistencyScore(analyses, patterns)
	estimation := estimationConsistencyScore(analyses)
	merge := mergeQualityScore(analyses, patterns)
	coverage := coverageScore(analyses)

	factors := []models.ConfidenceFactor{
		{Name: "sample size", Score: sample, Weight: weightSampleSize,
			Detail: fmt.Sprintf("%d stories analyzed", n)},
		{Name: "task consistency", Score: consistency, Weight: weightTaskConsistency,
			Detail: "recurring tasks relative to tasks per story"},
		{Name: "estimation consistency", Score: estimation, Weight: weightEstimation,
			Detail: "similarity of estimation distributions across stories"},
		{Name: "merge quality", Score: merge, Weight: weightMergeQuality,
			Detail: fmt.Sprintf("%d merged task groups", len(patterns.MergedTasks))},
		{Name: "estimation coverage", Score: coverage, Weight: weightCoverage,
			Detail: "tasks carrying a nonzero estimation"},
	}

	weighted := 0.0
	for _, f := range factors {
		weighted += f.Score * f.Weight
	}
	weighted -= (100 - sample) * smallSamplePenalty(n)

	overall := int(math.Round(math.Min(100, math.Max(0, weighted))))
	return models.ConfidenceScore{
		Overall: overall,
		Level:   levelFor(overall),
		Factors: factors,
	}
}

// sampleSizeScore is a step function of the number of analyzed stories,
// capped at 90.
func sampleSizeScore(n int) float64 {
	switch n {
	case 0:
		return 0
	case 1:
		return 20
	case 2:
		return 40
	case 3:
		return 60
	case 4:
		return 75
	}
	return math.Min(75+5*float64(n-4), 90)
}

// smallSamplePenalty is the extra weight applied to the sample-size gap for
// small samples.
func smallSamplePenalty(n int) float64 {
	switch n {
	case 0, 1:
		return 0.5
	case 2:
		return 0.25
	case 3:
		return 0.10
	case 4:
		return 0.05
	}
	return 0
}

// taskConsistencyScore is the ratio of common tasks seen in more than half
// the stories to the average number of tasks per story.
func taskConsistencyScore(analyses []models.StoryAnalysis, patterns models.PatternDetectionResult) float64 {
	total := 0
	for _, a := range analyses {
		total += len(a.Tasks)
	}
	if len(analyses) == 0 || total == 0 {
		return 0
	}
	avgPerStory := float64(total) / float64(len(analyses))

	recurring := 0
	for _, c := range patterns.CommonTasks {
		if c.FrequencyRatio > 0.5 {
			recurring++
		}
	}
	return math.Min(1, float64(recurring)/avgPerStory) * 100
}

// estimationConsistencyScore is the mean pairwise cosine similarity of
// 10-bin histograms of estimation percentages across stories.
func estimationConsistencyScore(analyses []models.StoryAnalysis) float64 {
	if len(analyses) < 2 {
		return 0
	}
	hists := make([][10]float64, len(analyses))
	for i, a := range analyses {
		for _, t := range a.Tasks {
			bin := int(t.Percent() / 10)
			if bin > 9 {
				bin = 9
			}
			if bin < 0 {
				bin = 0
			}
			hists[i][bin]++
		}
	}

	sum, pairs := 0.0, 0
	for i := 0; i < len(hists); i++ {
		for j := i + 1; j < len(hists); j++ {
			sum += cosine(hists[i], hists[j])
			pairs++
		}
	}
	return sum / float64(pairs) * 100
}

func cosine(a, b [10]float64) float64 {
	dot, na, nb := 0.0, 0.0, 0.0
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// mergeQualityScore composes the merge ratio (fewer merges of the original
// task population is better) with the mean merge similarity, 0.6/0.4.
func mergeQualityScore(analyses []models.StoryAnalysis, patterns models.PatternDetectionResult) float64 {
	total := 0
	for _, a := range analyses {
		total += len(a.Tasks)
	}
	if total == 0 {
		return 0
	}
	ratio := 1 - float64(len(patterns.MergedTasks))/float64(total)

	meanSim := 1.0
	if len(patterns.MergedTasks) > 0 {
		sum := 0.0
		for _, m := range patterns.MergedTasks {
			sum += m.Similarity
		}
		meanSim = sum / float64(len(patterns.MergedTasks))
	}
	return (0.6*ratio + 0.4*meanSim) * 100
}

// coverageScore is the fraction of tasks carrying a nonzero estimation
// percentage.
func coverageScore(analyses []models.StoryAnalysis) float64 {
	total, estimated := 0, 0
	for _, a := range analyses {
		for _, t := range a.Tasks {
			total++
			if t.Percent() > 0 {
				estimated++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(estimated) / float64(total) * 100
}

func levelFor(overall int) models.ConfidenceLevel {
	switch {
	case overall >= 75:
		return models.ConfidenceHigh
	case overall >= 45:
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}
