package learn

import (
	"math"
	"sort"
	"strings"

	"github.com/josephgoksu/atomize/models"
)

// similarityThreshold is the minimum similarity for two tasks from
// different stories to land in the same cluster.
const similarityThreshold = 0.6

// occurrence is one observed task with its provenance.
type occurrence struct {
	task     models.TaskDefinition
	storyIdx int
	position int
}

// cluster groups similar occurrences across analyses.
type cluster struct {
	members []occurrence
}

// DetectPatterns finds tasks that recur across the analyzed stories and
// proposes merges of near-duplicate tasks. Clustering is greedy in story
// order so the result is deterministic for a given input.
func DetectPatterns(analyses []models.StoryAnalysis) models.PatternDetectionResult {
	var clusters []*cluster
	for si, a := range analyses {
		for pos, task := range a.Tasks {
			occ := occurrence{task: task, storyIdx: si, position: pos}
			placed := false
			for _, c := range clusters {
				if TaskSimilarity(c.members[0].task, task) >= similarityThreshold {
					c.members = append(c.members, occ)
					placed = true
					break
				}
			}
			if !placed {
				clusters = append(clusters, &cluster{members: []occurrence{occ}})
			}
		}
	}

	var result models.PatternDetectionResult
	for _, c := range clusters {
		stories := make(map[int]bool)
		sumPercent, sumPos := 0.0, 0.0
		members := make([]models.TaskDefinition, 0, len(c.members))
		for _, m := range c.members {
			stories[m.storyIdx] = true
			sumPercent += m.task.Percent()
			sumPos += float64(m.position)
			members = append(members, m.task)
		}

		rep := c.members[0].task
		meanPercent := math.Round(sumPercent / float64(len(c.members)))
		rep.EstimationPercent = &meanPercent

		result.CommonTasks = append(result.CommonTasks, models.CommonTask{
			Task:           rep,
			FrequencyRatio: float64(len(stories)) / float64(len(analyses)),
			Occurrences:    len(c.members),
			MeanPosition:   sumPos / float64(len(c.members)),
		})

		if len(stories) > 1 {
			result.MergedTasks = append(result.MergedTasks, models.MergedTask{
				Representative: rep,
				Members:        members,
				Similarity:     meanPairwiseSimilarity(c.members),
			})
		}
	}

	sort.SliceStable(result.CommonTasks, func(i, j int) bool {
		a, b := result.CommonTasks[i], result.CommonTasks[j]
		if a.MeanPosition != b.MeanPosition {
			return a.MeanPosition < b.MeanPosition
		}
		return a.Task.Title < b.Task.Title
	})
	return result
}

// TaskSimilarity scores two tasks in [0,1]: token overlap of their
// generalized titles, with a bonus when the activities agree.
func TaskSimilarity(a, b models.TaskDefinition) float64 {
	sim := 0.8 * jaccard(titleTokens(a.Title), titleTokens(b.Title))
	if a.Activity != "" && a.Activity == b.Activity {
		sim += 0.2
	}
	return sim
}

func titleTokens(title string) map[string]bool {
	clean := placeholderPattern.ReplaceAllString(strings.ToLower(title), " ")
	clean = nonAlnumPattern.ReplaceAllString(clean, " ")
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(clean) {
		tokens[w] = true
	}
	return tokens
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func meanPairwiseSimilarity(members []occurrence) float64 {
	if len(members) < 2 {
		return 1
	}
	sum, pairs := 0.0, 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			sum += TaskSimilarity(members[i].task, members[j].task)
			pairs++
		}
	}
	return sum / float64(pairs)
}
