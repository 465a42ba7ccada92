package profile

import "github.com/codeready-toolchain/pulsefeed/pkg/models"

// contentTypeAffinity computes, per content type, the weighted-average
// action score normalized into [-1, 1]: sum(ACTION_WEIGHTS) / count / 10.
func contentTypeAffinity(interactions []models.UserInteraction) map[models.ContentType]float64 {
	sums := map[models.ContentType]float64{}
	counts := map[models.ContentType]int{}

	for _, i := range interactions {
		sums[i.ContentType] += models.ActionWeights[i.Action]
		counts[i.ContentType]++
	}

	out := make(map[models.ContentType]float64, len(sums))
	for t, sum := range sums {
		v := sum / float64(counts[t]) / 10
		out[t] = clamp(v, -1, 1)
	}
	return out
}

func timeOfDayPatterns(interactions []models.UserInteraction) map[models.TimeOfDay]int {
	out := map[models.TimeOfDay]int{}
	for _, i := range interactions {
		out[i.Context.TimeOfDay]++
	}
	return out
}

func engagementStyle(interactions []models.UserInteraction) models.EngagementStyle {
	var dwellSum float64
	var dwellCount int
	var positionSum float64

	for _, i := range interactions {
		if i.DwellTime != nil {
			dwellSum += *i.DwellTime
			dwellCount++
		}
		positionSum += float64(i.Context.Position)
	}

	var avgDwell, avgPosition float64
	if dwellCount > 0 {
		avgDwell = dwellSum / float64(dwellCount)
	}
	if len(interactions) > 0 {
		avgPosition = positionSum / float64(len(interactions))
	}

	return models.DeriveEngagementStyle(avgDwell, avgPosition)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
