// internal/ranking/diversity.go
package ranking

import "donde-engine/internal/models"

// Diversity constraints.
const (
	diversityMinSize  = 6  // below this the list is too small to reshape
	diversityProtect  = 3  // top positions never move
	diversityCapTotal = 10 // final window size
)

// EnsureDiversity limits cuisine and area repetition in the ranked window.
// The top three positions are earned and never demoted. Overflow slots are
// backfilled from the remaining pool first; demoted candidates re-enter in
// their original order if space remains. Output is capped at ten.
func EnsureDiversity(ranked []models.Candidate, maxPerCuisine, maxPerArea int) []models.Candidate {
	if len(ranked) <= diversityMinSize-1 {
		return capList(ranked)
	}

	cuisineCount := make(map[string]int)
	areaCount := make(map[string]int)
	kept := make([]models.Candidate, 0, len(ranked))
	var demoted []models.Candidate

	for idx, c := range ranked {
		if idx < diversityProtect {
			cuisineCount[c.Cuisine]++
			areaCount[c.Area]++
			kept = append(kept, c)
			continue
		}
		if cuisineCount[c.Cuisine] >= maxPerCuisine || areaCount[c.Area] >= maxPerArea {
			demoted = append(demoted, c)
			continue
		}
		cuisineCount[c.Cuisine]++
		areaCount[c.Area]++
		kept = append(kept, c)
	}

	// Demoted candidates return at the tail, original order preserved.
	for _, c := range demoted {
		if len(kept) >= diversityCapTotal {
			break
		}
		kept = append(kept, c)
	}

	return capList(kept)
}

func capList(list []models.Candidate) []models.Candidate {
	if len(list) > diversityCapTotal {
		return list[:diversityCapTotal]
	}
	return list
}
