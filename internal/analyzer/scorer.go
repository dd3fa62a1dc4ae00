package analyzer

import "github.com/MikeSquared-Agency/coach/internal/training"

const (
	maxScore = 10.0
	minScore = 0.0
)

// ScoreClarity penalizes long sentences, heavy passive voice and missing
// structure markers.
func ScoreClarity(f Features) float64 {
	score := maxScore

	if f.AvgSentenceLength > 25 {
		score -= 2
	} else if f.AvgSentenceLength > 20 {
		score -= 1
	}

	if f.SentenceSegments > 0 && float64(f.PassiveVoice)/float64(f.SentenceSegments) > 0.3 {
		score -= 2
	}

	if !f.HasStructureMarker {
		score -= 1
	}

	score -= float64(f.LongSentences)

	return clamp(score)
}

// ScoreVocalControl is a text proxy: one point lost per filler, at most ten.
func ScoreVocalControl(f Features) float64 {
	return clamp(maxScore - float64(min(f.FillerCount, 10)))
}

// ScorePresence trades weak language (-2 each, capped at -8) against strong
// markers (+1 each, capped at +3).
func ScorePresence(f Features) float64 {
	score := maxScore
	score -= float64(min(f.WeakLanguageCount*2, 8))
	score += float64(min(f.StrongMarkers, 3))
	return clamp(score)
}

// ScorePersuasion awards up to three points each for ethos, pathos and logos,
// plus one for a call to action.
func ScorePersuasion(f Features) float64 {
	score := minScore
	score += float64(min(f.Ethos, 3))
	score += float64(min(f.Pathos, 3))
	score += float64(min(f.Logos, 3))
	if f.HasCallToAction {
		score += 1
	}
	return clamp(score)
}

// ScoreBoundarySetting rewards a direct no and offered alternatives, and
// penalizes apologizing and over-justifying.
func ScoreBoundarySetting(f Features) float64 {
	score := minScore
	if f.DirectNo > 0 {
		score += 5
	}
	if f.Apologies > 0 {
		score -= 5
	}
	if f.WordCount > 0 && f.Justifications > 2 {
		score -= 2
	}
	if f.HasAlternative {
		score += 2
	}
	return clamp(score)
}

// Scores maps each dimension to its score.
type Scores map[training.Dimension]float64

// Score runs every dimension scorer over f.
func Score(f Features) Scores {
	return Scores{
		training.Clarity:         ScoreClarity(f),
		training.VocalControl:    ScoreVocalControl(f),
		training.Presence:        ScorePresence(f),
		training.Persuasion:      ScorePersuasion(f),
		training.BoundarySetting: ScoreBoundarySetting(f),
	}
}

// Map converts scores to plain string keys for sample records.
func (s Scores) Map() map[string]float64 {
	out := make(map[string]float64, len(s))
	for d, v := range s {
		out[string(d)] = v
	}
	return out
}

func clamp(score float64) float64 {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
