package analyzer

import "strings"

// longSentenceWords is the word count above which a sentence costs a clarity point.
const longSentenceWords = 30

// Features holds the raw diagnostic counts extracted from a text.
type Features struct {
	WordCount         int     `json:"word_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	// SentenceSegments counts every piece of the sentence split, empty pieces
	// included. It is at least 1 for any input.
	SentenceSegments  int `json:"sentence_segments"`
	LongSentences     int `json:"long_sentences"`
	FillerCount       int `json:"filler_count"`
	WeakLanguageCount int `json:"weak_language_count"`
	StrongMarkers     int `json:"strong_markers"`
	PassiveVoice      int `json:"passive_voice"`

	Ethos  int `json:"ethos"`
	Pathos int `json:"pathos"`
	Logos  int `json:"logos"`

	DirectNo       int `json:"direct_no"`
	Apologies      int `json:"apologies"`
	Justifications int `json:"justifications"`

	HasStructureMarker bool `json:"has_structure_marker"`
	HasCallToAction    bool `json:"has_call_to_action"`
	HasAlternative     bool `json:"has_alternative"`
}

// Extract computes Features for text. It never fails; empty text yields
// zero counts.
func Extract(text string) Features {
	segments := splitSentences(text)

	f := Features{
		WordCount:         len(strings.Fields(text)),
		AvgSentenceLength: averageSentenceLength(segments),
		SentenceSegments:  len(segments),
		FillerCount:       countFillers(text),
		WeakLanguageCount: countAll(weakPatterns, text),
		StrongMarkers:     countAll(strongPatterns, text),
		PassiveVoice:      len(passiveVoice.FindAllStringIndex(text, -1)),

		Ethos:  countAll(ethosPatterns, text),
		Pathos: countAll(pathosPatterns, text),
		Logos:  countAll(logosPatterns, text),

		DirectNo:       len(directNo.FindAllStringIndex(text, -1)),
		Apologies:      len(apologies.FindAllStringIndex(text, -1)),
		Justifications: len(justifications.FindAllStringIndex(text, -1)),

		HasStructureMarker: structureMarker.MatchString(text),
		HasCallToAction:    callToAction.MatchString(text),
		HasAlternative:     alternative.MatchString(text),
	}
	for _, s := range segments {
		if len(strings.Fields(s)) > longSentenceWords {
			f.LongSentences++
		}
	}
	return f
}

// splitSentences splits on runs of sentence terminators and keeps every
// piece, including empty ones before a leading or after a trailing terminator.
func splitSentences(text string) []string {
	var pieces []string
	beg := 0
	for _, m := range sentenceBreak.FindAllStringIndex(text, -1) {
		pieces = append(pieces, text[beg:m[0]])
		beg = m[1]
	}
	return append(pieces, text[beg:])
}

func averageSentenceLength(segments []string) float64 {
	total, n := 0, 0
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		total += len(strings.Fields(s))
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

func countFillers(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, f := range fillers {
		n += strings.Count(lower, f)
	}
	return n
}
