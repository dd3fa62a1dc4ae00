package analyzer

import "regexp"

// fillers are counted as plain substrings of the lowercased text, so "like"
// inside "likely" counts too.
var fillers = []string{
	"um", "uh", "like", "you know", "actually", "basically", "literally",
	"just", "really", "very", "kind of", "sort of", "maybe", "probably",
	"i think", "i guess", "perhaps", "possibly",
}

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

var weakPatterns = compileAll(
	`\?`,
	`(?i)\bhope\b`, `(?i)\btry\b`, `(?i)\bmight\b`, `(?i)\bmaybe\b`,
	`(?i)\bsorry\b`, `(?i)\bjust\b`, `(?i)\bkind of\b`,
	`(?i)\bI think\b`, `(?i)\bprobably\b`,
)

var strongPatterns = compileAll(
	`(?i)\bI (will|have decided|decided|am|built|launched)\b`,
	`(?i)\b(First|Second|Third|Therefore|In summary|Specifically)\b`,
	`(?i)\b(must|need to|require)\b`,
)

// RE2's \w and \b are ASCII-only, so the participle and its trailing
// boundary are spelled out with Unicode classes.
var passiveVoice = regexp.MustCompile(`(?i)\b(is|are|was|were|be|been|being) [\p{L}\p{N}_]+ed(?:[^\p{L}\p{N}_]|$)`)

var ethosPatterns = compileAll(
	`(?i)\b(I've|I have) (built|launched|led|managed|delivered)\b`,
	`(?i)\b(experience|track record|expertise)\b`,
	`(?i)\b(research|study|data) shows\b`,
)

var pathosPatterns = compileAll(
	`(?i)\b(imagine|picture|consider)\b`,
	`(?i)\b(risk|opportunity|critical|urgent)\b`,
	`(?i)\bif we (don't|fail to)\b`,
	`(?i)\b(story|example|case)\b`,
)

var logosPatterns = compileAll(
	`(?i)\b(because|therefore|thus|since)\b`,
	`(?i)\b(\d+%|\d+ percent)\b`,
	`(?i)\b(data|evidence|proof|shows|demonstrates)\b`,
	`(?i)\b(First|Second|Third)\b`,
)

var (
	directNo       = regexp.MustCompile(`(?i)\b(No|I'm not available|I can't|I won't)\b`)
	apologies      = regexp.MustCompile(`(?i)\b(sorry|apologize|apologies)\b`)
	justifications = regexp.MustCompile(`(?i)\b(because|since|as|due to)\b`)
)

var (
	structureMarker = regexp.MustCompile(`(?i)\b(First|Second|Therefore|In summary|Specifically)\b`)
	callToAction    = regexp.MustCompile(`(?i)\b(Please|I need|Approve|Let's|We should)\b`)
	alternative     = regexp.MustCompile(`(?i)\b(instead|alternatively|I can|available)\b`)
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func countAll(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllStringIndex(text, -1))
	}
	return n
}
