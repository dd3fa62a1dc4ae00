package training

// Modality is the channel a sample was produced in.
type Modality string

const (
	EmailFormal  Modality = "email-formal"
	EmailCasual  Modality = "email-casual"
	Slack        Modality = "slack"
	SMS          Modality = "sms"
	Presentation Modality = "presentation"
	Conversation Modality = "conversation"
)

// DefaultModality is used when the caller does not name one.
const DefaultModality = EmailFormal

// Modalities lists the recognized channels.
var Modalities = []Modality{EmailFormal, EmailCasual, Slack, SMS, Presentation, Conversation}

// defaultBaselineThreshold applies to modalities not in baselineThresholds.
const defaultBaselineThreshold = 10

var baselineThresholds = map[Modality]int{
	EmailFormal:  10,
	EmailCasual:  10,
	Slack:        15,
	SMS:          15,
	Presentation: 5,
	Conversation: 10,
}

// BaselineThreshold returns how many samples a dimension needs before its
// baseline is anchored for the given modality.
func BaselineThreshold(modality string) int {
	if n, ok := baselineThresholds[Modality(modality)]; ok {
		return n
	}
	return defaultBaselineThreshold
}

// IsKnownModality reports whether modality is one of the recognized channels.
func IsKnownModality(modality string) bool {
	_, ok := baselineThresholds[Modality(modality)]
	return ok
}
