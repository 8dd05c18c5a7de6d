package locate

// Status is the classification of one target's best match.
type Status string

const (
	StatusOK       Status = "OK"
	StatusLow      Status = "LOW_CONFIDENCE"
	StatusMissing  Status = "MISSING"
	StatusConflict Status = "CONFLICT"
)

// Thresholds are the tunable cut-offs of location and classification.
type Thresholds struct {
	OK           float64 `mapstructure:"ok" json:"ok"`
	Low          float64 `mapstructure:"low" json:"low"`
	Alternative  float64 `mapstructure:"alternative" json:"alternative"`
	ChapterExact float64 `mapstructure:"chapter_exact" json:"chapterExact"`
	WindowFloor  float64 `mapstructure:"window_floor" json:"windowFloor"`

	// ConflictMargin > 0 turns near-tied winners into CONFLICT.
	ConflictMargin float64 `mapstructure:"conflict_margin" json:"conflictMargin"`
}

// DefaultThresholds returns the standard cut-offs. CONFLICT is disabled.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OK:           0.6,
		Low:          0.5,
		Alternative:  0.4,
		ChapterExact: 0.7,
		WindowFloor:  0.4,
	}
}

// Classify maps a confidence to a status.
func Classify(confidence float64, th Thresholds) Status {
	switch {
	case confidence >= th.OK:
		return StatusOK
	case confidence >= th.Low:
		return StatusLow
	default:
		return StatusMissing
	}
}

// classifyAgainst is Classify plus the optional near-tie check against the
// runner-up score.
func classifyAgainst(best, runnerUp float64, hasRunnerUp bool, th Thresholds) Status {
	st := Classify(best, th)
	if st != StatusMissing && hasRunnerUp && th.ConflictMargin > 0 && best-runnerUp <= th.ConflictMargin {
		return StatusConflict
	}
	return st
}
