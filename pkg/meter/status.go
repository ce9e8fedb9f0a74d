package meter

// Status places a syllable count against the target length of a line.
type Status int

const (
	// Empty means the line has no syllables yet.
	Empty Status = iota
	Short
	Exact
	Long
)

var statusNames = [...]string{"empty", "short", "exact", "long"}

func (s Status) String() string {
	if s < Empty || s > Long {
		return "unknown"
	}
	return statusNames[s]
}

// Classify compares count with target.
func Classify(count, target int) Status {
	switch {
	case count <= 0:
		return Empty
	case count == target:
		return Exact
	case count < target:
		return Short
	default:
		return Long
	}
}
