package analyzer

// Severity represents the danger level of a finding.
type Severity int

const (
	// Safe indicates no danger detected.
	Safe Severity = iota
	// Low indicates a minor concern.
	Low
	// Medium indicates a script that needs care on re-run or review.
	Medium
	// High indicates likely data loss or a statement SQLite rejects.
	High
	// Critical indicates a statement that destroys data.
	Critical
)

// String returns the uppercase label for the severity level.
func (s Severity) String() string {
	switch s {
	case Safe:
		return "SAFE"
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the severity as its label.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
