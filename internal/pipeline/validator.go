package pipeline

// DefaultMinDigits is the shortest accepted board id
const DefaultMinDigits = 6

// Validator gates every candidate before it leaves a strategy
type Validator struct {
	MinDigits int
}

// NewValidator returns a Validator; a non-positive minimum uses the default
func NewValidator(minDigits int) Validator {
	if minDigits <= 0 {
		minDigits = DefaultMinDigits
	}
	return Validator{MinDigits: minDigits}
}

// Valid reports whether candidate is only ASCII digits and long enough
func (v Validator) Valid(candidate string) bool {
	minLen := v.MinDigits
	if minLen <= 0 {
		minLen = DefaultMinDigits
	}
	if len(candidate) < minLen {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		if candidate[i] < '0' || candidate[i] > '9' {
			return false
		}
	}
	return true
}

// IsValidIdentifier checks candidate against the default minimum
func IsValidIdentifier(candidate string) bool {
	return NewValidator(DefaultMinDigits).Valid(candidate)
}
