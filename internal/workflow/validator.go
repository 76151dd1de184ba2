package workflow

import "fmt"

// Issue reasons reported by the validator.
const (
	ReasonMissing       = "missing"
	ReasonLowConfidence = "low_confidence"
)

// Issue flags a canonical field that fails validation.
type Issue struct {
	Field  string
	Reason string
}

// Message renders the issue as a validation error message.
func (i Issue) Message() string {
	switch i.Reason {
	case ReasonMissing:
		return fmt.Sprintf("%s is missing or empty", i.Field)
	case ReasonLowConfidence:
		return fmt.Sprintf("%s was extracted with low confidence", i.Field)
	default:
		return fmt.Sprintf("%s: %s", i.Field, i.Reason)
	}
}

// Validator checks extracted fields against the canonical field set.
type Validator struct {
	// Threshold marks a present field as low-confidence when its score
	// falls strictly below this value.
	Threshold float64
}

// Check returns one issue per failing field, in canonical field order.
// A field is missing when absent or empty; a present field is
// low-confidence when its score falls strictly below the threshold.
// Fields without a confidence entry score 0.0.
func (v Validator) Check(fields map[string]string, confidences map[string]float64) []Issue {
	var issues []Issue

	for _, name := range FieldNames {
		value, ok := fields[name]
		if !ok || value == "" {
			issues = append(issues, Issue{Field: name, Reason: ReasonMissing})
			continue
		}

		if confidences[name] < v.Threshold {
			issues = append(issues, Issue{Field: name, Reason: ReasonLowConfidence})
		}
	}

	return issues
}

// MissingFields projects issues to their field names, preserving order.
func MissingFields(issues []Issue) []string {
	if len(issues) == 0 {
		return nil
	}

	fields := make([]string, len(issues))
	for i, issue := range issues {
		fields[i] = issue.Field
	}

	return fields
}

// ValidationMessages projects issues to their rendered messages,
// preserving order.
func ValidationMessages(issues []Issue) []string {
	if len(issues) == 0 {
		return nil
	}

	messages := make([]string, len(issues))
	for i, issue := range issues {
		messages[i] = issue.Message()
	}

	return messages
}
