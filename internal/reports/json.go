package reports

import (
	"encoding/json"
)

// FormatJSON formats a period report as JSON.
func FormatJSON(report *PeriodReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
