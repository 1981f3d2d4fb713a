package errors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

const reportablePrefix = "__json__:"

// DisplayMessage returns the first non-empty hint attached to err.
func DisplayMessage(err error) string {
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return "An unexpected error occurred"
}

// ReportableDetails collects every detail map attached with
// WithReportableDetails. Later maps overwrite earlier keys.
func ReportableDetails(err error) map[string]any {
	details := make(map[string]any)

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			if !strings.HasPrefix(payload, reportablePrefix) {
				continue
			}
			var parsed map[string]any
			if err := json.Unmarshal([]byte(payload[len(reportablePrefix):]), &parsed); err != nil {
				continue
			}
			for k, v := range parsed {
				details[k] = v
			}
		}
	}

	return details
}
