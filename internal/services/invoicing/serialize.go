package invoicing

import (
	"time"

	"invoice-link-backend/internal/models"
	"invoice-link-backend/internal/store"
)

// dateKeys are rendered as ISO-8601 text on the way out.
var dateKeys = []string{"issue_date", "due_date", store.CreatedAtKey, store.UpdatedAtKey}

// Serialize turns a stored document into its JSON-facing shape: the store
// identifier becomes the "id" string and date values become ISO-8601 text.
// The input is not modified.
func Serialize(doc store.Document) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == store.IDKey {
			continue
		}
		out[k] = v
	}

	if id, ok := doc[store.IDKey]; ok && id != nil {
		out["id"] = id
	} else {
		out["id"] = nil
	}

	for _, key := range dateKeys {
		if v, ok := out[key]; ok {
			out[key] = isoFormat(v)
		}
	}
	return out
}

func isoFormat(v any) any {
	switch t := v.(type) {
	case models.Date:
		return t.String()
	case *models.Date:
		if t == nil {
			return nil
		}
		return t.String()
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}
