package invoicing

import "github.com/samber/lo"

// PublicFields is the allowlist of keys a share link may reveal. Anything
// not listed here stays private.
var PublicFields = []string{
	"id",
	"invoice_number",
	"customer_name",
	"customer_email",
	"customer_address",
	"issue_date",
	"due_date",
	"currency",
	"items",
	"notes",
	"status",
	"subtotal",
	"tax",
	"discount",
	"total",
}

// ProjectPublic reduces a serialized invoice to PublicFields. Missing keys
// come out as null, except items which defaults to an empty list.
func ProjectPublic(inv map[string]any) map[string]any {
	out := lo.Associate(PublicFields, func(key string) (string, any) {
		return key, inv[key]
	})
	if out["items"] == nil {
		out["items"] = []any{}
	}
	return out
}
