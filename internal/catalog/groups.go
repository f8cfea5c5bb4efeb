package catalog

import "strings"

// Group pairs a product grouping label with the keywords that select it.
type Group struct {
	Label    string
	Keywords []string
}

// DefaultGroups classifies operations into the platform's product areas.
// The matching is substring based and the first match wins, so the ordering
// is load-bearing: specific product names must come before the broad
// umbrella keywords that would also match them. Keep this a slice, never a
// map.
var DefaultGroups = []Group{
	{Label: "Calendar", Keywords: []string{"calendar", "schedule", "event"}},
	{Label: "Drive", Keywords: []string{"drive", "storage", "media", "file"}},
	{Label: "Approval", Keywords: []string{"approval", "process", "workflow"}},
	{Label: "Attendance", Keywords: []string{"attendance", "checkin", "leave"}},
	{Label: "HR", Keywords: []string{"hrm", "employee", "roster"}},
	{Label: "Robot", Keywords: []string{"robot", "bot"}},
	{Label: "IM", Keywords: []string{"message", "chat", "conversation", "group"}},
	{Label: "Contacts", Keywords: []string{"contact", "department", "user", "org"}},
	{Label: "Auth", Keywords: []string{"auth", "token", "sso", "login"}},
}

// InferGroup classifies haystack text against an ordered group table.
// Returns "Other" when nothing matches.
func InferGroup(groups []Group, text string) string {
	text = strings.ToLower(text)
	for _, g := range groups {
		for _, kw := range g.Keywords {
			if strings.Contains(text, kw) {
				return g.Label
			}
		}
	}
	return "Other"
}
