package advisory

import (
	"fmt"
	"strings"

	"github.com/vesselflow/ppe-engine/ppe"
)

// NoHistory stands in for the history summary when there are no records.
const NoHistory = "No history recorded yet."

// SummarizeHistory renders one line per record:
// "<date>: <requestor> from <vessel> took <qty>x <item>".
func SummarizeHistory(history []ppe.Record) string {
	if len(history) == 0 {
		return NoHistory
	}
	lines := make([]string, len(history))
	for i, r := range history {
		lines[i] = fmt.Sprintf("%s: %s from %s took %dx %s", r.Date, r.RequestorName, r.VesselName, r.Quantity, r.ItemName)
	}
	return strings.Join(lines, "\n")
}

const insightsTemplate = `You are a Maritime Safety and Logistics AI Expert.
Below is the recent PPE usage history for the fleet:
---
%s
---
User Query: %s

Based on the history and general maritime safety protocols (MARPOL, SOLAS), provide a concise insight or answer.
Focus on safety compliance, stock trends, or specific advice for the requested task.
Return the response in markdown format.
`

const requirementTemplate = `Given the following maritime task: "%s"
List the essential PPE items required for safety compliance.
Provide brief reasoning for each.
Return as a structured list.
`

// BuildInsightsPrompt embeds the history summary and the user's query.
func BuildInsightsPrompt(history []ppe.Record, query string) string {
	return fmt.Sprintf(insightsTemplate, SummarizeHistory(history), query)
}

// BuildRequirementPrompt embeds a task description.
func BuildRequirementPrompt(task string) string {
	return fmt.Sprintf(requirementTemplate, task)
}
