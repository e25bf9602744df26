/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication that are not domain
  types themselves. Records, issue forms and stats already carry their wire
  format (ppe.Record, ppe.IssueForm, ppe.Stats) and are sent as-is.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Response wrappers

VALIDATION:
  Validation is done in handlers and ppe.IssueForm, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - ppe/types.go: Record wire format
*/
package api

import (
	"github.com/vesselflow/ppe-engine/ppe"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CategoryDTO groups catalog items under their category.
type CategoryDTO struct {
	Name  string            `json:"name"`
	Items []ppe.CatalogItem `json:"items"`
}

// InsightsRequest asks a question about the issuance history.
type InsightsRequest struct {
	Query string `json:"query"`
}

// RequirementRequest describes a task that needs PPE.
type RequirementRequest struct {
	Task string `json:"task"`
}

// AdviceResponse carries the advisor's answer (possibly fallback text).
type AdviceResponse struct {
	Mode   string `json:"mode"`
	Answer string `json:"answer"`
}

// HealthDTO is returned by /healthz.
type HealthDTO struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Version uint64 `json:"version"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCategoryDTOs(catalog *ppe.Catalog) []CategoryDTO {
	cats := ppe.Categories()
	dtos := make([]CategoryDTO, len(cats))
	for i, c := range cats {
		items := catalog.ItemsIn(c)
		if items == nil {
			items = []ppe.CatalogItem{}
		}
		dtos[i] = CategoryDTO{Name: string(c), Items: items}
	}
	return dtos
}
