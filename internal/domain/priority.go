package domain

// PriorityBreakdown is the per-factor result of scoring a ticket.
// Every field is always serialized, zero or not.
type PriorityBreakdown struct {
	SLAEnterprise float64 `json:"sla_enterprise"`
	AgeScore      float64 `json:"age_score"`
	ResponseScore float64 `json:"response_score"`
	StatusScore   float64 `json:"status_score"`
	Total         int64   `json:"total"`
}
