package recommend

import (
	"fmt"

	"github.com/tootli/dineout-assistant/models"
)

// Request is the inbound body of the recommend endpoints. Unknown fields are
// ignored on binding; only the fields below matter.
type Request struct {
	UserQuery            string               `json:"user_query"`
	UserName             string               `json:"user_name"`
	Filters              map[string]any       `json:"filters,omitempty"`
	Candidates           []models.Candidate   `json:"candidates,omitempty"`
	History              []models.HistoryTurn `json:"history,omitempty"`
	PreviousCandidateIDs []uint64             `json:"previous_candidate_ids,omitempty"`
}

func (r *Request) Validate() error {
	if r.UserQuery == "" {
		return fmt.Errorf("user_query is required")
	}
	if r.UserName == "" {
		return fmt.Errorf("user_name is required")
	}

	for i, c := range r.Candidates {
		if c.Name == "" {
			return fmt.Errorf("candidates[%d].name is required", i)
		}
	}

	for i, turn := range r.History {
		if turn.Role != models.RoleUser && turn.Role != models.RoleModel {
			return fmt.Errorf("history[%d].role must be %q or %q", i, models.RoleUser, models.RoleModel)
		}
		if turn.Content == "" {
			return fmt.Errorf("history[%d].content is required", i)
		}
	}

	return nil
}

// HasPrevious reports whether the previous-turn identifier set participates
// in reconciliation. An empty list behaves like an absent one.
func (r *Request) HasPrevious() bool {
	return len(r.PreviousCandidateIDs) > 0
}

// Result is what the caller gets back: the model's visible text with the
// marker stripped, plus the reconciled identifier list.
type Result struct {
	ResponseText      string   `json:"responseText"`
	RecommendationIDs []uint64 `json:"recommendation_ids"`
}
