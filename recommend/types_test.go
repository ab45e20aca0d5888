package recommend

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tootli/dineout-assistant/models"
)

func TestValidate_RequiredFields(t *testing.T) {
	cases := []struct {
		name string
		req  Request
		want string
	}{
		{"missing query", Request{UserName: "Ana"}, "user_query"},
		{"missing name", Request{UserQuery: "tacos"}, "user_name"},
		{
			"unnamed candidate",
			Request{UserQuery: "q", UserName: "n", Candidates: []models.Candidate{{ID: 1}}},
			"candidates[0].name",
		},
		{
			"bad history role",
			Request{UserQuery: "q", UserName: "n", History: []models.HistoryTurn{{Role: "system", Content: "x"}}},
			"history[0].role",
		},
		{
			"empty history content",
			Request{UserQuery: "q", UserName: "n", History: []models.HistoryTurn{{Role: "user"}}},
			"history[0].content",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected the error to name %q, got %q", tc.want, err)
			}
		})
	}
}

func TestValidate_OK(t *testing.T) {
	req := Request{
		UserQuery:  "cena romántica",
		UserName:   "Ana",
		Candidates: []models.Candidate{{ID: 1, Name: "X", Address: "Y"}},
		History: []models.HistoryTurn{
			{Role: models.RoleUser, Content: "hola"},
			{Role: models.RoleModel, Content: "¡Hola Ana!"},
		},
	}

	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequest_IgnoresUnknownFields(t *testing.T) {
	body := `{"user_query":"tacos","user_name":"Eva","locale":"es-MX","debug":true}`

	var req Request
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.UserQuery != "tacos" || req.UserName != "Eva" {
		t.Errorf("known fields lost: %+v", req)
	}
}

func TestHasPrevious(t *testing.T) {
	req := Request{}
	if req.HasPrevious() {
		t.Error("absent previous ids must report false")
	}
	req.PreviousCandidateIDs = []uint64{}
	if req.HasPrevious() {
		t.Error("empty previous ids must report false")
	}
	req.PreviousCandidateIDs = []uint64{4}
	if !req.HasPrevious() {
		t.Error("non-empty previous ids must report true")
	}
}
