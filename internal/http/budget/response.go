package budget

import (
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

type progressResponse struct {
	// Percentage is null when the budget amount is zero.
	Percentage *float64 `json:"percentage"`
	Bounded    *float64 `json:"bounded"`
	Over       bool     `json:"over"`
}

type budgetResponse struct {
	ledger.Budget
	Progress progressResponse `json:"progress"`
}

func toResponse(b ledger.Budget) budgetResponse {
	p := ledger.Progress(b)

	resp := budgetResponse{
		Budget:   b,
		Progress: progressResponse{Over: p.Over},
	}

	if p.Defined() {
		resp.Progress.Percentage = new(p.Percentage)
		resp.Progress.Bounded = new(p.Bounded)
	}

	return resp
}

func toResponses(budgets []ledger.Budget) []budgetResponse {
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toResponse(b))
	}

	return out
}
