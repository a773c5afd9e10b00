package adminhttp

import (
	"encoding/json"
	"net/http"

	"github.com/cooplan/amqp-api/internal/config"
)

type elementSummary struct {
	Name                  string `json:"name"`
	Direction             string `json:"direction"`
	MaxConcurrentRequests int    `json:"max_concurrent_requests,omitempty"`
}

type elementsResponse struct {
	Elements []elementSummary `json:"elements"`
}

// elementsHandler lists the configured input and output elements by
// name and direction, without exposing any AMQP wiring detail beyond an
// input element's concurrency budget.
func elementsHandler(elements *config.ElementsFile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if elements == nil {
			writeProblem(w, http.StatusServiceUnavailable, "Elements Not Loaded", "the elements configuration has not been loaded")
			return
		}

		resp := elementsResponse{}
		for _, in := range elements.Input {
			resp.Elements = append(resp.Elements, elementSummary{
				Name:                  in.Name,
				Direction:             "input",
				MaxConcurrentRequests: in.MaxConcurrentRequests,
			})
		}
		for _, out := range elements.Output {
			resp.Elements = append(resp.Elements, elementSummary{
				Name:      out.Name,
				Direction: "output",
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
