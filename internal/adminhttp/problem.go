package adminhttp

import (
	"encoding/json"
	"net/http"

	"github.com/moogar0880/problems"
)

// writeProblem writes an RFC 7807 problem+json response built from the
// moogar0880/problems library.
func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	problem := problems.NewDetailedProblem(status, detail)
	problem.Title = title

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem)
}
