package http

import (
	"errors"
	"net/http"

	"kakeibo/internal/core"
	"kakeibo/internal/services"
)

// handleCopyPreview returns the copyable items and target-month occupancy for
// a source/target month pair.
func (s *Server) handleCopyPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	source, ok := monthParam(w, r, "source")
	if !ok {
		return
	}
	target, ok := monthParam(w, r, "target")
	if !ok {
		return
	}

	preview, err := s.copier.Preview(r.Context(), source, target)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to build copy preview")
		return
	}

	respondWithJSON(w, http.StatusOK, preview)
}

// handleCopy executes one month copy. On a mid-copy storage failure the
// response still carries the counts of writes that committed before the
// failing step.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var opts services.CopyOptions
	if err := decodeJSON(r, &opts); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := s.copier.Copy(r.Context(), opts)
	if err != nil {
		if isCopyOptionsError(err) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithJSON(w, http.StatusInternalServerError, struct {
			Error string `json:"error"`
			services.CopyResult
		}{Error: err.Error(), CopyResult: result})
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func isCopyOptionsError(err error) bool {
	return errors.Is(err, services.ErrUnknownCopyMode) ||
		errors.Is(err, services.ErrUnknownItemCopyMode) ||
		errors.Is(err, core.ErrInvalidMonthKey) ||
		errors.Is(err, core.ErrInvalidKind) ||
		errors.Is(err, core.ErrInvalidPerson)
}
