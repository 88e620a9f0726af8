package http

import "net/http"

// handleSettlement recomputes the month's settlement from fresh reads.
func (s *Server) handleSettlement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	month, ok := monthParam(w, r, "month")
	if !ok {
		return
	}

	calc, err := s.ledger.Settlement(r.Context(), month)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to compute settlement")
		return
	}

	respondWithJSON(w, http.StatusOK, calc)
}
