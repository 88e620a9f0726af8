package http

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"kakeibo/internal/core"
)

var entryKinds = []core.Kind{core.KindIncome, core.KindExpense, core.KindCarryover}

// handleEntries serves one kind's collection endpoint: GET lists a month,
// POST creates an entry.
func (s *Server) handleEntries(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.listEntries(w, r, kind)
		case http.MethodPost:
			s.createEntry(w, r, kind)
		default:
			respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

// handleEntryByID serves one kind's item endpoint: PUT updates, DELETE removes.
func (s *Server) handleEntryByID(kind core.Kind) http.HandlerFunc {
	base := "/api/" + kind.Table() + "/"
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, base)
		if id == "" || strings.Contains(id, "/") {
			respondWithError(w, http.StatusNotFound, "Entry not found")
			return
		}

		switch r.Method {
		case http.MethodPut:
			s.updateEntry(w, r, kind, id)
		case http.MethodDelete:
			s.deleteEntry(w, r, kind, id)
		default:
			respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request, kind core.Kind) {
	month, ok := monthParam(w, r, "month")
	if !ok {
		return
	}

	entries, err := s.ledger.Entries(r.Context(), kind, month)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list entries")
		return
	}
	if entries == nil {
		entries = []core.Entry{}
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request, kind core.Kind) {
	var in core.EntryInput
	if err := decodeJSON(r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	entry, err := s.ledger.Create(r.Context(), kind, in)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request, kind core.Kind, id string) {
	var in core.EntryInput
	if err := decodeJSON(r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	entry, err := s.ledger.Update(r.Context(), kind, id, in)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Entry not found")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request, kind core.Kind, id string) {
	if err := s.ledger.Delete(r.Context(), kind, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Entry not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// monthParam reads and validates a month query parameter, writing the error
// response itself when the value is missing or malformed.
func monthParam(w http.ResponseWriter, r *http.Request, name string) (core.Month, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		respondWithError(w, http.StatusBadRequest, "Missing "+name+" parameter")
		return 0, false
	}
	month, err := core.ParseMonth(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return month, true
}
