package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cuzdan/internal/core"
	"cuzdan/internal/log"
)

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Profiles())
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.AddProfile(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Profile created via API",
		log.FieldProfileID, p.ID,
		log.FieldOperation, log.OpCreate)
	writeJSON(w, http.StatusCreated, p)
}

// handleActiveProfile answers 204 when no profile is selected.
func (s *Server) handleActiveProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.store.ActiveProfile()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := ""
	if req.ID != nil {
		id = *req.ID
	}
	if err := s.store.SelectProfile(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Profile selected",
		log.FieldProfileID, id,
		log.FieldOperation, log.OpSelect)
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteProfile is idempotent: unknown profiles also answer 204.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "profileID")
	s.store.DeleteProfile(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// profileFromPath resolves the {profileID} route parameter.
func (s *Server) profileFromPath(r *http.Request) (core.Profile, error) {
	id := chi.URLParam(r, "profileID")
	p, ok := s.store.Profile(id)
	if !ok {
		return core.Profile{}, fmt.Errorf("profile %q: %w", id, core.ErrProfileNotFound)
	}
	return p, nil
}
