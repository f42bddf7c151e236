package server

import (
	"net/http"

	"github.com/itskdhere/together-we/internal/identity"
)

func (s *Service) handleGetVolunteerProfile(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	profile, err := s.identity.VolunteerProfile(r.Context(), civicID, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "", profile)
}

func (s *Service) handlePatchVolunteerProfile(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	var input identity.UpdateProfileInput
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	profile, err := s.identity.UpdateVolunteerProfile(r.Context(), civicID, email, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "Profile updated.", profile)
}
