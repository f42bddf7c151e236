package server

import (
	"net/http"

	"github.com/itskdhere/together-we/internal/identity"
)

// handleGetSession resolves the authenticated identity to a local user
// and tells the client where to go next.
func (s *Service) handleGetSession(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	resolution, err := s.identity.Resolve(r.Context(), civicID, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	data := map[string]interface{}{
		"url":        string(resolution.Destination),
		"onboarded":  resolution.User.Onboarded,
		"firstLogin": resolution.FirstLogin,
	}

	if resolution.Role != nil {
		data["role"] = string(resolution.Role.Kind())
	}

	message := "Welcome back."
	if resolution.FirstLogin {
		message = "Welcome to TogetherWe."
	}

	s.respondSuccess(w, http.StatusOK, message, data)
}

func (s *Service) handlePostOnboardVolunteer(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	var input identity.VolunteerOnboardInput
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	_, err = s.identity.OnboardVolunteer(r.Context(), civicID, email, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusCreated, "Volunteer profile created.", map[string]string{
		"url": string(identity.DestinationVolunteerDashboard),
	})
}

func (s *Service) handlePostOnboardOrganization(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	var input identity.OrganizationOnboardInput
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	_, err = s.identity.OnboardOrganization(r.Context(), civicID, email, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusCreated, "Organization profile created.", map[string]string{
		"url": string(identity.DestinationOrganizationDashboard),
	})
}
