package server

import (
	"fmt"
	"net/http"

	"github.com/itskdhere/together-we/internal/opportunity"
)

func (s *Service) handleGetOrganizationEvents(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	events, err := s.opportunities.OrganizationEvents(r.Context(), civicID, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "", events)
}

func (s *Service) handlePostOrganizationEvent(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	var input opportunity.CreateOpportunityInput
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	event, err := s.opportunities.Create(r.Context(), civicID, email, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusCreated, "Opportunity published.", map[string]string{"eventID": event.ID})
}

func (s *Service) handlePatchOrganizationEvent(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	eventID := r.PathValue("eventID")

	if err := r.ParseForm(); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	var input opportunity.UpdateOpportunityInput
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.respondJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid form payload."})
		return
	}

	_, err = s.opportunities.Update(r.Context(), civicID, email, eventID, input)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "Opportunity updated.", nil)
}

func (s *Service) handleDeleteOrganizationEvent(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	eventID := r.PathValue("eventID")

	err = s.opportunities.Delete(r.Context(), civicID, email, eventID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "Opportunity deleted.", nil)
}

func (s *Service) handleDeleteAllOrganizationEvents(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	deleted, err := s.opportunities.DeleteAll(r.Context(), civicID, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, fmt.Sprintf("Deleted %d opportunities.", deleted), map[string]int64{"deleted": deleted})
}

func (s *Service) handleGetBrowseEvents(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	events, err := s.opportunities.BrowseEvents(r.Context(), civicID, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "", events)
}

func (s *Service) handleGetSearchEvents(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	term := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	events, err := s.opportunities.SearchEvents(r.Context(), civicID, email, term, category)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "", events)
}

func (s *Service) handleGetMyEvents(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	events, err := s.opportunities.MyEvents(r.Context(), civicID, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "", events)
}

func (s *Service) handlePostJoinEvent(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	eventID := r.PathValue("eventID")

	joined, err := s.opportunities.Join(r.Context(), civicID, email, eventID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "You are signed up.", map[string]int{"joined": joined})
}

func (s *Service) handlePostLeaveEvent(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	eventID := r.PathValue("eventID")

	remaining, err := s.opportunities.Leave(r.Context(), civicID, email, eventID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "You have left this opportunity.", map[string]int{"remaining": remaining})
}
