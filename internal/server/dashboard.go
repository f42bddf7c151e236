package server

import (
	"net/http"
	"time"

	"github.com/itskdhere/together-we/internal/identity"
	"github.com/itskdhere/together-we/pkg/types"
)

func (s *Service) handleGetOrganizationStats(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	out, err := s.stats.OrganizationStats(r.Context(), civicID, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "", out)
}

func (s *Service) handleGetVolunteerRoster(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	roster, err := s.stats.VolunteerRoster(r.Context(), civicID, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "", roster)
}

func (s *Service) handleGetVolunteerStats(w http.ResponseWriter, r *http.Request) {
	civicID, email, err := s.identityFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	out, err := s.stats.VolunteerStats(r.Context(), civicID, email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondSuccess(w, http.StatusOK, "", out)
}

type badgeView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ArtworkURL  string    `json:"artworkURL"`
	CreatedAt   time.Time `json:"createdAt"`
}

// handleGetVolunteerBadges lists the badges the calling volunteer has
// earned.
func (s *Service) handleGetVolunteerBadges(w http.ResponseWriter, r *http.Request) {
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

	role, ok := resolution.Role.(identity.VolunteerRole)
	if !ok {
		s.respondError(w, types.ErrNotOnboarded)
		return
	}

	badges, err := s.badgesRepo.BadgesByIDs(r.Context(), role.Volunteer.Badges)
	if err != nil {
		s.respondError(w, err)
		return
	}

	views := make([]*badgeView, 0, len(badges))
	for _, badge := range badges {
		views = append(views, &badgeView{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			ArtworkURL:  s.badgeStorage.GetPublicURL(badge.URL),
			CreatedAt:   badge.CreatedAt,
		})
	}

	s.respondSuccess(w, http.StatusOK, "", views)
}

func (s *Service) handleGetBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := s.badgesRepo.AllBadges(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	views := make([]*badgeView, 0, len(badges))
	for _, badge := range badges {
		views = append(views, &badgeView{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			ArtworkURL:  s.badgeStorage.GetPublicURL(badge.URL),
			CreatedAt:   badge.CreatedAt,
		})
	}

	s.respondSuccess(w, http.StatusOK, "", views)
}
