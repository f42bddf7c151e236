package opportunity

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"
)

// Join signs the calling volunteer up for an event and returns the new
// joiner count. The store performs the append as a single conditional
// update, so two concurrent joins can never push an event past capacity.
func (s *Service) Join(ctx context.Context, civicID, email, eventID string) (int, error) {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeVolunteer)
	if err != nil {
		return 0, err
	}

	volunteerID := utils.PtrString(user.DataID)

	event, err := s.events.Event(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if event.HasVolunteer(volunteerID) {
		return 0, types.ErrAlreadyJoined
	}

	if len(event.JoinedVolunteers) >= event.VolunteerCap {
		return 0, types.ErrEventFull
	}

	joined, err := s.events.AddVolunteer(ctx, eventID, volunteerID)
	if err != nil {
		if errors.Is(err, types.ErrEventFull) {
			// The guard refused the append after our pre-read passed, so
			// a concurrent writer got there first. Re-read to tell a
			// duplicate join apart from a filled event.
			fresh, freshErr := s.events.Event(ctx, eventID)
			if freshErr == nil && fresh.HasVolunteer(volunteerID) {
				return 0, types.ErrAlreadyJoined
			}
		}

		return 0, err
	}

	err = s.volunteers.AppendExperience(ctx, volunteerID, eventID)
	if err != nil {
		// The event side already committed and is authoritative; a stale
		// experience cache is tolerable.
		s.logger.WithError(err).WithFields(logrus.Fields{
			"event_id":     eventID,
			"volunteer_id": volunteerID,
		}).Warn("failed to append event to volunteer experience")
	}

	s.maybeAwardFirstStep(ctx, volunteerID)

	s.logger.WithFields(logrus.Fields{
		"event_id":     eventID,
		"volunteer_id": volunteerID,
		"joined":       joined,
	}).Info("volunteer joined opportunity")

	return joined, nil
}

const firstStepBadgeName = "First Step"

// maybeAwardFirstStep grants the first-join badge. Badge grants are best
// effort; the join itself has already committed.
func (s *Service) maybeAwardFirstStep(ctx context.Context, volunteerID string) {
	events, err := s.events.EventsByVolunteer(ctx, volunteerID)
	if err != nil || len(events) != 1 {
		return
	}

	badge, err := s.badges.BadgeByName(ctx, firstStepBadgeName)
	if err != nil {
		if !errors.Is(err, types.ErrBadgeNotFound) {
			s.logger.WithError(err).Warn("failed to look up first join badge")
		}
		return
	}

	if err := s.volunteers.AwardBadge(ctx, volunteerID, badge.ID); err != nil {
		s.logger.WithError(err).WithField("volunteer_id", volunteerID).Warn("failed to award first join badge")
	}
}

// Leave withdraws the calling volunteer from an event and returns the
// remaining joiner count.
func (s *Service) Leave(ctx context.Context, civicID, email, eventID string) (int, error) {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeVolunteer)
	if err != nil {
		return 0, err
	}

	volunteerID := utils.PtrString(user.DataID)

	event, err := s.events.Event(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if !event.HasVolunteer(volunteerID) {
		return 0, types.ErrNotJoined
	}

	remaining, err := s.events.RemoveVolunteer(ctx, eventID, volunteerID)
	if err != nil {
		return 0, err
	}

	err = s.volunteers.RemoveExperience(ctx, volunteerID, eventID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"event_id":     eventID,
			"volunteer_id": volunteerID,
		}).Warn("failed to remove event from volunteer experience")
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":     eventID,
		"volunteer_id": volunteerID,
		"remaining":    remaining,
	}).Info("volunteer left opportunity")

	return remaining, nil
}
