package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"noonpick/internal/domain"
)

// VisitService records which candidate a user ultimately chose. Candidates
// are request-scoped, so the caller supplies the identity and display name.
type VisitService struct {
	visits domain.VisitRepository
	events domain.EventRepository // optional
}

func NewVisitService(visits domain.VisitRepository, events domain.EventRepository) *VisitService {
	return &VisitService{visits: visits, events: events}
}

func (s *VisitService) RecordVisit(ctx context.Context, userID int64, placeKey, placeName string) error {
	if placeKey == "" {
		return fmt.Errorf("place key is required")
	}
	if placeName == "" {
		placeName = "place_" + placeKey
	}
	if err := s.visits.RecordVisit(ctx, userID, placeKey, placeName); err != nil {
		return fmt.Errorf("record visit: %w", err)
	}

	if s.events != nil {
		meta := map[string]any{
			"menuId":   placeKey,
			"menuName": placeName,
			"source":   "user",
		}
		if err := s.events.LogEvent(ctx, fmt.Sprintf("user:%d", userID), serviceName, "menu_selected", placeKey, meta); err != nil {
			log.Warn().Err(err).Str("place", placeKey).Msg("failed to log visit event")
		}
	}
	return nil
}
