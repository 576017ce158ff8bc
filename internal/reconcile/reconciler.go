package reconcile

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tripcomposer/internal/kafka"
	"github.com/Domenick1991/tripcomposer/internal/logger"
)

type ItineraryDeleter interface {
	DeleteItinerary(ctx context.Context, id string) error
}

// Reconciler reacts to itinerary events. Orphaned itineraries are only logged
// unless deletion is enabled.
type Reconciler struct {
	itineraries   ItineraryDeleter
	deleteOrphans bool
	log           *logger.Logger
}

func NewReconciler(itineraries ItineraryDeleter, deleteOrphans bool, log *logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{itineraries: itineraries, deleteOrphans: deleteOrphans, log: log}
}

func (r *Reconciler) Handle(ctx context.Context, event kafka.ItineraryEvent) error {
	switch event.Type {
	case kafka.EventItineraryCreated:
		r.log.Info("itinerary created", "itinerary_id", event.ItineraryID, "segments", event.SegmentCount)
		return nil
	case kafka.EventItineraryOrphaned:
		return r.handleOrphan(ctx, event)
	default:
		r.log.Debug("ignoring event", "type", event.Type, "itinerary_id", event.ItineraryID)
		return nil
	}
}

func (r *Reconciler) handleOrphan(ctx context.Context, event kafka.ItineraryEvent) error {
	r.log.Warn("orphaned itinerary",
		"itinerary_id", event.ItineraryID,
		"segments", event.SegmentCount,
		"cause", event.Error,
	)
	if !r.deleteOrphans || event.ItineraryID == "" {
		return nil
	}
	if err := r.itineraries.DeleteItinerary(ctx, event.ItineraryID); err != nil {
		return fmt.Errorf("delete orphaned itinerary %s: %w", event.ItineraryID, err)
	}
	r.log.Info("deleted orphaned itinerary", "itinerary_id", event.ItineraryID)
	return nil
}
