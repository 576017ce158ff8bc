package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/tripcomposer/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockItineraryDeleter struct {
	mock.Mock
}

func (m *MockItineraryDeleter) DeleteItinerary(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestReconciler_DeletesOrphanWhenEnabled(t *testing.T) {
	ctx := context.Background()
	deleter := &MockItineraryDeleter{}
	deleter.On("DeleteItinerary", ctx, "it-9").Return(nil).Once()
	r := NewReconciler(deleter, true, nil)

	err := r.Handle(ctx, kafka.ItineraryEvent{
		Type: kafka.EventItineraryOrphaned, ItineraryID: "it-9", SegmentCount: 2,
	})

	require.NoError(t, err)
	deleter.AssertExpectations(t)
}

func TestReconciler_KeepsOrphanWhenDisabled(t *testing.T) {
	deleter := &MockItineraryDeleter{}
	r := NewReconciler(deleter, false, nil)

	err := r.Handle(context.Background(), kafka.ItineraryEvent{Type: kafka.EventItineraryOrphaned, ItineraryID: "it-9"})

	require.NoError(t, err)
	deleter.AssertNotCalled(t, "DeleteItinerary", mock.Anything, mock.Anything)
}

func TestReconciler_DeleteFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("itineraries down")
	deleter := &MockItineraryDeleter{}
	deleter.On("DeleteItinerary", ctx, "it-9").Return(boom)
	r := NewReconciler(deleter, true, nil)

	err := r.Handle(ctx, kafka.ItineraryEvent{Type: kafka.EventItineraryOrphaned, ItineraryID: "it-9"})

	assert.ErrorIs(t, err, boom)
}

func TestReconciler_IgnoresOtherEvents(t *testing.T) {
	deleter := &MockItineraryDeleter{}
	r := NewReconciler(deleter, true, nil)

	for _, event := range []kafka.ItineraryEvent{
		{Type: kafka.EventItineraryCreated, ItineraryID: "it-1"},
		{Type: "something_else", ItineraryID: "it-2"},
	} {
		require.NoError(t, r.Handle(context.Background(), event))
	}
	deleter.AssertNotCalled(t, "DeleteItinerary", mock.Anything, mock.Anything)
}
