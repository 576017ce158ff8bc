package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/tripcomposer/internal/domain"
	"github.com/Domenick1991/tripcomposer/internal/service/composite"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCompositeUseCase is a mock implementation of composite.CompositeUseCase
type MockCompositeUseCase struct {
	mock.Mock
}

func (m *MockCompositeUseCase) GetItinerary(ctx context.Context, id string) (*domain.ComposedItinerary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComposedItinerary), args.Error(1)
}

func (m *MockCompositeUseCase) ListDestinations(ctx context.Context) ([]domain.CityWithSeasons, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CityWithSeasons), args.Error(1)
}

func (m *MockCompositeUseCase) CreateItinerary(ctx context.Context, input composite.CreateItineraryInput) (*domain.CreatedItinerary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreatedItinerary), args.Error(1)
}

func (m *MockCompositeUseCase) QuoteItinerary(ctx context.Context, id string) (*domain.ItineraryQuote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItineraryQuote), args.Error(1)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func postItinerary(handler *ItineraryHandler, body string, headers map[string]string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/composite/itineraries", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	handler.create(c)
	return w
}

func withSegments(n int) interface{} {
	return mock.MatchedBy(func(in composite.CreateItineraryInput) bool {
		return in.Itinerary != nil && len(in.Segments) == n
	})
}

func TestItineraryHandler_get(t *testing.T) {
	mockService := &MockCompositeUseCase{}
	handler := NewItineraryHandler(mockService, nil, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "it-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/composite/itineraries/it-1", nil)

	mockService.On("GetItinerary", c.Request.Context(), "it-1").Return(&domain.ComposedItinerary{
		Itinerary: domain.Itinerary{ID: "it-1"},
		Segments: []domain.EnrichedSegment{{
			Segment:  domain.Segment{ID: "s1", CityID: "paris"},
			CityName: "Paris",
			Currency: "EUR",
		}},
	}, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "it-1", response["id"])
	segments := response["segments"].([]interface{})
	require.Len(t, segments, 1)
	seg := segments[0].(map[string]interface{})
	assert.Equal(t, "Paris", seg["city_name"])
	assert.Equal(t, []interface{}{}, seg["rates"])
	mockService.AssertExpectations(t)
}

func TestItineraryHandler_get_UpstreamFailure(t *testing.T) {
	mockService := &MockCompositeUseCase{}
	handler := NewItineraryHandler(mockService, nil, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "it-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/api/composite/itineraries/it-1", nil)

	mockService.On("GetItinerary", c.Request.Context(), "it-1").
		Return(nil, errors.New("upstream request failed: 503 Service Unavailable (http://itineraries/itineraries/it-1)"))

	handler.get(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"upstream request failed: 503 Service Unavailable (http://itineraries/itineraries/it-1)"}`, w.Body.String())
}

func TestItineraryHandler_create(t *testing.T) {
	mockService := &MockCompositeUseCase{}
	handler := NewItineraryHandler(mockService, nil, nil)

	mockService.On("CreateItinerary", mock.Anything, withSegments(1)).Return(&domain.CreatedItinerary{
		Itinerary: domain.Itinerary{ID: "it-9"},
		Segments:  []domain.Segment{{ID: "s1", ItineraryID: "it-9", CityID: "paris"}},
	}, nil)

	w := postItinerary(handler, `{
		"itinerary": {"name": "Summer"},
		"segments": [{"city_id": "paris", "lodging_class": "standard", "start_date": "2024-01-01", "end_date": "2024-01-04"}]
	}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "it-9", response["id"])
	assert.Len(t, response["segments"], 1)
	mockService.AssertExpectations(t)
}

func TestItineraryHandler_create_ClientErrors(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		err      error
		wantBody string
	}{
		{
			name:     "missing itinerary",
			body:     `{"segments": []}`,
			err:      composite.ErrItineraryRequired,
			wantBody: `{"error":"itinerary is required"}`,
		},
		{
			name: "invalid segments",
			body: `{"itinerary": {}, "segments": [{}]}`,
			err: &composite.ValidationError{Segments: []composite.SegmentErrors{
				{Index: 0, Errors: []string{"city_id is required", "lodging_class is required"}},
			}},
			wantBody: `{"error":"Segment validation failed","details":[{"index":0,"errors":["city_id is required","lodging_class is required"]}]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockCompositeUseCase{}
			handler := NewItineraryHandler(mockService, nil, nil)
			mockService.On("CreateItinerary", mock.Anything, mock.Anything).Return(nil, tc.err)

			w := postItinerary(handler, tc.body, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestItineraryHandler_create_MalformedBody(t *testing.T) {
	for _, body := range []string{`{"itinerary": {}, "segments": "nope"}`, `not json`} {
		mockService := &MockCompositeUseCase{}
		handler := NewItineraryHandler(mockService, nil, nil)

		w := postItinerary(handler, body, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		mockService.AssertNotCalled(t, "CreateItinerary", mock.Anything, mock.Anything)
	}
}

func TestItineraryHandler_create_IdempotencyConflict(t *testing.T) {
	mockService := &MockCompositeUseCase{}
	locker := &MockLocker{}
	handler := NewItineraryHandler(mockService, locker, nil)
	locker.On("Acquire", mock.Anything, "key-1").Return(false, nil).Once()

	w := postItinerary(handler, `{"itinerary": {}}`, map[string]string{headerIdempotencyKey: "key-1"})

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertNotCalled(t, "CreateItinerary", mock.Anything, mock.Anything)
	locker.AssertExpectations(t)
}

func TestItineraryHandler_create_IdempotencyKeyKeptOnSuccess(t *testing.T) {
	mockService := &MockCompositeUseCase{}
	locker := &MockLocker{}
	handler := NewItineraryHandler(mockService, locker, nil)
	locker.On("Acquire", mock.Anything, "key-1").Return(true, nil).Once()
	mockService.On("CreateItinerary", mock.Anything, withSegments(0)).
		Return(&domain.CreatedItinerary{Itinerary: domain.Itinerary{ID: "it-1"}}, nil)

	w := postItinerary(handler, `{"itinerary": {}}`, map[string]string{headerIdempotencyKey: "key-1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	locker.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestItineraryHandler_create_IdempotencyKeyReleasedWhenNothingCreated(t *testing.T) {
	mockService := &MockCompositeUseCase{}
	locker := &MockLocker{}
	handler := NewItineraryHandler(mockService, locker, nil)
	locker.On("Acquire", mock.Anything, "key-1").Return(true, nil).Once()
	locker.On("Release", mock.Anything, "key-1").Return(nil).Once()
	mockService.On("CreateItinerary", mock.Anything, mock.Anything).
		Return(nil, &composite.ValidationError{Segments: []composite.SegmentErrors{{Index: 0, Errors: []string{"x"}}}})

	w := postItinerary(handler, `{"itinerary": {}, "segments": [{}]}`, map[string]string{headerIdempotencyKey: "key-1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	locker.AssertExpectations(t)
}

func TestItineraryHandler_create_IdempotencyKeyKeptOnPartialCreate(t *testing.T) {
	mockService := &MockCompositeUseCase{}
	locker := &MockLocker{}
	handler := NewItineraryHandler(mockService, locker, nil)
	locker.On("Acquire", mock.Anything, "key-1").Return(true, nil).Once()
	partial := &composite.PartialCreateError{ItineraryID: "it-9", Err: errors.New("segment write failed")}
	mockService.On("CreateItinerary", mock.Anything, mock.Anything).Return(nil, partial)

	w := postItinerary(handler, `{"itinerary": {}, "segments": [{}]}`, map[string]string{headerIdempotencyKey: "key-1"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"`+partial.Error()+`"}`, w.Body.String())
	locker.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestItineraryHandler_create_LockerFailure(t *testing.T) {
	mockService := &MockCompositeUseCase{}
	locker := &MockLocker{}
	handler := NewItineraryHandler(mockService, locker, nil)
	locker.On("Acquire", mock.Anything, "key-1").Return(false, errors.New("redis down"))

	w := postItinerary(handler, `{"itinerary": {}}`, map[string]string{headerIdempotencyKey: "key-1"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	mockService.AssertNotCalled(t, "CreateItinerary", mock.Anything, mock.Anything)
}
