package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
)

type MockSearchEventRepo struct {
	mock.Mock
}

func (m *MockSearchEventRepo) CreateSearchEvent(ctx context.Context, event SearchEvent) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}

func TestTrack_NormalizesQuery(t *testing.T) {
	repo := new(MockSearchEventRepo)
	repo.On("CreateSearchEvent", mock.Anything, mock.MatchedBy(func(e SearchEvent) bool {
		return e.Query == "burmese ruby" && e.ResultsCount == 3
	})).Return("evt-1", nil)

	svc := NewAnalyticsService(repo)
	svc.Track(context.Background(), SearchEvent{Query: "  Burmese RUBY ", ResultsCount: 3})

	repo.AssertExpectations(t)
}

func TestTrack_SwallowsRepositoryFailure(t *testing.T) {
	repo := new(MockSearchEventRepo)
	repo.On("CreateSearchEvent", mock.Anything, mock.Anything).
		Return("", errors.New("insert failed"))

	svc := NewAnalyticsService(repo)
	// Must not panic or propagate anything.
	svc.Track(context.Background(), SearchEvent{Query: "ruby"})

	repo.AssertExpectations(t)
}
