package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/pkg"
)

type MarkerRepository interface {
	Create(ctx context.Context, marker *entity.Marker) error
	List(ctx context.Context) ([]*entity.Marker, error)
	DeleteByID(ctx context.Context, id int64) error
}

type memMarker struct {
	mu      sync.RWMutex
	ids     pkg.Sequence
	markers map[int64]*entity.Marker
}

func NewMarkerRepository() MarkerRepository {
	return &memMarker{
		markers: make(map[int64]*entity.Marker),
	}
}

// Create - assigns the next id to the marker and stores a copy of it.
func (that *memMarker) Create(_ context.Context, marker *entity.Marker) error {
	marker.ID = that.ids.Next()

	stored := *marker

	that.mu.Lock()
	that.markers[stored.ID] = &stored
	that.mu.Unlock()

	return nil
}

func (that *memMarker) List(_ context.Context) ([]*entity.Marker, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	markers := make([]*entity.Marker, 0, len(that.markers))
	for _, marker := range that.markers {
		copied := *marker
		markers = append(markers, &copied)
	}

	sort.Slice(markers, func(i, j int) bool {
		return markers[i].ID < markers[j].ID
	})

	return markers, nil
}

func (that *memMarker) DeleteByID(_ context.Context, id int64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.markers[id]; !ok {
		return fmt.Errorf("%w: id %d", apperror.ErrMarkerNotFound, id)
	}

	delete(that.markers, id)

	return nil
}
