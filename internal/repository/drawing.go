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

type DrawingRepository interface {
	Create(ctx context.Context, drawing *entity.Drawing) error
	List(ctx context.Context) ([]*entity.Drawing, error)
	DeleteByID(ctx context.Context, id int64) error
}

type memDrawing struct {
	mu       sync.RWMutex
	ids      pkg.Sequence
	drawings map[int64]*entity.Drawing
}

func NewDrawingRepository() DrawingRepository {
	return &memDrawing{
		drawings: make(map[int64]*entity.Drawing),
	}
}

func (that *memDrawing) Create(_ context.Context, drawing *entity.Drawing) error {
	drawing.ID = that.ids.Next()

	that.mu.Lock()
	that.drawings[drawing.ID] = copyDrawing(drawing)
	that.mu.Unlock()

	return nil
}

func (that *memDrawing) List(_ context.Context) ([]*entity.Drawing, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	drawings := make([]*entity.Drawing, 0, len(that.drawings))
	for _, drawing := range that.drawings {
		drawings = append(drawings, copyDrawing(drawing))
	}

	sort.Slice(drawings, func(i, j int) bool {
		return drawings[i].ID < drawings[j].ID
	})

	return drawings, nil
}

func (that *memDrawing) DeleteByID(_ context.Context, id int64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.drawings[id]; !ok {
		return fmt.Errorf("%w: id %d", apperror.ErrDrawingNotFound, id)
	}

	delete(that.drawings, id)

	return nil
}

func copyDrawing(drawing *entity.Drawing) *entity.Drawing {
	copied := *drawing
	if drawing.Positions != nil {
		copied.Positions = append([]entity.LatLng(nil), drawing.Positions...)
	}
	return &copied
}
