package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

const (
	ActionNextRound = "next"
	ActionNewGame   = "new"

	segmentSeparator = ";"
	moveSeparator    = ","
)

var ErrBadReplay = errors.New("malformed replay script")

type game interface {
	State() *entity.GameState
	ApplyMove(cell int) (entity.Outcome, error)
	NextRound() error
	NewGame() error
}

// Step is one segment of a replay script: either a list of cells or a reset action.
type Step struct {
	Cells  []int
	Action string
}

// ParseReplay - reads "0,4,1;next;3,4" into steps. Cells are 0-based.
func ParseReplay(script string) ([]Step, error) {
	var steps []Step

	for _, segment := range strings.Split(script, segmentSeparator) {
		segment = strings.TrimSpace(segment)

		switch segment {
		case "":
			continue
		case ActionNextRound, ActionNewGame:
			steps = append(steps, Step{Action: segment})
			continue
		}

		var cells []int
		for _, field := range strings.Split(segment, moveSeparator) {
			cell, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a cell", ErrBadReplay, field)
			}
			cells = append(cells, cell)
		}

		steps = append(steps, Step{Cells: cells})
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: nothing to play", ErrBadReplay)
	}

	return steps, nil
}

// Replay - feeds the steps through the game and prints the state after each one.
func (that *Printer) Replay(svc game, steps []Step) error {
	for _, step := range steps {
		switch step.Action {
		case ActionNextRound:
			if err := svc.NextRound(); err != nil {
				return fmt.Errorf("failed to start next round: %w", err)
			}
		case ActionNewGame:
			if err := svc.NewGame(); err != nil {
				return fmt.Errorf("failed to start new game: %w", err)
			}
		default:
			for _, cell := range step.Cells {
				if _, err := svc.ApplyMove(cell); err != nil {
					return fmt.Errorf("failed to replay cell %d: %w", cell, err)
				}
			}
		}

		if err := that.Print(svc.State()); err != nil {
			return err
		}
	}

	return nil
}
