package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

const centerCell = 4

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	MakeTurn(state *entity.GameState) (entity.Outcome, error)
}

type botService struct {
	rng *rand.Rand
}

func NewBotService(seed int64) BotService {
	return &botService{
		rng: rand.New(rand.NewSource(seed)), //nolint: gosec // not a security context
	}
}

// MakeTurn - completes its own line, else blocks the opponent, else takes the center, else plays a random free cell.
func (that *botService) MakeTurn(state *entity.GameState) (entity.Outcome, error) {
	availableCells := make([]int, 0, len(state.Board))
	for i, cell := range state.Board {
		if cell == entity.EmptyCell {
			availableCells = append(availableCells, i)
		}
	}

	if len(availableCells) == 0 {
		return entity.Outcome{}, ErrNoAvailableMoves
	}

	chosenCell := that.chooseCell(state, availableCells)

	outcome, err := state.ApplyMove(chosenCell)
	if err != nil {
		return entity.Outcome{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return outcome, nil
}

func (that *botService) chooseCell(state *entity.GameState, availableCells []int) int {
	own := state.CurrentPlayer
	opponent := entity.PlayerO
	if own == entity.PlayerO {
		opponent = entity.PlayerX
	}

	if cell, ok := completingCell(state, own); ok {
		return cell
	}

	if cell, ok := completingCell(state, opponent); ok {
		return cell
	}

	if state.Board[centerCell] == entity.EmptyCell {
		return centerCell
	}

	return availableCells[that.rng.Intn(len(availableCells))]
}

// completingCell - the free cell that gives mark a full line, if any.
func completingCell(state *entity.GameState, mark string) (int, bool) {
	for _, combo := range entity.WinCombos {
		marks, free := 0, -1
		for _, cell := range combo {
			switch state.Board[cell] {
			case mark:
				marks++
			case entity.EmptyCell:
				free = cell
			}
		}

		if marks == 2 && free != -1 {
			return free, true
		}
	}

	return 0, false
}
