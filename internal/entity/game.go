package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9
)

const (
	AccentX    = "x"
	AccentO    = "o"
	AccentDraw = "draw"
)

// WinCombos are evaluated in this order: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Scores struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

// Outcome is what a single ApplyMove call reports back to the caller.
type Outcome struct {
	Applied bool   `json:"applied"`
	Winner  string `json:"winner,omitempty"`
	Combo   []int  `json:"combo,omitempty"`
	Draw    bool   `json:"draw,omitempty"`
}

func (that Outcome) IsTerminal() bool {
	return that.Winner != "" || that.Draw
}

// GameState is one tic-tac-toe board plus the cumulative scores of the running game.
type GameState struct {
	Board         [BoardSize]string `json:"board"`
	CurrentPlayer string            `json:"current_player"`
	Scores        Scores            `json:"scores"`
	Round         int               `json:"round"`
	Active        bool              `json:"active"`
	WinCombo      []int             `json:"win_combo,omitempty"`
}

func NewGameState() *GameState {
	return &GameState{
		Board:         [BoardSize]string{EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell},
		CurrentPlayer: PlayerX,
		Round:         1,
		Active:        true,
	}
}

// DetermineResult checks the board for a completed line or a full board.
func (that *GameState) DetermineResult() Outcome {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return Outcome{Winner: a, Combo: []int{combo[0], combo[1], combo[2]}}
		}
	}

	// the round goes on while any cell is still free
	for _, cell := range that.Board {
		if cell == EmptyCell {
			return Outcome{}
		}
	}

	return Outcome{Draw: true}
}

// ApplyMove places the current player's mark on the cell. Moves on an occupied cell or after
// the round ended are ignored.
func (that *GameState) ApplyMove(cell int) (Outcome, error) {
	if cell < 0 || cell >= len(that.Board) {
		return Outcome{}, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !that.Active || that.Board[cell] != EmptyCell {
		return Outcome{}, nil
	}

	that.Board[cell] = that.CurrentPlayer

	outcome := that.DetermineResult()
	outcome.Applied = true

	switch {
	// one player completed a line
	case outcome.Winner != "":
		that.endRound()
		that.WinCombo = outcome.Combo
		if outcome.Winner == PlayerX {
			that.Scores.X++
		} else {
			that.Scores.O++
		}
	// full board without a line
	case outcome.Draw:
		that.endRound()
		that.Scores.Draws++
	// round continues
	default:
		that.CurrentPlayer = toggleMark(that.CurrentPlayer)
	}

	return outcome, nil
}

// NextRound clears the board and keeps the scores. Odd rounds open with X, even rounds with O.
func (that *GameState) NextRound() {
	that.clearBoard()
	that.Round++
	that.CurrentPlayer = StartingPlayer(that.Round)
}

// NewGame clears the board and the scores.
func (that *GameState) NewGame() {
	that.clearBoard()
	that.Scores = Scores{}
	that.Round = 1
	that.CurrentPlayer = PlayerX
}

func (that *GameState) IsEnded() bool {
	return !that.Active
}

// IsDisabled reports whether a click on the cell would be ignored.
func (that *GameState) IsDisabled(cell int) bool {
	if cell < 0 || cell >= BoardSize {
		return true
	}

	return !that.Active || that.Board[cell] != EmptyCell
}

// IsHighlighted reports whether the cell belongs to the winning line of an ended round.
func (that *GameState) IsHighlighted(cell int) bool {
	for _, idx := range that.WinCombo {
		if idx == cell {
			return true
		}
	}
	return false
}

// StatusMessage returns the status line and its accent (x, o, draw or empty).
func (that *GameState) StatusMessage() (string, string) {
	if that.Active {
		return fmt.Sprintf("Player %s - make your move", that.CurrentPlayer), ""
	}

	if outcome := that.DetermineResult(); outcome.Winner != "" {
		return fmt.Sprintf("Player %s wins this round!", outcome.Winner), accentFor(outcome.Winner)
	}

	return "It's a draw!", AccentDraw
}

// Clone returns a copy that shares nothing with the receiver.
func (that *GameState) Clone() *GameState {
	clone := *that
	if that.WinCombo != nil {
		clone.WinCombo = append([]int(nil), that.WinCombo...)
	}
	return &clone
}

func (that *GameState) endRound() {
	that.Active = false
}

func (that *GameState) clearBoard() {
	that.Board = [BoardSize]string{}
	that.WinCombo = nil
	that.Active = true
}

// StartingPlayer is a function of the round number only.
func StartingPlayer(round int) string {
	if round%2 == 1 {
		return PlayerX
	}
	return PlayerO
}

func toggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func accentFor(mark string) string {
	if mark == PlayerX {
		return AccentX
	}
	return AccentO
}
