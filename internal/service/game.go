package service

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

// GameService drives one round engine for a local session. It is called from the UI event loop only.
type GameService interface {
	State() *entity.GameState

	ApplyMove(cell int) (entity.Outcome, error)
	NextRound() error
	NewGame() error
}

type gameService struct {
	logger *slog.Logger

	state *entity.GameState

	bot     BotService
	botMark string
}

// NewGameService - bot may be nil for two local players. A bot playing X opens the first round here.
func NewGameService(logger *slog.Logger, bot BotService, botMark string) GameService {
	svc := &gameService{
		logger:  logger.With("component", "game"),
		state:   entity.NewGameState(),
		bot:     bot,
		botMark: botMark,
	}

	if _, err := svc.botTurn(entity.Outcome{}); err != nil {
		svc.logger.Error("bot failed to open the game", "error", err)
	}

	return svc
}

// State - returns a snapshot the caller may keep.
func (that *gameService) State() *entity.GameState {
	return that.state.Clone()
}

func (that *gameService) ApplyMove(cell int) (entity.Outcome, error) {
	log := that.logger.With("method", "ApplyMove")

	mark := that.state.CurrentPlayer
	if that.isBotTurn() {
		log.Debug("move ignored, bot holds the turn", "cell", cell)
		return entity.Outcome{}, nil
	}

	outcome, err := that.state.ApplyMove(cell)
	if err != nil {
		return outcome, fmt.Errorf("failed to apply move: %w", err)
	}

	if !outcome.Applied {
		log.Debug("move ignored", "cell", cell, "round", that.state.Round)
		return outcome, nil
	}

	log.Debug("move applied", "cell", cell, "mark", mark, "round", that.state.Round)
	that.logOutcome(outcome)

	if outcome.IsTerminal() {
		return outcome, nil
	}

	return that.botTurn(outcome)
}

func (that *gameService) NextRound() error {
	that.state.NextRound()
	that.logger.Info("next round", "round", that.state.Round, "starts", that.state.CurrentPlayer)

	if _, err := that.botTurn(entity.Outcome{}); err != nil {
		return err
	}

	return nil
}

func (that *gameService) NewGame() error {
	that.state.NewGame()
	that.logger.Info("new game")

	if _, err := that.botTurn(entity.Outcome{}); err != nil {
		return err
	}

	return nil
}

// botTurn - lets the bot answer when it holds the move; otherwise returns last unchanged.
func (that *gameService) botTurn(last entity.Outcome) (entity.Outcome, error) {
	if !that.isBotTurn() {
		return last, nil
	}

	outcome, err := that.bot.MakeTurn(that.state)
	if err != nil {
		return last, fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.logOutcome(outcome)

	return outcome, nil
}

func (that *gameService) isBotTurn() bool {
	return that.bot != nil && that.state.Active && that.state.CurrentPlayer == that.botMark
}

func (that *gameService) logOutcome(outcome entity.Outcome) {
	switch {
	case outcome.Winner != "":
		that.logger.Info("round won",
			"winner", outcome.Winner,
			"combo", outcome.Combo,
			"round", that.state.Round,
			"score_x", that.state.Scores.X,
			"score_o", that.state.Scores.O,
		)
	case outcome.Draw:
		that.logger.Info("round drawn", "round", that.state.Round, "draws", that.state.Scores.Draws)
	}
}
