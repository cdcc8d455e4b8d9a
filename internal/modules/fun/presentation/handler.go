package presentation

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/modules/fun/application"
	"github.com/moyogii/sparrowbot/internal/modules/fun/domain"
)

// GamesHandler handles the fun commands.
type GamesHandler struct {
	interactor *application.GamesInteractor
}

// NewGamesHandler creates a new GamesHandler.
func NewGamesHandler(interactor *application.GamesInteractor) *GamesHandler {
	return &GamesHandler{interactor: interactor}
}

// HandleCoinFlip processes /coinflip.
func (h *GamesHandler) HandleCoinFlip(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	_, opts := bot.Subcommand(i)
	result := h.interactor.CoinFlip(opts.String("selection"))
	return bot.RespondContent(r, result.Message(), false)
}

// HandleDice processes /dice.
func (h *GamesHandler) HandleDice(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	_, opts := bot.Subcommand(i)
	rolls, _ := opts.Int("rolls")
	sides, _ := opts.Int("sides")
	mention := bot.Mention(bot.InvokerID(i))

	result, err := h.interactor.Dice(int(rolls), int(sides))
	switch {
	case errors.Is(err, domain.ErrTooManyDice):
		return bot.RespondContent(r, mention+", Thats quite the large dice roll, a bit too large. "+
			"Please try a lower number of dice rolls.", false)
	case errors.Is(err, domain.ErrInvalidDice):
		return bot.RespondContent(r, mention+", You need at least one roll and one side.", true)
	case err != nil:
		return err
	}

	return bot.RespondContent(r, mention+", "+result.Message(), false)
}

// HandleEightBall processes /eightball.
func (h *GamesHandler) HandleEightBall(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	_, opts := bot.Subcommand(i)
	mention := bot.Mention(bot.InvokerID(i))

	if opts.String("question") == "" {
		return bot.RespondContent(r, mention+", You need to specify a question first!", true)
	}
	return bot.RespondContent(r, mention+", "+h.interactor.EightBall(), false)
}

// HandleRockPaperScissors processes /rps.
func (h *GamesHandler) HandleRockPaperScissors(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	_, opts := bot.Subcommand(i)
	mention := bot.Mention(bot.InvokerID(i))

	game, err := h.interactor.RockPaperScissors(opts.String("choice"))
	if errors.Is(err, domain.ErrInvalidChoice) {
		return bot.RespondContent(r, mention+", You must select between (Rock, Paper, and Scissors)!", true)
	}
	if err != nil {
		return err
	}
	return bot.RespondContent(r, mention+", "+game.Message(), false)
}
