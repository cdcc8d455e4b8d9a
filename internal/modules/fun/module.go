package fun

import (
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/modules/fun/application"
	"github.com/moyogii/sparrowbot/internal/modules/fun/presentation"
)

// FunModule provides small games like /coinflip and /rps.
type FunModule struct {
	handler *presentation.GamesHandler
}

// New creates the fun module.
func New() *FunModule {
	return &FunModule{}
}

// Name returns the module name.
func (m *FunModule) Name() string {
	return "fun"
}

// Commands returns the slash commands for this module.
func (m *FunModule) Commands() []*bot.Command {
	return []*bot.Command{
		{Definition: presentation.CoinFlipCommand, DMAllowed: true, Handler: m.handler.HandleCoinFlip},
		{Definition: presentation.DiceCommand, DMAllowed: true, Handler: m.handler.HandleDice},
		{Definition: presentation.EightBallCommand, DMAllowed: true, Handler: m.handler.HandleEightBall},
		{Definition: presentation.RockPaperScissorsCommand, DMAllowed: true, Handler: m.handler.HandleRockPaperScissors},
	}
}

// Components returns nil; the fun module has no components.
func (m *FunModule) Components() []*bot.Component {
	return nil
}

// EventHandlers returns nil; the fun module has no event handlers.
func (m *FunModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *FunModule) Init(deps bot.ModuleDependencies) error {
	m.handler = presentation.NewGamesHandler(application.NewGamesInteractor(nil))
	return nil
}

// Shutdown cleans up module resources.
func (m *FunModule) Shutdown() error {
	return nil
}
