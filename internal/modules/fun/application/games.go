package application

import (
	"math/rand/v2"

	"github.com/moyogii/sparrowbot/internal/modules/fun/domain"
)

// globalRandom uses the goroutine-safe top-level generator.
type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// GamesInteractor runs the fun commands.
type GamesInteractor struct {
	rng domain.Random
}

// NewGamesInteractor creates a GamesInteractor. A nil rng uses math/rand/v2.
func NewGamesInteractor(rng domain.Random) *GamesInteractor {
	if rng == nil {
		rng = globalRandom{}
	}
	return &GamesInteractor{rng: rng}
}

// CoinFlip flips a coin against an optional selection.
func (g *GamesInteractor) CoinFlip(selection string) *domain.CoinFlip {
	return domain.FlipCoin(g.rng, selection)
}

// Dice rolls dice. Zero values fall back to the defaults.
func (g *GamesInteractor) Dice(rolls, sides int) (*domain.DiceRoll, error) {
	if rolls == 0 && sides == 0 {
		rolls, sides = domain.DefaultRolls, domain.DefaultSides
	}
	return domain.RollDice(g.rng, rolls, sides)
}

// EightBall answers a question.
func (g *GamesInteractor) EightBall() string {
	return domain.Fortune(g.rng)
}

// RockPaperScissors plays a round.
func (g *GamesInteractor) RockPaperScissors(choice string) (*domain.RPSGame, error) {
	return domain.PlayRPS(g.rng, choice)
}
