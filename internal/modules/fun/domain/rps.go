package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidChoice is returned for anything other than rock, paper or scissors.
var ErrInvalidChoice = errors.New("choice must be Rock, Paper or Scissors")

// RPS outcomes.
const (
	RPSTie    = "tie"
	RPSPlayer = "player"
	RPSBot    = "bot"
)

var rpsChoices = [3]string{"Paper", "Rock", "Scissors"}

// rpsResults is indexed by bot choice, then player choice.
var rpsResults = [3][3]string{
	{RPSTie, RPSBot, RPSPlayer},
	{RPSPlayer, RPSTie, RPSBot},
	{RPSBot, RPSPlayer, RPSTie},
}

// RPSGame is a finished round of rock paper scissors.
type RPSGame struct {
	Player string
	Bot    string
	Winner string
}

// PlayRPS plays one round against a random bot choice.
func PlayRPS(rng Random, choice string) (*RPSGame, error) {
	player := -1
	for i, c := range rpsChoices {
		if strings.EqualFold(c, strings.TrimSpace(choice)) {
			player = i
		}
	}
	if player < 0 {
		return nil, ErrInvalidChoice
	}

	bot := rng.IntN(len(rpsChoices))
	return &RPSGame{
		Player: rpsChoices[player],
		Bot:    rpsChoices[bot],
		Winner: rpsResults[bot][player],
	}, nil
}

// Message returns the reply for the round.
func (g *RPSGame) Message() string {
	if g.Winner == RPSTie {
		return fmt.Sprintf("We both have chosen %s. It's a tie!", g.Bot)
	}

	beat, beaten, verdict := g.Bot, g.Player, "You lost."
	if g.Winner == RPSPlayer {
		beat, beaten, verdict = g.Player, g.Bot, "You won!"
	}
	return fmt.Sprintf("You chose %s, I chose %s! %s beats %s. %s", g.Player, g.Bot, beat, beaten, verdict)
}
