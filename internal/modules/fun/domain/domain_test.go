package domain

import (
	"errors"
	"strings"
	"testing"
)

// fixedRandom always returns the same index, wrapped to n.
type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

func TestFlipCoin_Message(t *testing.T) {
	cases := []struct {
		rng       fixedRandom
		selection string
		want      string
	}{
		{0, "", "It flipped and landed on Heads!"},
		{1, "", "It flipped and landed on Tails!"},
		{0, Heads, "You won! It was Heads"},
		{1, Heads, "You lost. It was Tails"},
	}

	for _, c := range cases {
		if got := FlipCoin(c.rng, c.selection).Message(); got != c.want {
			t.Errorf("expected %q, got %q", c.want, got)
		}
	}
}

func TestRollDice_Single(t *testing.T) {
	roll, err := RollDice(fixedRandom(3), 1, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := roll.Message(); got != "You rolled 4" {
		t.Errorf("expected %q, got %q", "You rolled 4", got)
	}
}

func TestRollDice_Several(t *testing.T) {
	roll, err := RollDice(fixedRandom(0), 3, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "You rolled the following 1, 1, 1"
	if got := roll.Message(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRollDice_Invalid(t *testing.T) {
	for _, c := range [][2]int{{0, 6}, {1, 0}, {-1, -1}} {
		if _, err := RollDice(fixedRandom(0), c[0], c[1]); !errors.Is(err, ErrInvalidDice) {
			t.Errorf("RollDice(%d, %d): expected ErrInvalidDice, got %v", c[0], c[1], err)
		}
	}
}

func TestRollDice_TooLarge(t *testing.T) {
	if _, err := RollDice(fixedRandom(0), 1000, 1000000); !errors.Is(err, ErrTooManyDice) {
		t.Errorf("expected ErrTooManyDice, got %v", err)
	}
	if _, err := RollDice(fixedRandom(0), 100000, 6); !errors.Is(err, ErrTooManyDice) {
		t.Errorf("expected ErrTooManyDice, got %v", err)
	}
}

func TestFortune(t *testing.T) {
	if got := Fortune(fixedRandom(0)); got != "It is certain" {
		t.Errorf("expected %q, got %q", "It is certain", got)
	}
	if got := Fortune(fixedRandom(18)); got != "Very doubtful" {
		t.Errorf("expected %q, got %q", "Very doubtful", got)
	}
	if len(fortunes) != 19 {
		t.Errorf("expected 19 fortunes, got %d", len(fortunes))
	}
}

func TestPlayRPS(t *testing.T) {
	cases := []struct {
		bot    fixedRandom
		choice string
		winner string
	}{
		{0, "Paper", RPSTie},
		{0, "Rock", RPSBot},
		{0, "Scissors", RPSPlayer},
		{1, "Paper", RPSPlayer},
		{1, "Scissors", RPSBot},
		{2, "Rock", RPSPlayer},
		{2, "paper", RPSBot},
	}

	for _, c := range cases {
		game, err := PlayRPS(c.bot, c.choice)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if game.Winner != c.winner {
			t.Errorf("bot %s vs %s: expected %s, got %s", rpsChoices[c.bot], c.choice, c.winner, game.Winner)
		}
	}
}

func TestPlayRPS_Invalid(t *testing.T) {
	if _, err := PlayRPS(fixedRandom(0), "Lizard"); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("expected ErrInvalidChoice, got %v", err)
	}
}

func TestRPSGame_Message(t *testing.T) {
	tie := &RPSGame{Player: "Rock", Bot: "Rock", Winner: RPSTie}
	if got := tie.Message(); got != "We both have chosen Rock. It's a tie!" {
		t.Errorf("unexpected tie message %q", got)
	}

	won := &RPSGame{Player: "Rock", Bot: "Scissors", Winner: RPSPlayer}
	if got := won.Message(); !strings.HasSuffix(got, "Rock beats Scissors. You won!") {
		t.Errorf("unexpected win message %q", got)
	}

	lost := &RPSGame{Player: "Rock", Bot: "Paper", Winner: RPSBot}
	if got := lost.Message(); !strings.HasSuffix(got, "Paper beats Rock. You lost.") {
		t.Errorf("unexpected loss message %q", got)
	}
}
