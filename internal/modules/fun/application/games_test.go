package application

import (
	"testing"
)

type fixedRandom int

func (f fixedRandom) IntN(n int) int { return int(f) % n }

func TestGamesInteractor_DiceDefaults(t *testing.T) {
	interactor := NewGamesInteractor(fixedRandom(5))

	roll, err := interactor.Dice(0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(roll.Rolls) != 1 || roll.Rolls[0] != 6 {
		t.Errorf("expected a single roll of 6, got %v", roll.Rolls)
	}
}

func TestGamesInteractor_DiceOnlyRollsSet(t *testing.T) {
	interactor := NewGamesInteractor(fixedRandom(0))

	if _, err := interactor.Dice(2, 0); err == nil {
		t.Error("expected error when sides is missing, got nil")
	}
}

func TestGamesInteractor_DefaultRandom(t *testing.T) {
	interactor := NewGamesInteractor(nil)

	for range 50 {
		flip := interactor.CoinFlip("")
		if flip.Result != "Heads" && flip.Result != "Tails" {
			t.Fatalf("unexpected result %q", flip.Result)
		}
	}
}
