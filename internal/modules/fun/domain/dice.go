package domain

import (
	"errors"
	"strconv"
	"strings"
)

// Dice defaults and limits.
const (
	DefaultRolls = 1
	DefaultSides = 6

	// maxMessageLength is Discord's message content limit.
	maxMessageLength = 2000
)

var (
	ErrInvalidDice = errors.New("rolls and sides must be at least 1")
	ErrTooManyDice = errors.New("dice roll is too large")
)

// DiceRoll is the outcome of rolling dice.
type DiceRoll struct {
	Rolls []int
}

// RollDice rolls rolls dice with sides sides each.
func RollDice(rng Random, rolls, sides int) (*DiceRoll, error) {
	if rolls < 1 || sides < 1 {
		return nil, ErrInvalidDice
	}
	// Each roll takes at least two characters in the message.
	if rolls > maxMessageLength/2 {
		return nil, ErrTooManyDice
	}

	result := &DiceRoll{Rolls: make([]int, rolls)}
	for i := range result.Rolls {
		result.Rolls[i] = rng.IntN(sides) + 1
	}
	if len(result.Message()) >= maxMessageLength {
		return nil, ErrTooManyDice
	}
	return result, nil
}

// Message returns the reply for the roll.
func (d *DiceRoll) Message() string {
	if len(d.Rolls) == 1 {
		return "You rolled " + strconv.Itoa(d.Rolls[0])
	}

	parts := make([]string, len(d.Rolls))
	for i, n := range d.Rolls {
		parts[i] = strconv.Itoa(n)
	}
	return "You rolled the following " + strings.Join(parts, ", ")
}
