package domain

// Coin faces.
const (
	Heads = "Heads"
	Tails = "Tails"
)

// CoinFlip is the outcome of a coin flip.
type CoinFlip struct {
	Result    string
	Selection string
}

// FlipCoin flips a coin. selection may be empty.
func FlipCoin(rng Random, selection string) *CoinFlip {
	faces := [2]string{Heads, Tails}
	return &CoinFlip{
		Result:    faces[rng.IntN(len(faces))],
		Selection: selection,
	}
}

// Message returns the reply for the flip.
func (c *CoinFlip) Message() string {
	switch {
	case c.Selection == "":
		return "It flipped and landed on " + c.Result + "!"
	case c.Selection == c.Result:
		return "You won! It was " + c.Result
	default:
		return "You lost. It was " + c.Result
	}
}
