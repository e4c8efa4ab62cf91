package geisha

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CardType tags what an opaque favor card is used for. The rule engine
// treats cards as opaque tokens bound to a geisha; CardType exists only
// so the wire layer can render a card without looking up its geisha.
type CardType string

const FavorCard CardType = "favor"

// Card is one physical favor card, permanently bound to a geisha.
type Card struct {
	ID       string
	GeishaID int
	Type     CardType
}

// BuildDeck expands the geisha roster into its 21 physical cards, shuffles
// them with a cryptographically adequate PRNG, and splits off one card to
// be removed face-down for the round (per-round secret removal, unseen by
// both players). It returns the shuffled draw pile (20 cards) and the
// removed card.
func BuildDeck(geishas []Geisha) (drawPile []Card, removed Card, err error) {
	var cards []Card
	for _, g := range geishas {
		for i := 0; i < g.CardCount; i++ {
			cards = append(cards, Card{
				ID:       fmt.Sprintf("g%d-%d", g.ID, i),
				GeishaID: g.ID,
				Type:     FavorCard,
			})
		}
	}
	if len(cards) != 21 {
		return nil, Card{}, fmt.Errorf("built deck has %d cards, expected 21", len(cards))
	}
	if err := secureShuffle(cards); err != nil {
		return nil, Card{}, err
	}
	return cards[1:], cards[0], nil
}

// secureShuffle performs an in-place Fisher-Yates shuffle using crypto/rand,
// deliberately stronger than a math/rand board shuffle: shuffle fairness is
// part of this game's trust model, since a biased deck order is directly
// exploitable by either player.
func secureShuffle(cards []Card) error {
	for i := len(cards) - 1; i > 0; i-- {
		j, err := SecureIntn(i + 1)
		if err != nil {
			return err
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
	return nil
}

// SecureIntn returns a uniform random integer in [0,n) using
// crypto/rand, reused wherever the game needs a fair coin-flip outside
// of deck shuffling (e.g. order-decision's first-player pick).
func SecureIntn(n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	max := big.NewInt(int64(n))
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0, fmt.Errorf("secure rng: %w", err)
	}
	return int(v.Int64()), nil
}
