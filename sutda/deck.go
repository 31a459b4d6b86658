package sutda

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrInsufficientCards indicates the deck ran out while dealing. With at
// most 10 seats this can only happen on a misconfigured table and is
// treated as a fatal engine error by the caller.
var ErrInsufficientCards = errors.New("insufficient cards in deck")

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

type Deck struct {
	cards []Card
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewDeck returns a freshly shuffled 20-card deck. Pass a source for
// deterministic tests; nil uses a crypto-seeded source.
func NewDeck(source rand.Source) *Deck {
	if source == nil {
		source = newSeed()
	}
	deck := &Deck{}
	deck.shuffle(rand.New(source))
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	return deck
}

// shuffle resets the deck to a uniformly random permutation of the
// full 20 cards (Fisher-Yates).
func (deck *Deck) shuffle(randGen *rand.Rand) {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	for i := len(deck.cards) - 1; i > 0; i-- {
		loc := randGen.Intn(i + 1)
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}
}

// Draw pops n cards off the top of the deck.
func (deck *Deck) Draw(n int) ([]Card, error) {
	if n > len(deck.cards) {
		return nil, errors.Wrapf(ErrInsufficientCards, "requested %d cards, %d remaining", n, len(deck.cards))
	}
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards, nil
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card
	for month := 1; month <= 10; month++ {
		cards = append(cards, NewCard(month, true))
		cards = append(cards, NewCard(month, false))
	}
	return cards
}
