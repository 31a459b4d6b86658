package sutda

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

func TestDeckHasTwentyUniqueCards(t *testing.T) {
	deck := NewDeck(rand.NewSource(0))
	if deck.Remaining() != 20 {
		t.Fatalf("Expected 20 cards, got %d", deck.Remaining())
	}
	cards, err := deck.Draw(20)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[Card]bool)
	monthCount := make(map[int]int)
	for _, card := range cards {
		if seen[card] {
			t.Errorf("Duplicate card %s in deck", card)
		}
		seen[card] = true
		monthCount[card.Month()]++
	}
	for month := 1; month <= 10; month++ {
		if monthCount[month] != 2 {
			t.Errorf("Month %d has %d cards, want 2", month, monthCount[month])
		}
	}
	if !deck.Empty() {
		t.Error("Deck should be empty after drawing all cards")
	}
}

func TestDeckDrawExhaustion(t *testing.T) {
	deck := NewDeck(rand.NewSource(1))
	_, err := deck.Draw(18)
	if err != nil {
		t.Fatal(err)
	}
	_, err = deck.Draw(3)
	if err == nil {
		t.Fatal("Expected error drawing past the end of the deck")
	}
	if errors.Cause(err) != ErrInsufficientCards {
		t.Errorf("Expected ErrInsufficientCards, got %v", err)
	}
	// The failed draw must not consume the remaining cards.
	if deck.Remaining() != 2 {
		t.Errorf("Expected 2 remaining cards, got %d", deck.Remaining())
	}
}

func TestDeckShuffleIsSeedDependent(t *testing.T) {
	a := NewDeck(rand.NewSource(42))
	b := NewDeck(rand.NewSource(42))
	c := NewDeck(rand.NewSource(43))

	aCards, _ := a.Draw(20)
	bCards, _ := b.Draw(20)
	cCards, _ := c.Draw(20)

	same := true
	for i := range aCards {
		if aCards[i] != bCards[i] {
			same = false
			break
		}
	}
	if !same {
		t.Error("Same seed should produce the same permutation")
	}

	same = true
	for i := range aCards {
		if aCards[i] != cCards[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds should produce different permutations")
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	deck := NewDeckNoShuffle()
	cards, err := deck.Draw(20)
	if err != nil {
		t.Fatal(err)
	}
	for _, card := range cards {
		parsed, err := NewCardFromString(card.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != card {
			t.Errorf("Round trip %s -> %s", card, parsed)
		}
	}
}
