package sutda

import (
	"fmt"

	"github.com/pkg/errors"
)

// Rank is the sutda hand category, lowest to highest.
type Rank int32

const (
	RankMangtong Rank = iota
	RankKkeut
	RankSeryuk
	RankJangsa
	RankJangpping
	RankGupping
	RankDokSa
	RankAlli
	RankTtaeng
	RankGwangTtaeng
)

var rankNames = map[Rank]string{
	RankMangtong:    "MANG_TONG",
	RankKkeut:       "KKEUT",
	RankSeryuk:      "SE_RYUK",
	RankJangsa:      "JANG_SA",
	RankJangpping:   "JANG_PPING",
	RankGupping:     "GU_PPING",
	RankDokSa:       "DOK_SA",
	RankAlli:        "ALLI",
	RankTtaeng:      "TTAENG",
	RankGwangTtaeng: "GWANG_TTAENG",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RANK(%d)", int32(r))
}

// Strength bands. Every meld maps to a single integer so melds are
// comparable across categories; equal strength means a tie.
const (
	strengthMangtong   = 1
	strengthKkeutBase  = 1 // kkeut n -> 1+n (2..10)
	strengthSeryuk     = 20
	strengthJangsa     = 21
	strengthJangpping  = 22
	strengthGupping    = 23
	strengthDokSa      = 24
	strengthAlli       = 25
	strengthTtaengBase = 100 // ttaeng m -> 100+m
	strengthSmallGwang = 300 // 13 and 18 gwangttaeng rank equal
	strengthGwang38    = 310
)

// Meld is the evaluation of a two-card sutda hand.
type Meld struct {
	Rank     Rank
	Value    int // month for ttaeng, kkeut score for kkeut, else 0
	Strength int32
	Cards    [2]Card
}

func (m Meld) String() string {
	switch m.Rank {
	case RankTtaeng:
		return fmt.Sprintf("%d-TTAENG", m.Value)
	case RankKkeut:
		return fmt.Sprintf("%d-KKEUT", m.Value)
	}
	return m.Rank.String()
}

// Evaluate ranks a two-card hand. Gwangttaeng is checked before ttaeng,
// then the fixed special month pairs, then the kkeut fallback.
func Evaluate(a, b Card) Meld {
	meld := Meld{Cards: [2]Card{a, b}}
	m1, m2 := a.Month(), b.Month()
	if m1 > m2 {
		m1, m2 = m2, m1
	}

	if a.Bright() && b.Bright() {
		meld.Rank = RankGwangTtaeng
		if m1 == 3 && m2 == 8 {
			meld.Strength = strengthGwang38
		} else {
			meld.Strength = strengthSmallGwang
		}
		return meld
	}

	if m1 == m2 {
		meld.Rank = RankTtaeng
		meld.Value = m1
		meld.Strength = strengthTtaengBase + int32(m1)
		return meld
	}

	type specialPair struct {
		rank     Rank
		strength int32
	}
	specials := map[[2]int]specialPair{
		{1, 2}:  {RankAlli, strengthAlli},
		{1, 4}:  {RankDokSa, strengthDokSa},
		{1, 9}:  {RankGupping, strengthGupping},
		{1, 10}: {RankJangpping, strengthJangpping},
		{4, 10}: {RankJangsa, strengthJangsa},
		{4, 6}:  {RankSeryuk, strengthSeryuk},
	}
	if special, ok := specials[[2]int{m1, m2}]; ok {
		meld.Rank = special.rank
		meld.Strength = special.strength
		return meld
	}

	score := (m1 + m2) % 10
	meld.Value = score
	if score == 0 {
		meld.Rank = RankMangtong
		meld.Strength = strengthMangtong
	} else {
		meld.Rank = RankKkeut
		meld.Strength = strengthKkeutBase + int32(score)
	}
	return meld
}

// BestPair returns the strongest two-card meld among all sub-pairs of a
// three-card hand. Used as the automatic fallback when a player misses
// the card-selection deadline; an explicit valid choice wins over this.
func BestPair(cards []Card) (Meld, error) {
	if len(cards) != 3 {
		return Meld{}, errors.Errorf("BestPair needs 3 cards, got %d", len(cards))
	}
	best := Evaluate(cards[0], cards[1])
	for _, pair := range [][2]Card{{cards[0], cards[2]}, {cards[1], cards[2]}} {
		meld := Evaluate(pair[0], pair[1])
		if meld.Strength > best.Strength {
			best = meld
		}
	}
	return best, nil
}

// IsGusa reports a 4+9 month hand, the house-rule forced-regame trigger.
func IsGusa(a, b Card) bool {
	m1, m2 := a.Month(), b.Month()
	if m1 > m2 {
		m1, m2 = m2, m1
	}
	return m1 == 4 && m2 == 9
}

// IsBrightGusa reports the 4+9 hand made of both special cards
// (meongteonguri gusa), which forces a regame against anything below ttaeng.
func IsBrightGusa(a, b Card) bool {
	return IsGusa(a, b) && a.Special() && b.Special()
}
