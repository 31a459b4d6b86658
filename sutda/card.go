package sutda

import (
	"fmt"
	"strconv"
)

// Card is a hwatu card used in sutda. There are 20 cards: months 1-10,
// two cards per month. One card of each month is the "special" card
// (the gwang for months 1, 3, 8 and the yeol/tti card for the rest),
// the other is the plain pi card.
//
// Layout: low 4 bits month (1-10), bit 4 set for the special card.
type Card int32

const specialBit = 0x10

// Months that carry a gwang (bright) card.
var brightMonths = map[int]bool{
	1: true,
	3: true,
	8: true,
}

func NewCard(month int, special bool) Card {
	if month < 1 || month > 10 {
		panic(fmt.Sprintf("Invalid card month: %d", month))
	}
	c := Card(month)
	if special {
		c |= specialBit
	}
	return c
}

// NewCardFromString parses cards like "3G", "4Y", "10P".
// G and Y both denote the special card of the month, P the plain card.
func NewCardFromString(s string) (Card, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("Invalid card string [%s]", s)
	}
	month, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || month < 1 || month > 10 {
		return 0, fmt.Errorf("Invalid card month in [%s]", s)
	}
	switch s[len(s)-1] {
	case 'G', 'Y':
		return NewCard(month, true), nil
	case 'P':
		return NewCard(month, false), nil
	}
	return 0, fmt.Errorf("Invalid card kind in [%s]", s)
}

func (c Card) Month() int {
	return int(c) & 0xF
}

func (c Card) Special() bool {
	return int(c)&specialBit != 0
}

// Bright reports whether this card is a gwang.
func (c Card) Bright() bool {
	return c.Special() && brightMonths[c.Month()]
}

func (c Card) String() string {
	suffix := "P"
	if c.Special() {
		if c.Bright() {
			suffix = "G"
		} else {
			suffix = "Y"
		}
	}
	return fmt.Sprintf("%d%s", c.Month(), suffix)
}

func (c Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("Invalid card json %s", string(b))
	}
	card, err := NewCardFromString(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

func CardsToString(cards []Card) string {
	str := "["
	for i, card := range cards {
		if i > 0 {
			str += " "
		}
		str += card.String()
	}
	return str + "]"
}
