package game

// SeatTable maps seat positions to occupants for one session. Seats are
// indexed 0..capacity-1.
type SeatTable struct {
	seats []*Player
}

func NewSeatTable(capacity int) *SeatTable {
	return &SeatTable{
		seats: make([]*Player, capacity),
	}
}

func (t *SeatTable) Capacity() int {
	return len(t.seats)
}

// Occupy places a player in a seat. Re-occupying your own seat is a
// no-op; moving to a free seat vacates the old one.
func (t *SeatTable) Occupy(seatNo int, player *Player) error {
	if seatNo < 0 || seatNo >= len(t.seats) {
		return InvalidSeatError{SeatNo: seatNo}
	}
	occupant := t.seats[seatNo]
	if occupant != nil && occupant.ID != player.ID {
		return SeatTakenError{SeatNo: seatNo}
	}
	if current := t.ByPlayerID(player.ID); current != nil && current.SeatNo != seatNo {
		t.seats[current.SeatNo] = nil
	}
	player.SeatNo = seatNo
	t.seats[seatNo] = player
	return nil
}

func (t *SeatTable) Vacate(seatNo int) {
	if seatNo < 0 || seatNo >= len(t.seats) {
		return
	}
	t.seats[seatNo] = nil
}

func (t *SeatTable) Get(seatNo int) *Player {
	if seatNo < 0 || seatNo >= len(t.seats) {
		return nil
	}
	return t.seats[seatNo]
}

func (t *SeatTable) ByPlayerID(playerID string) *Player {
	for _, player := range t.seats {
		if player != nil && player.ID == playerID {
			return player
		}
	}
	return nil
}

// FirstOpenSeat returns the lowest free seat index, or -1 when full.
func (t *SeatTable) FirstOpenSeat() int {
	for seatNo, player := range t.seats {
		if player == nil {
			return seatNo
		}
	}
	return -1
}

// Occupied returns seated players in increasing seat order.
func (t *SeatTable) Occupied() []*Player {
	players := make([]*Player, 0, len(t.seats))
	for _, player := range t.seats {
		if player != nil {
			players = append(players, player)
		}
	}
	return players
}

// eligible players can still act in the current hand.
func (t *SeatTable) eligible(player *Player) bool {
	return player != nil && player.InHand && !player.Folded && player.Balance > 0
}

// EligibleCount counts players that can still act.
func (t *SeatTable) EligibleCount() int {
	count := 0
	for _, player := range t.seats {
		if t.eligible(player) {
			count++
		}
	}
	return count
}

// ActiveCount counts non-folded in-hand players, all-in included.
func (t *SeatTable) ActiveCount() int {
	count := 0
	for _, player := range t.seats {
		if player != nil && player.InHand && !player.Folded {
			count++
		}
	}
	return count
}

// Active returns non-folded in-hand players in seat order.
func (t *SeatTable) Active() []*Player {
	players := make([]*Player, 0, len(t.seats))
	for _, player := range t.seats {
		if player != nil && player.InHand && !player.Folded {
			players = append(players, player)
		}
	}
	return players
}

// NextActive walks seats in increasing order from the given seat,
// wrapping around, skipping folded and all-in players. Returns -1 when
// no other eligible seat exists, signaling the betting cannot continue.
// An eligible player facing an all-in table is still returned; whether
// the round is over is the resolver's call, not the sequencer's.
func (t *SeatTable) NextActive(fromSeat int) int {
	capacity := len(t.seats)
	for i := 1; i < capacity; i++ {
		seatNo := (fromSeat + i) % capacity
		if t.eligible(t.seats[seatNo]) {
			return seatNo
		}
	}
	return -1
}
