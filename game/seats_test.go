package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeatTableOccupy(t *testing.T) {
	table := NewSeatTable(3)
	alice := &Player{ID: "p1", Name: "Alice"}
	bob := &Player{ID: "p2", Name: "Bob"}

	require.NoError(t, table.Occupy(0, alice))
	require.Equal(t, 0, alice.SeatNo)
	require.Equal(t, alice, table.Get(0))

	err := table.Occupy(0, bob)
	require.Equal(t, "SEAT_TAKEN", ErrorKind(err))

	err = table.Occupy(3, bob)
	require.Equal(t, "INVALID_SEAT", ErrorKind(err))
	err = table.Occupy(-1, bob)
	require.Equal(t, "INVALID_SEAT", ErrorKind(err))

	// Re-occupying your own seat is a no-op.
	require.NoError(t, table.Occupy(0, alice))
	require.Equal(t, alice, table.Get(0))

	// Moving vacates the old seat.
	require.NoError(t, table.Occupy(2, alice))
	require.Nil(t, table.Get(0))
	require.Equal(t, alice, table.Get(2))
	require.Equal(t, 2, alice.SeatNo)

	require.Equal(t, 0, table.FirstOpenSeat())
	require.NoError(t, table.Occupy(0, bob))
	require.Equal(t, 1, table.FirstOpenSeat())

	table.Vacate(2)
	require.Nil(t, table.ByPlayerID("p1"))
	require.Equal(t, bob, table.ByPlayerID("p2"))
}

func TestSeatTableNextActive(t *testing.T) {
	table := NewSeatTable(5)
	inHand := func(id string, balance int64, folded bool) *Player {
		return &Player{ID: id, Balance: balance, InHand: true, Folded: folded}
	}
	require.NoError(t, table.Occupy(0, inHand("p0", 500, false)))
	require.NoError(t, table.Occupy(1, inHand("p1", 500, true))) // folded
	require.NoError(t, table.Occupy(2, inHand("p2", 0, false)))  // all-in
	require.NoError(t, table.Occupy(3, inHand("p3", 500, false)))
	// Seat 4 stays empty.

	require.Equal(t, 3, table.NextActive(0))
	require.Equal(t, 0, table.NextActive(3))
	// Folded and all-in seats pass through.
	require.Equal(t, 3, table.NextActive(1))
	require.Equal(t, 3, table.NextActive(2))

	require.Equal(t, 2, table.EligibleCount())
	require.Equal(t, 3, table.ActiveCount())

	// The last eligible seat has nobody else to pass the turn to, even
	// though that player may still owe action against an all-in.
	table.Get(3).Folded = true
	require.Equal(t, -1, table.NextActive(0))
	require.Equal(t, 0, table.NextActive(2))
}
