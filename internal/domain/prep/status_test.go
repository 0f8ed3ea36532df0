package prep_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/prep"
)

func lines(pairs ...[2]int) []*entity.ReceivingItem {
	out := make([]*entity.ReceivingItem, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, &entity.ReceivingItem{ExpectedQty: p[0], ConfirmedQty: p[1]})
	}
	return out
}

func TestDeriveStatus_NoLines(t *testing.T) {
	got := prep.DeriveShipmentStatus(entity.ReceivingStatusSubmitted, nil)
	assert.Equal(t, entity.ReceivingStatusSubmitted, got)
}

func TestDeriveStatus_NothingConfirmed(t *testing.T) {
	got := prep.DeriveShipmentStatus(entity.ReceivingStatusSubmitted, lines([2]int{10, 0}, [2]int{5, 0}))
	assert.Equal(t, entity.ReceivingStatusSubmitted, got)
}

func TestDeriveStatus_PartiallyConfirmed(t *testing.T) {
	got := prep.DeriveShipmentStatus(entity.ReceivingStatusSubmitted, lines([2]int{10, 10}, [2]int{5, 2}))
	assert.Equal(t, entity.ReceivingStatusPartial, got)
}

func TestDeriveStatus_AllLinesFull(t *testing.T) {
	got := prep.DeriveShipmentStatus(entity.ReceivingStatusPartial, lines([2]int{10, 10}, [2]int{5, 5}))
	assert.Equal(t, entity.ReceivingStatusProcessed, got)
}

// TestDeriveStatus_Idempotent: recomputing with unchanged lines yields the
// same status both times, whatever the starting point.
func TestDeriveStatus_Idempotent(t *testing.T) {
	cases := [][]*entity.ReceivingItem{
		nil,
		lines([2]int{10, 0}),
		lines([2]int{10, 4}),
		lines([2]int{10, 10}),
		lines([2]int{10, 10}, [2]int{3, 1}),
	}
	for _, items := range cases {
		first := prep.DeriveShipmentStatus(entity.ReceivingStatusSubmitted, items)
		second := prep.DeriveShipmentStatus(first, items)
		assert.Equal(t, first, second)
	}
}

// TestDeriveStatus_TerminalIsSticky: processed and cancelled are never
// overridden by the automatic recomputation path.
func TestDeriveStatus_TerminalIsSticky(t *testing.T) {
	empty := lines([2]int{10, 0})

	got := prep.DeriveShipmentStatus(entity.ReceivingStatusProcessed, empty)
	assert.Equal(t, entity.ReceivingStatusProcessed, got)

	got = prep.DeriveShipmentStatus(entity.ReceivingStatusCancelled, lines([2]int{10, 10}))
	assert.Equal(t, entity.ReceivingStatusCancelled, got)
}

// The legacy "received" status is not terminal: lines can still move it.
func TestDeriveStatus_ReceivedIsRecomputable(t *testing.T) {
	got := prep.DeriveShipmentStatus(entity.ReceivingStatusReceived, lines([2]int{10, 4}))
	assert.Equal(t, entity.ReceivingStatusPartial, got)
}
