package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWasteStatusTransitions(t *testing.T) {
	assert.True(t, WastePending.CanTransitionTo(WasteApproved))
	assert.True(t, WastePending.CanTransitionTo(WasteRejected))

	// Terminal: tidak ada jalan keluar.
	for _, from := range []WasteStatus{WasteApproved, WasteRejected} {
		for _, to := range []WasteStatus{WastePending, WasteApproved, WasteRejected} {
			assert.False(t, from.CanTransitionTo(to), "%s → %s", from, to)
		}
	}

	assert.False(t, WastePending.CanTransitionTo(WastePending))
}

func TestWasteCategoryValid(t *testing.T) {
	for _, c := range []WasteCategory{WasteKompos, WasteEcoEnzyme, WastePakanTernak, WasteMediaTanam, WastePrakarya} {
		assert.True(t, c.Valid())
	}
	assert.False(t, WasteCategory("DAUR_ULANG").Valid())
}

func TestClampPoints(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	assert.Equal(t, WasteDefaultPoints, ClampPoints(nil))
	assert.Equal(t, 30, ClampPoints(intPtr(30)))
	// Approve selalu berpoin positif: nol dan negatif jatuh ke default.
	assert.Equal(t, WasteDefaultPoints, ClampPoints(intPtr(0)))
	assert.Equal(t, WasteDefaultPoints, ClampPoints(intPtr(-10)))
	assert.Equal(t, WasteMaxPoints, ClampPoints(intPtr(51)))
	assert.Equal(t, WasteMaxPoints, ClampPoints(intPtr(WasteMaxPoints)))
}
