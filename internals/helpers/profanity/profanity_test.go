package profanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFlagged(t *testing.T) {
	f := Default()

	assert.True(t, f.IsFlagged("makanannya anjing banget"))
	assert.True(t, f.IsFlagged("ANJING"), "case-insensitive")
	assert.False(t, f.IsFlagged("nasi goreng enak"))
	assert.False(t, f.IsFlagged(""))
	assert.False(t, f.IsFlagged("   "))
}

func TestIsFlagged_WordBoundary(t *testing.T) {
	f := NewFilter([]string{"bodoh"})

	assert.True(t, f.IsFlagged("dasar bodoh"))
	// Bagian dari kata lain tidak kena.
	assert.False(t, f.IsFlagged("kebodohan"))
	assert.False(t, f.IsFlagged("bodohnya"))
}

func TestClean(t *testing.T) {
	f := NewFilter([]string{"tolol"})
	assert.Equal(t, "dasar *****", f.Clean("dasar tolol"))
	assert.Equal(t, "aman saja", f.Clean("aman saja"))
}
