package pickup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallback(t *testing.T) {
	assert.GreaterOrEqual(t, FallbackSize(), MaxCount)

	for n := MinCount; n <= MaxCount; n++ {
		got := Fallback(n)
		assert.Len(t, got, n)
		for _, it := range got {
			assert.NotEmpty(t, it.Text)
			assert.NotEmpty(t, it.Translation)
		}
	}

	assert.Len(t, Fallback(0), MinCount)
	assert.Len(t, Fallback(100), MaxCount)
	assert.Equal(t, "Keyboard ka ba? Kasi ikaw ang type ko.", Fallback(5)[4].Text)
}

func TestFallback_ReturnsCopy(t *testing.T) {
	first := Fallback(2)
	first[0].Text = "changed"
	assert.NotEqual(t, "changed", Fallback(2)[0].Text)
}
