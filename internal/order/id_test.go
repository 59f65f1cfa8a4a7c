package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderID(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		id := NewOrderID()
		assert.True(t, strings.HasPrefix(id, "ORD-"))
		// ORD-20060102-150405-mmm-rrrr
		assert.Len(t, strings.Split(id, "-"), 5)
	})

	t.Run("UniqueUnderBursts", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			id := NewOrderID()
			_, dup := seen[id]
			assert.False(t, dup, "duplicate order id: %s", id)
			seen[id] = struct{}{}
		}
	})
}
