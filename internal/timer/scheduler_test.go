// internal/timer/scheduler_test.go
package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualFiresInOrder(t *testing.T) {
	m := NewManual()
	var order []string
	m.After(2*time.Second, func() { order = append(order, "b") })
	m.After(1*time.Second, func() { order = append(order, "a") })
	m.After(5*time.Second, func() { order = append(order, "c") })

	m.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, m.Pending())

	m.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, m.Pending())
}

func TestManualCancel(t *testing.T) {
	m := NewManual()
	fired := false
	h := m.After(time.Second, func() { fired = true })

	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel())

	m.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestManualReschedulesFromCallback(t *testing.T) {
	m := NewManual()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			m.After(time.Second, tick)
		}
	}
	m.After(time.Second, tick)

	m.Advance(time.Second)
	m.Advance(time.Second)
	m.Advance(time.Second)
	assert.Equal(t, 3, count)
}
