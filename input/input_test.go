package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandlersFireOnlyWhileHeld(t *testing.T) {
	table := NewTable()
	up, down := 0, 0
	table.WhileHeld(func() { up++ }, "KeyW", "ArrowUp")
	table.WhileHeld(func() { down++ }, "KeyS", "ArrowDown")

	assert.Equal(t, 0, table.Tick())
	assert.False(t, table.Active())

	table.Press("KeyW")
	table.Press("ArrowUp")
	assert.True(t, table.Held("KeyW"))
	assert.True(t, table.Active())
	assert.Equal(t, 1, table.Tick(), "keys bound to one handler are OR'd")
	assert.Equal(t, 1, up)

	table.Release("KeyW")
	table.Tick()
	assert.Equal(t, 2, up)

	table.Release("ArrowUp")
	table.Tick()
	assert.Equal(t, 2, up)
	assert.Equal(t, 0, down)

	table.Press("ArrowDown")
	table.Press("KeyW")
	assert.Equal(t, 2, table.Tick())
	table.ReleaseAll()
	assert.Equal(t, 0, table.Tick())
}

func TestPollRepeatsAtInterval(t *testing.T) {
	table := NewTable()
	n := 0
	table.WhileHeld(func() { n++ }, "Equal")

	start := time.Unix(100, 0)
	assert.Equal(t, 0, table.Poll(start))

	table.Press("Equal")
	assert.Equal(t, 1, table.Poll(start))
	assert.Equal(t, 0, table.Poll(start.Add(DefaultInterval/2)))
	assert.Equal(t, 1, table.Poll(start.Add(DefaultInterval)))
	assert.Equal(t, 1, table.Poll(start.Add(3*DefaultInterval)))
	assert.Equal(t, 3, n)

	table.Release("Equal")
	assert.Equal(t, 0, table.Poll(start.Add(10*DefaultInterval)))
	assert.Equal(t, 3, n)
}
