package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEntry(t *testing.T) {
	e := NewEntry(AggregateLoc, "loc-1", "loc_created", []byte(`{}`))

	assert.NotEqual(t, [16]byte{}, [16]byte(e.ID))
	assert.Equal(t, AggregateLoc, e.AggregateType)
	assert.Equal(t, "loc-1", e.AggregateID)
	assert.Equal(t, "loc_created", e.EventType)
	assert.True(t, e.IsPending())
	assert.WithinDuration(t, time.Now(), e.CreatedAt, time.Second)

	now := time.Now()
	e.ProcessedAt = &now
	assert.False(t, e.IsPending())
}
