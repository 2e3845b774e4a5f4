package app

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventLogRecordAndTail(t *testing.T) {
	log := NewEventLog()
	log.Record("manual_set", map[string]string{"line": "Central"})
	log.Record("datastream_push", nil)

	events := log.Tail(0)
	assert.Len(t, events, 2)
	assert.Equal(t, "manual_set", events[0].Kind)
	assert.Equal(t, "datastream_push", events[1].Kind)
	assert.False(t, events[0].At.IsZero())
}

func TestEventLogTailLimit(t *testing.T) {
	log := NewEventLog()
	for i := 0; i < 10; i++ {
		log.Record("tick", i)
	}

	events := log.Tail(3)
	assert.Len(t, events, 3)
	assert.Equal(t, 7, events[0].Detail)
	assert.Equal(t, 9, events[2].Detail)
}

func TestEventLogCapacity(t *testing.T) {
	log := NewEventLog()
	for i := 0; i < eventLogCapacity+50; i++ {
		log.Record("tick", strconv.Itoa(i))
	}

	events := log.Tail(0)
	assert.Len(t, events, eventLogCapacity)
	assert.Equal(t, "50", events[0].Detail)
}

func TestEventLogNilSafe(t *testing.T) {
	var log *EventLog
	assert.NotPanics(t, func() { log.Record("tick", nil) })
}
