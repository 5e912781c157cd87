package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeMatchEvent(t *testing.T) {
	in := MatchEvent{RecordID: 3, PlayerID: 9, Username: "ace", Date: "2024-05-01", Kills: 7, Position: 1, Damage: 900, MatchType: "BR"}
	raw, err := Encode(in)
	require.NoError(t, err)

	var out MatchEvent
	require.NoError(t, NewNoop().ProcessMessage(raw, &out))
	assert.Equal(t, in, out)

	assert.Error(t, Decode([]byte{0xc1}, &out), "0xc1 is never valid msgpack")
}

func TestNoopAcceptsEvents(t *testing.T) {
	c := NewNoop()
	defer c.Close()
	assert.NoError(t, c.SendMessage(context.Background(), EventActivity, ActivityEvent{UserID: 1, Action: "login"}))
	assert.Error(t, c.SendMessage(context.Background(), EventActivity, make(chan int)))
}
