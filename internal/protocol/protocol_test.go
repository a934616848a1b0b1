package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"goom-server/internal/geom"
)

func TestDecodeKeepsRawPayload(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"fire","target":"megaboss","from":"player1"}`))
	require.NoError(t, err)
	assert.Equal(t, "fire", ev.Type)
	assert.Equal(t, "player1", ev.From)
	assert.Empty(t, ev.Value)
	assert.JSONEq(t, `{"type":"fire","target":"megaboss","from":"player1"}`, string(ev.Raw))
}

func TestDecodeNonStringValue(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"input","value":{"x":1},"from":"p"}`))
	require.NoError(t, err)
	assert.Equal(t, "input", ev.Type)
	assert.Empty(t, ev.Value)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeInitIsTargetedText(t *testing.T) {
	ev := NewInit(&ClientConfig{Models: map[string]string{"box_agent": "box"}}, "p1")
	assert.Equal(t, "p1", ev.Recipient())

	data, binary, err := Encode(ev)
	require.NoError(t, err)
	assert.False(t, binary)
	assert.JSONEq(t, `{"type":"init","to":"p1","config":{"models":{"box_agent":"box"},"placements":null}}`, string(data))
}

func TestEncodeUpdateWorldIsBinary(t *testing.T) {
	ev := NewUpdateWorld([]BodyState{{
		ID:          "0",
		Position:    geom.Vec3{X: 1, Y: 2, Z: 3},
		Orientation: geom.Identity,
	}})
	assert.Empty(t, ev.Recipient())

	data, binary, err := Encode(ev)
	require.NoError(t, err)
	assert.True(t, binary)

	var back UpdateWorldEvent
	require.NoError(t, msgpack.Unmarshal(data, &back))
	assert.Equal(t, *ev, back)
}

func TestPlacementOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(Placement{ID: "1", Model: "box", Position: &geom.Vec3{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","model":"box","position":{"x":0,"y":0,"z":0}}`, string(data))
}

func TestBroadcastEventsHaveNoRecipient(t *testing.T) {
	for _, ev := range []Outgoing{&NewPlayerEvent{Type: TypeNewPlayer}, NewPlayerRemoved("x"), NewUpdateWorld(nil)} {
		assert.Empty(t, ev.Recipient(), ev.EventType())
	}
}
