package protocol

import (
	"encoding/json"

	"github.com/samber/oops"
	"github.com/vmihailenco/msgpack/v5"
)

// Encode serializes an outgoing event. update_world goes out as a binary
// msgpack frame; everything else is JSON text.
func Encode(ev Outgoing) (data []byte, binary bool, err error) {
	if _, ok := ev.(*UpdateWorldEvent); ok {
		data, err = msgpack.Marshal(ev)
		if err != nil {
			return nil, false, oops.With("type", ev.EventType()).Wrap(err)
		}
		return data, true, nil
	}
	data, err = json.Marshal(ev)
	if err != nil {
		return nil, false, oops.With("type", ev.EventType()).Wrap(err)
	}
	return data, false, nil
}

// Decode parses an inbound JSON event.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, oops.Wrap(err)
	}
	return ev, nil
}
