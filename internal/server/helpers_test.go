package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"goom-server/internal/protocol"
	"goom-server/internal/worldcfg"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type sent struct {
	ev protocol.Outgoing
	to string
}

type recorder struct {
	broadcasts []protocol.Outgoing
	targeted   []sent
}

func (r *recorder) broadcast(ev protocol.Outgoing)        { r.broadcasts = append(r.broadcasts, ev) }
func (r *recorder) sendTo(ev protocol.Outgoing, to string) { r.targeted = append(r.targeted, sent{ev, to}) }

func (r *recorder) reset() {
	r.broadcasts = nil
	r.targeted = nil
}

func (r *recorder) broadcastsOf(eventType string) []protocol.Outgoing {
	var out []protocol.Outgoing
	for _, ev := range r.broadcasts {
		if ev.EventType() == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func loadConfig(t *testing.T, name string) *worldcfg.Config {
	t.Helper()
	cfg, err := worldcfg.Load("../worldcfg/testdata/" + name)
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *recorder, *fakeClock) {
	t.Helper()
	return newTestServerFrom(t, loadConfig(t, "world.json"), opts...)
}

func newTestServerFrom(t *testing.T, cfg *worldcfg.Config, opts ...Option) (*Server, *recorder, *fakeClock) {
	t.Helper()
	rec := &recorder{}
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	s, err := New(cfg, rec.broadcast, rec.sendTo, opts...)
	require.NoError(t, err)
	return s, rec, clock
}
