package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newWithClock() (*Stats, *fakeClock) {
	c := &fakeClock{t: time.Unix(1000, 0)}
	s := &Stats{now: c.now}
	s.start = c.t
	s.frameTimer = c.t
	return s, c
}

func TestFPS(t *testing.T) {
	s, c := newWithClock()

	for range 59 {
		c.t = c.t.Add(16 * time.Millisecond)
		s.Update()
	}
	assert.Zero(t, s.Snapshot().FPS, "FPS is only published once a second has passed")

	c.t = time.Unix(1001, 0)
	s.Update()

	snap := s.Snapshot()
	assert.EqualValues(t, 60, snap.FPS)
	assert.EqualValues(t, 60, snap.Frames)
	assert.InDelta(t, 1.0, snap.Uptime, 1e-9)
}

func TestCounters(t *testing.T) {
	s := New()
	s.ShaderReloaded()
	s.ShaderReloaded()
	s.SetWsClients(3)

	snap := s.Snapshot()
	assert.EqualValues(t, 2, snap.ShaderReloads)
	assert.Equal(t, 3, snap.WsClients)
}
