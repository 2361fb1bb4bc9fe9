package stats

import (
	"sync"
	"time"
)

// Stats is written by the render loop and read by the API.
type Stats struct {
	cur Snapshot

	mu           sync.Mutex
	frameCounter uint64
	frameTimer   time.Time
	start        time.Time
	now          func() time.Time
}

func New() *Stats {
	s := &Stats{now: time.Now}
	s.start = s.now()
	s.frameTimer = s.start
	return s
}

// Update is called once per presented frame.
func (s *Stats) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.cur.Frames++
	s.frameCounter++
	if now.Sub(s.frameTimer) >= 1*time.Second {
		s.cur.FPS = s.frameCounter
		s.frameCounter = 0
		s.frameTimer = now
	}

	s.cur.Uptime = float64(now.Sub(s.start).Nanoseconds()) / 1e9
}

func (s *Stats) ShaderReloaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.ShaderReloads++
}

func (s *Stats) SetWsClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.WsClients = n
}

// Snapshot is a copy that can be handed to encoders.
type Snapshot struct {
	Frames        uint64  `json:"frames"`
	Uptime        float64 `json:"uptime"`
	FPS           uint64  `json:"fps"`
	ShaderReloads uint64  `json:"shader_reloads"`
	WsClients     int     `json:"ws_clients"`
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}
