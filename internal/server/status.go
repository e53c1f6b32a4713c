package server

// Status is a point-in-time view of the session for the status endpoint
type Status struct {
	SessionID       string  `json:"session_id"`
	Rows            int     `json:"rows"`
	Cols            int     `json:"cols"`
	Players         int     `json:"players"`
	DurationSeconds float64 `json:"duration_seconds"`
	ElapsedMS       int64   `json:"elapsed_ms"`
	Over            bool    `json:"over"`
	Connected       int     `json:"connected"`
	Joined          int     `json:"joined"`
	// nil entries are disconnected players
	Scores []*int `json:"scores"`
	Moles  []bool `json:"moles"`
}

// Status snapshots the session
func (s *Server) Status() Status {
	cfg := s.engine.Config()
	clock := s.engine.Clock()

	s.mu.RLock()
	joined := len(s.players)
	s.mu.RUnlock()

	slots := s.engine.Scores().Snapshot()
	scores := make([]*int, len(slots))
	for i, slot := range slots {
		if score, ok := slot.Score(); ok {
			scores[i] = &score
		}
	}

	cells := s.engine.Board().Snapshot()
	moles := make([]bool, len(cells))
	for i, c := range cells {
		moles[i] = c.Up
	}

	return Status{
		SessionID:       s.id,
		Rows:            cfg.Rows,
		Cols:            cfg.Cols,
		Players:         cfg.Players,
		DurationSeconds: cfg.Duration.Seconds(),
		ElapsedMS:       clock.Elapsed().Milliseconds(),
		Over:            clock.Over(),
		Connected:       s.engine.Scores().ConnectedCount(),
		Joined:          joined,
		Scores:          scores,
		Moles:           moles,
	}
}
