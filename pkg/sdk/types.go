package sdk

import "time"

type Player struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Created string `json:"created,omitempty"`
	Source  string `json:"source,omitempty"`
	Expires string `json:"expires,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Level   int    `json:"level,omitempty"`
}

type RejectedPlayer struct {
	Username string    `json:"username"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}

type Vitals struct {
	Status      string   `json:"status"`
	CPU         float64  `json:"cpu"`
	RAM         uint64   `json:"ram"`
	TotalMemory string   `json:"total_memory"`
	Players     int      `json:"players"`
	PlayerList  []string `json:"player_list,omitempty"`
}

func (v Vitals) Running() bool {
	return v.Status == "Running"
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PlayerRequest struct {
	Username string `json:"username"`
	Reason   string `json:"reason,omitempty"`
}

type CommandRequest struct {
	Command string `json:"command"`
}

type UpdateRequest struct {
	Version string `json:"version"`
}

const (
	FrameLog     = "log"
	FrameError   = "error"
	FrameCommand = "command"
)

// Frame is the envelope of every websocket message in both directions.
type Frame struct {
	Type string `json:"type"`
	Data string `json:"data"`
}
