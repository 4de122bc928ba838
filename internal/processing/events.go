package processing

import (
	"time"

	"github.com/five82/video2gif/internal/config"
)

// EventType names a conversion event.
type EventType string

const (
	EventStdout      EventType = "stdout"
	EventStderr      EventType = "stderr"
	EventTierChanged EventType = "tier-changed"
	EventProgress    EventType = "progress"
	EventComplete    EventType = "complete"
)

// Event is one item of a conversion's progress stream. Only the fields
// relevant to Type are set.
type Event struct {
	Type    EventType   `json:"type"`
	Input   string      `json:"input"`
	Data    string      `json:"data,omitempty"`
	Tier    config.Tier `json:"tier,omitempty"`
	Percent int         `json:"percent,omitempty"`
	Result  *Result     `json:"result,omitempty"`
	Time    time.Time   `json:"time"`
}

// EventHandler receives events of one conversion in order, from one
// goroutine at a time.
type EventHandler func(Event)

// NopHandler discards events.
func NopHandler(Event) {}
