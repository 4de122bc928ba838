package video2gif

import "github.com/five82/video2gif/internal/processing"

// Event is one item of a conversion's progress stream.
type Event = processing.Event

// EventType identifies an Event.
type EventType = processing.EventType

// EventHandler receives events of one conversion in order.
type EventHandler = processing.EventHandler

const (
	// EventStdout carries a transcript or ffmpeg stdout line in Data.
	EventStdout = processing.EventStdout
	// EventStderr carries an ffmpeg stderr line in Data.
	EventStderr = processing.EventStderr
	// EventTierChanged marks the start of a tier; see Tier.
	EventTierChanged = processing.EventTierChanged
	// EventProgress carries the estimated Percent of the active tier.
	EventProgress = processing.EventProgress
	// EventComplete is the final event and carries the Result.
	EventComplete = processing.EventComplete
)
