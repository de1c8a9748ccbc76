package discord

import "github.com/keshon/ainnie/internal/command"

// SystemEvent asks the runtime to leave its event loop.
type SystemEvent struct {
	Signal  command.Signal
	GuildID string
	UserID  string
}

const systemEventBuffer = 4

// publish hands an event to Run without ever blocking a gateway handler.
func (b *Bot) publish(evt SystemEvent) {
	select {
	case b.events <- evt:
	default:
		// a control event is already pending
	}
}
