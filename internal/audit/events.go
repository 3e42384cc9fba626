package audit

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
)

// Bus event types carrying audit records
const (
	EventMemoryRecorded = "audit.memory_recorded"
	EventGameRecorded   = "audit.game_event_recorded"
)

// subject names an actor on a bus event by ID alone
type subject struct {
	id   string
	kind string
}

func (s subject) GetID() string   { return s.id }
func (s subject) GetType() string { return s.kind }

// busEvent is a bus event with the record it announces
type busEvent struct {
	*events.GameEvent
	memory *entities.Memory
	event  *entities.GameEvent
}

func entity(id, kind string) core.Entity {
	if id == "" {
		return nil
	}
	return subject{id: id, kind: kind}
}

func memoryEvent(m *entities.Memory) *busEvent {
	return &busEvent{
		GameEvent: events.NewGameEvent(EventMemoryRecorded, entity(m.NPCID, "npc"), nil),
		memory:    m,
	}
}

func gameEvent(ev *entities.GameEvent) *busEvent {
	return &busEvent{
		GameEvent: events.NewGameEvent(EventGameRecorded,
			entity(ev.PrimaryID, "actor"), entity(ev.SecondaryID, "actor")),
		event: ev,
	}
}

// MemoryFrom returns the memory carried by an audit bus event
func MemoryFrom(e events.Event) (*entities.Memory, bool) {
	be, ok := e.(*busEvent)
	if !ok || be.memory == nil {
		return nil, false
	}
	return be.memory, true
}

// GameEventFrom returns the game event carried by an audit bus event
func GameEventFrom(e events.Event) (*entities.GameEvent, bool) {
	be, ok := e.(*busEvent)
	if !ok || be.event == nil {
		return nil, false
	}
	return be.event, true
}
