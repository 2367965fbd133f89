package domain

// Message is a top-down directive delivered to components along a route.
//
// A Message addressed with an explicit path reaches exactly the component at the end
// of that path. When no path remains, a multicast Message reaches the immediate
// children of the addressed component only; each child decides whether to relay further.
type Message struct {
	Type      string
	Multicast bool
	Payload   any
}

// NewMessage creates a path-targeted message.
func NewMessage(msgType string, payload any) Message {
	return Message{Type: msgType, Payload: payload}
}

// NewMulticast creates a message that fans out one level when no path remains.
func NewMulticast(msgType string, payload any) Message {
	return Message{Type: msgType, Multicast: true, Payload: payload}
}

// IsMulticast reports whether the message fans out to all immediate children.
func (m Message) IsMulticast() bool {
	return m.Multicast
}

// Event is a bottom-up notification that ascends from a component to its parents.
type Event struct {
	Type    string
	Payload any
}

// NewEvent creates an event with the given type tag.
func NewEvent(eventType string, payload any) Event {
	return Event{Type: eventType, Payload: payload}
}
