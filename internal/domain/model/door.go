package model

// DoorStatus is the remote-reported state of a garage door.
type DoorStatus int

const (
	StatusUnknown DoorStatus = iota
	StatusOpen
	StatusClosed
)

func (s DoorStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Position maps a status to a Home Assistant cover position,
// where 0 is fully closed and 100 is fully open.
// An unknown status reports 50; the entity is additionally
// marked unavailable so the UI does not show a half-open door.
func (s DoorStatus) Position() int {
	switch s {
	case StatusClosed:
		return 0
	case StatusOpen:
		return 100
	default:
		return 50
	}
}

// Door is one physical door behind a SOMweb controller,
// as reported by the controller's door list.
type Door struct {
	ID   int
	Name string
}
