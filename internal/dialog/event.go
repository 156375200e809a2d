package dialog

// EventKind tells which of the three inbound shapes an Event carries.
type EventKind int

const (
	EventCommand EventKind = iota + 1
	EventText
	EventCallback
)

// Event is one inbound user action.
type Event struct {
	UserID      int64
	DisplayName string
	Kind        EventKind
	// Command is the command name without the leading slash.
	Command string
	Text    string
	// Token is the opaque callback data of a pressed inline button.
	Token string
}

// Command builds a command event.
func Command(userID int64, displayName, name string) Event {
	return Event{UserID: userID, DisplayName: displayName, Kind: EventCommand, Command: name}
}

// Text builds a free-text event.
func Text(userID int64, displayName, content string) Event {
	return Event{UserID: userID, DisplayName: displayName, Kind: EventText, Text: content}
}

// Callback builds a button-press event.
func Callback(userID int64, displayName, token string) Event {
	return Event{UserID: userID, DisplayName: displayName, Kind: EventCallback, Token: token}
}

// Format hints how Reply.Text should be parsed by the client.
type Format int

const (
	FormatPlain Format = iota
	FormatHTML
)

// Option is one selectable inline button.
type Option struct {
	Label string
	Token string
}

// Reply is one outbound render instruction.
type Reply struct {
	Text string
	// Controls is an inline keyboard, row by row.
	Controls [][]Option
	// Menu replaces the persistent reply keyboard when non-nil.
	Menu   [][]string
	Format Format
	// Edit asks the transport to rewrite the message whose button was
	// pressed instead of sending a new one.
	Edit bool
}
