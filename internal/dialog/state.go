package dialog

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/calendar"
)

// Kind identifies which dialog, if any, is in progress.
type Kind int

const (
	KindNone Kind = iota
	KindAddRecord
	KindEditRecord
	KindAdminAddUser
	KindAdminDeleteUser
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAddRecord:
		return "add_record"
	case KindEditRecord:
		return "edit_record"
	case KindAdminAddUser:
		return "admin_add_user"
	case KindAdminDeleteUser:
		return "admin_delete_user"
	}
	return "unknown"
}

func (k Kind) adminOnly() bool {
	return k == KindEditRecord || k == KindAdminAddUser || k == KindAdminDeleteUser
}

// Step is the position inside a dialog. Each kind uses its own subset.
type Step int

const (
	StepNone Step = iota

	// Add-Record.
	StepSelectComplex
	StepSelectOrganization
	StepSelectDate
	StepSelectStatus
	StepInputDuration
	StepInputSummary
	StepConfirm

	// Edit-Record.
	StepSelectField
	StepEditDate
	StepEditComplex
	StepEditOrganization
	StepEditStatus
	StepEditDuration
	StepEditSummary

	// Admin user management.
	StepInputID
	StepInputName
)

var stepNames = map[Step]string{
	StepNone:               "none",
	StepSelectComplex:      "select_complex",
	StepSelectOrganization: "select_organization",
	StepSelectDate:         "select_date",
	StepSelectStatus:       "select_status",
	StepInputDuration:      "input_duration",
	StepInputSummary:       "input_summary",
	StepConfirm:            "confirm",
	StepSelectField:        "select_field",
	StepEditDate:           "edit_date",
	StepEditComplex:        "edit_complex",
	StepEditOrganization:   "edit_organization",
	StepEditStatus:         "edit_status",
	StepEditDuration:       "edit_duration",
	StepEditSummary:        "edit_summary",
	StepInputID:            "input_id",
	StepInputName:          "input_name",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Draft accumulates meeting fields while a record is being added, and holds
// the complex picked while an organization is being edited.
type Draft struct {
	ComplexID        int64
	ComplexName      string
	OrganizationID   int64
	OrganizationName string
	Date             time.Time
	Status           application.Status
	DurationMinutes  *int
	Summary          string
}

// Browse is the position of the meeting browser.
type Browse struct {
	Year     int
	Month    time.Month
	Meetings []application.Meeting
	Page     int
}

// State is everything the engine remembers about one identity between events.
type State struct {
	// ID correlates log lines of one dialog.
	ID   uuid.UUID
	Kind Kind
	Step Step

	Draft     Draft
	MeetingID int64
	// Identity is the user id typed in the admin flows.
	Identity int64
	// Calendar is the month currently shown by a date picker.
	Calendar calendar.YearMonth

	Browse *Browse
}

// Active reports whether a dialog is in progress.
func (s State) Active() bool {
	return s.Kind != KindNone
}

// idle is what remains after a dialog ends: only the browse position.
func (s State) idle() State {
	return State{Browse: s.Browse}
}

func (s State) empty() bool {
	return !s.Active() && s.Browse == nil
}
