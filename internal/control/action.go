// Package control defines the closed set of actions a user can pick from an
// inline keyboard and their compact wire form.
package control

import "time"

// Action is implemented only by the types in this package.
type Action interface {
	isAction()
}

// Field names an editable meeting attribute.
type Field string

const (
	FieldDate         Field = "date"
	FieldOrganization Field = "org"
	FieldStatus       Field = "status"
	FieldDuration     Field = "dur"
	FieldSummary      Field = "sum"
)

// Valid reports whether f is one of the editable fields.
func (f Field) Valid() bool {
	switch f {
	case FieldDate, FieldOrganization, FieldStatus, FieldDuration, FieldSummary:
		return true
	}
	return false
}

// AdminItem names an entry of the user administration menu.
type AdminItem string

const (
	AdminList   AdminItem = "list"
	AdminAdd    AdminItem = "add"
	AdminDelete AdminItem = "del"
	AdminBack   AdminItem = "back"
)

// Catalog family.
type (
	PickComplex      struct{ ID int64 }
	PickOrganization struct{ ID int64 }
	BackToComplexes  struct{}
)

// Calendar family.
type (
	PickDay   struct{ Date time.Time }
	ShowMonth struct {
		Year  int
		Month time.Month
	}
	PickToday      struct{}
	CancelCalendar struct{}
	// Noop backs labels and blank cells that are not meant to be pressed.
	Noop struct{}
)

// PickStatus carries a status code.
type PickStatus struct{ Code string }

// Confirm answers the add-meeting confirmation.
type Confirm struct{ Accept bool }

// Browse family.
type (
	PickYear  struct{ Year int }
	PickMonth struct {
		Year  int
		Month time.Month
	}
	OpenMeeting  struct{ ID int64 }
	ShowPage     struct{ Index int }
	BackToYears  struct{}
	BackToMonths struct{}
	BackToList   struct{}
)

// Edit family.
type (
	StartEdit struct{ MeetingID int64 }
	EditField struct {
		MeetingID int64
		Field     Field
	}
	CancelEdit struct{ MeetingID int64 }
)

// Delete family.
type (
	StartDelete   struct{ MeetingID int64 }
	ConfirmDelete struct{ MeetingID int64 }
	CancelDelete  struct{ MeetingID int64 }
)

// AdminMenu selects an administration menu entry.
type AdminMenu struct{ Item AdminItem }

func (PickComplex) isAction()      {}
func (PickOrganization) isAction() {}
func (BackToComplexes) isAction()  {}
func (PickDay) isAction()          {}
func (ShowMonth) isAction()        {}
func (PickToday) isAction()        {}
func (CancelCalendar) isAction()   {}
func (Noop) isAction()             {}
func (PickStatus) isAction()       {}
func (Confirm) isAction()          {}
func (PickYear) isAction()         {}
func (PickMonth) isAction()        {}
func (OpenMeeting) isAction()      {}
func (ShowPage) isAction()         {}
func (BackToYears) isAction()      {}
func (BackToMonths) isAction()     {}
func (BackToList) isAction()       {}
func (StartEdit) isAction()        {}
func (EditField) isAction()        {}
func (CancelEdit) isAction()       {}
func (StartDelete) isAction()      {}
func (ConfirmDelete) isAction()    {}
func (CancelDelete) isAction()     {}
func (AdminMenu) isAction()        {}
