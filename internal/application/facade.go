package application

import (
	"log/slog"
	"time"
)

// Facade bundles the services into the single store the dialog engine talks to.
type Facade struct {
	*MeetingService
	*CatalogService
	*UserService
}

// Repositories groups the storage ports a Facade is built from.
type Repositories struct {
	Meetings MeetingRepository
	Catalog  CatalogRepository
	Users    UserRepository
}

// NewFacade wires all services against the given repositories.
func NewFacade(repos Repositories, now func() time.Time, logger *slog.Logger) *Facade {
	return &Facade{
		MeetingService: NewMeetingServiceWithLogger(repos.Meetings, repos.Catalog, now, logger),
		CatalogService: NewCatalogServiceWithLogger(repos.Catalog, logger),
		UserService:    NewUserServiceWithLogger(repos.Users, now, logger),
	}
}
