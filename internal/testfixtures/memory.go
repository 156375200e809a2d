package testfixtures

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/persistence"
)

// MemoryStore keeps meetings, the catalog and users in memory. It implements
// the application repository ports with the same ordering and error
// behavior as the SQLite repositories, records every call and can be told
// to fail specific operations.
type MemoryStore struct {
	mu sync.Mutex

	complexes     []application.Complex
	organizations []application.Organization
	users         map[int64]application.User
	meetings      map[int64]application.Meeting

	nextComplex int64
	nextOrg     int64
	nextMeeting int64

	calls    map[string]int
	failures map[string]error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]application.User),
		meetings: make(map[int64]application.Meeting),
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
}

// Repositories exposes the store as the ports application.NewFacade expects.
func (m *MemoryStore) Repositories() application.Repositories {
	return application.Repositories{
		Meetings: MemoryMeetings{m},
		Catalog:  MemoryCatalog{m},
		Users:    MemoryUsers{m},
	}
}

// Fail makes every later call of operation return err. A nil err clears it.
func (m *MemoryStore) Fail(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, operation)
		return
	}
	m.failures[operation] = err
}

// Calls reports how many times operation was invoked.
func (m *MemoryStore) Calls(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[operation]
}

// ResetCalls zeroes all counters.
func (m *MemoryStore) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[string]int)
}

// Meetings returns a snapshot of stored meetings ordered by id.
func (m *MemoryStore) Meetings() []application.Meeting {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]application.Meeting, 0, len(m.meetings))
	for _, meeting := range m.meetings {
		out = append(out, m.hydrate(meeting))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SeedCatalog loads entries and returns organization ids keyed by name.
func (m *MemoryStore) SeedCatalog(entries []application.CatalogEntry) map[string]int64 {
	ids := make(map[string]int64)
	for _, entry := range entries {
		complexID, _ := m.ensureComplex(entry.Complex)
		for _, name := range entry.Organizations {
			orgID, _ := m.ensureOrganization(complexID, name)
			ids[name] = orgID
		}
	}
	return ids
}

// SeedUsers stores users directly.
func (m *MemoryStore) SeedUsers(users ...application.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range users {
		m.users[u.Identity] = u
	}
}

// SeedMeetings stores meetings directly and returns their ids.
func (m *MemoryStore) SeedMeetings(meetings ...application.Meeting) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(meetings))
	for i, meeting := range meetings {
		m.nextMeeting++
		meeting.ID = m.nextMeeting
		if meeting.CreatedAt.IsZero() {
			meeting.CreatedAt = referenceTime.Add(time.Duration(i) * time.Second)
		}
		m.meetings[meeting.ID] = meeting
		ids = append(ids, meeting.ID)
	}
	return ids
}

func (m *MemoryStore) begin(operation string) error {
	m.mu.Lock()
	m.calls[operation]++
	return m.failures[operation]
}

func (m *MemoryStore) ensureComplex(name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureComplexLocked(name), nil
}

func (m *MemoryStore) ensureComplexLocked(name string) int64 {
	for _, c := range m.complexes {
		if c.Name == name {
			return c.ID
		}
	}
	m.nextComplex++
	m.complexes = append(m.complexes, application.Complex{ID: m.nextComplex, Name: name})
	return m.nextComplex
}

func (m *MemoryStore) ensureOrganization(complexID int64, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureOrganizationLocked(complexID, name)
}

func (m *MemoryStore) ensureOrganizationLocked(complexID int64, name string) (int64, error) {
	if _, ok := m.complex(complexID); !ok {
		return 0, persistence.ErrForeignKeyViolation
	}
	for _, o := range m.organizations {
		if o.Name != name {
			continue
		}
		if o.ComplexID != complexID {
			return 0, fmt.Errorf("%w: organization %q belongs to complex %d", persistence.ErrDuplicate, name, o.ComplexID)
		}
		return o.ID, nil
	}
	m.nextOrg++
	m.organizations = append(m.organizations, application.Organization{ID: m.nextOrg, ComplexID: complexID, Name: name})
	return m.nextOrg, nil
}

func (m *MemoryStore) complex(id int64) (application.Complex, bool) {
	for _, c := range m.complexes {
		if c.ID == id {
			return c, true
		}
	}
	return application.Complex{}, false
}

func (m *MemoryStore) organization(id int64) (application.Organization, bool) {
	for _, o := range m.organizations {
		if o.ID == id {
			return o, true
		}
	}
	return application.Organization{}, false
}

// hydrate fills the joined catalog names the way the SQL select does.
func (m *MemoryStore) hydrate(meeting application.Meeting) application.Meeting {
	if org, ok := m.organization(meeting.OrganizationID); ok {
		meeting.OrganizationName = org.Name
		meeting.ComplexID = org.ComplexID
		if c, ok := m.complex(org.ComplexID); ok {
			meeting.ComplexName = c.Name
		}
	}
	if meeting.DurationMinutes != nil {
		d := *meeting.DurationMinutes
		meeting.DurationMinutes = &d
	}
	return meeting
}

// MemoryMeetings adapts MemoryStore to application.MeetingRepository.
type MemoryMeetings struct{ *MemoryStore }

func (r MemoryMeetings) CreateMeeting(ctx context.Context, meeting application.Meeting) (int64, error) {
	err := r.begin("CreateMeeting")
	defer r.mu.Unlock()
	if err != nil {
		return 0, err
	}
	if _, ok := r.organization(meeting.OrganizationID); !ok {
		return 0, persistence.ErrForeignKeyViolation
	}
	if meeting.Status.RequiresDuration() != (meeting.DurationMinutes != nil) {
		return 0, persistence.ErrConstraintViolation
	}
	r.nextMeeting++
	meeting.ID = r.nextMeeting
	r.meetings[meeting.ID] = meeting
	return meeting.ID, nil
}

func (r MemoryMeetings) GetMeeting(ctx context.Context, id int64) (application.Meeting, error) {
	err := r.begin("GetMeeting")
	defer r.mu.Unlock()
	if err != nil {
		return application.Meeting{}, err
	}
	meeting, ok := r.meetings[id]
	if !ok {
		return application.Meeting{}, persistence.ErrNotFound
	}
	return r.hydrate(meeting), nil
}

func (r MemoryMeetings) UpdateMeeting(ctx context.Context, id int64, patch application.MeetingPatch) error {
	err := r.begin("UpdateMeeting")
	defer r.mu.Unlock()
	if err != nil {
		return err
	}
	if patch.Empty() {
		return persistence.ErrConstraintViolation
	}
	meeting, ok := r.meetings[id]
	if !ok {
		return persistence.ErrNotFound
	}
	if patch.Date != nil {
		meeting.Date = *patch.Date
	}
	if patch.OrganizationID != nil {
		if _, ok := r.organization(*patch.OrganizationID); !ok {
			return persistence.ErrForeignKeyViolation
		}
		meeting.OrganizationID = *patch.OrganizationID
	}
	if patch.Status != nil {
		meeting.Status = *patch.Status
	}
	if patch.ClearDuration {
		meeting.DurationMinutes = nil
	}
	if patch.DurationMinutes != nil {
		d := *patch.DurationMinutes
		meeting.DurationMinutes = &d
	}
	if patch.Summary != nil {
		meeting.Summary = *patch.Summary
	}
	r.meetings[id] = meeting
	return nil
}

func (r MemoryMeetings) DeleteMeeting(ctx context.Context, id int64) error {
	err := r.begin("DeleteMeeting")
	defer r.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.meetings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.meetings, id)
	return nil
}

func (r MemoryMeetings) ListMeetings(ctx context.Context, filter application.MeetingFilter) ([]application.Meeting, error) {
	err := r.begin("ListMeetings")
	defer r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []application.Meeting
	for _, meeting := range r.meetings {
		meeting = r.hydrate(meeting)
		switch {
		case filter.Year != 0 && meeting.Date.Year() != filter.Year:
			continue
		case filter.Month != 0 && meeting.Date.Month() != filter.Month:
			continue
		case filter.ComplexID != 0 && meeting.ComplexID != filter.ComplexID:
			continue
		case filter.OrganizationID != 0 && meeting.OrganizationID != filter.OrganizationID:
			continue
		case filter.Status != "" && meeting.Status != filter.Status:
			continue
		}
		out = append(out, meeting)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (r MemoryMeetings) ListYears(ctx context.Context) ([]int, error) {
	err := r.begin("ListYears")
	defer r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var years []int
	for _, meeting := range r.meetings {
		if y := meeting.Date.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (r MemoryMeetings) ListMonths(ctx context.Context, year int) ([]time.Month, error) {
	err := r.begin("ListMonths")
	defer r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	seen := make(map[time.Month]bool)
	var months []time.Month
	for _, meeting := range r.meetings {
		if meeting.Date.Year() != year || seen[meeting.Date.Month()] {
			continue
		}
		seen[meeting.Date.Month()] = true
		months = append(months, meeting.Date.Month())
	}
	sort.Slice(months, func(i, j int) bool { return months[i] > months[j] })
	return months, nil
}

func (r MemoryMeetings) Statistics(ctx context.Context, period application.DateRange) ([]application.StatRow, error) {
	err := r.begin("Statistics")
	defer r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	type key struct {
		complexID int64
		org       string
		status    application.Status
	}
	counts := make(map[key]int)
	names := make(map[int64]string)
	for _, meeting := range r.meetings {
		if !period.From.IsZero() && meeting.Date.Before(period.From) {
			continue
		}
		if !period.To.IsZero() && meeting.Date.After(period.To) {
			continue
		}
		meeting = r.hydrate(meeting)
		names[meeting.ComplexID] = meeting.ComplexName
		counts[key{meeting.ComplexID, meeting.OrganizationName, meeting.Status}]++
	}
	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.complexID != b.complexID {
			return a.complexID < b.complexID
		}
		if a.org != b.org {
			return a.org < b.org
		}
		return a.status < b.status
	})
	rows := make([]application.StatRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, application.StatRow{
			ComplexName:      names[k.complexID],
			OrganizationName: k.org,
			Status:           k.status,
			Count:            counts[k],
		})
	}
	return rows, nil
}

// MemoryCatalog adapts MemoryStore to application.CatalogRepository.
type MemoryCatalog struct{ *MemoryStore }

func (r MemoryCatalog) ListComplexes(ctx context.Context) ([]application.Complex, error) {
	err := r.begin("ListComplexes")
	defer r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := append([]application.Complex(nil), r.complexes...)
	return out, nil
}

func (r MemoryCatalog) ListOrganizations(ctx context.Context, complexID int64) ([]application.Organization, error) {
	err := r.begin("ListOrganizations")
	defer r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []application.Organization
	for _, o := range r.organizations {
		if o.ComplexID == complexID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r MemoryCatalog) GetOrganization(ctx context.Context, id int64) (application.Organization, error) {
	err := r.begin("GetOrganization")
	defer r.mu.Unlock()
	if err != nil {
		return application.Organization{}, err
	}
	o, ok := r.organization(id)
	if !ok {
		return application.Organization{}, persistence.ErrNotFound
	}
	return o, nil
}

func (r MemoryCatalog) EnsureComplex(ctx context.Context, name string) (int64, error) {
	err := r.begin("EnsureComplex")
	defer r.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return r.ensureComplexLocked(name), nil
}

func (r MemoryCatalog) EnsureOrganization(ctx context.Context, complexID int64, name string) (int64, error) {
	err := r.begin("EnsureOrganization")
	defer r.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return r.ensureOrganizationLocked(complexID, name)
}

// MemoryUsers adapts MemoryStore to application.UserRepository.
type MemoryUsers struct{ *MemoryStore }

func (r MemoryUsers) CreateUser(ctx context.Context, user application.User) error {
	err := r.begin("CreateUser")
	defer r.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.users[user.Identity]; ok {
		return persistence.ErrDuplicate
	}
	r.users[user.Identity] = user
	return nil
}

func (r MemoryUsers) SaveUser(ctx context.Context, user application.User) error {
	err := r.begin("SaveUser")
	defer r.mu.Unlock()
	if err != nil {
		return err
	}
	if existing, ok := r.users[user.Identity]; ok {
		user.RegisteredAt = existing.RegisteredAt
	}
	r.users[user.Identity] = user
	return nil
}

func (r MemoryUsers) GetUser(ctx context.Context, identity int64) (application.User, error) {
	err := r.begin("GetUser")
	defer r.mu.Unlock()
	if err != nil {
		return application.User{}, err
	}
	u, ok := r.users[identity]
	if !ok {
		return application.User{}, persistence.ErrNotFound
	}
	return u, nil
}

func (r MemoryUsers) DeleteUser(ctx context.Context, identity int64) error {
	err := r.begin("DeleteUser")
	defer r.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.users[identity]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.users, identity)
	return nil
}

func (r MemoryUsers) ListUsers(ctx context.Context) ([]application.User, error) {
	err := r.begin("ListUsers")
	defer r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]application.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].RegisteredAt.Before(out[j].RegisteredAt)
		}
		return out[i].Identity < out[j].Identity
	})
	return out, nil
}

var (
	_ application.MeetingRepository = MemoryMeetings{}
	_ application.CatalogRepository = MemoryCatalog{}
	_ application.UserRepository    = MemoryUsers{}
)
