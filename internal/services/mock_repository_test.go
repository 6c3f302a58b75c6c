package services

import (
	"context"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests. Writes
// inside WithTransaction are rolled back on error by restoring a
// snapshot of the maps.
type mockRepository struct {
	users         map[uint]*models.User
	managers      map[uint]*models.Manager
	facilitators  map[uint]*models.Facilitator
	students      map[uint]*models.Student
	cohorts       map[uint]*models.Cohort
	classes       map[uint]*models.Class
	modules       map[uint]*models.Module
	modes         map[uint]*models.Mode
	offerings     map[uint]*models.CourseOffering
	activities    map[uint]*models.ActivityTracker
	notifications map[uint]*models.Notification

	nextID uint

	// Failure injection for rollback tests.
	failStudentCreate  error
	failActivityUpsert error

	// Runs once at the top of the next activity upsert, simulating a
	// competing writer that commits between the caller's read and write.
	beforeActivityUpsert func(*mockRepository)
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:         make(map[uint]*models.User),
		managers:      make(map[uint]*models.Manager),
		facilitators:  make(map[uint]*models.Facilitator),
		students:      make(map[uint]*models.Student),
		cohorts:       make(map[uint]*models.Cohort),
		classes:       make(map[uint]*models.Class),
		modules:       make(map[uint]*models.Module),
		modes:         make(map[uint]*models.Mode),
		offerings:     make(map[uint]*models.CourseOffering),
		activities:    make(map[uint]*models.ActivityTracker),
		notifications: make(map[uint]*models.Notification),
	}
}

func (m *mockRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *mockRepository) User() repositories.UserRepository         { return (*mockUserRepo)(m) }
func (m *mockRepository) Catalog() repositories.CatalogRepository   { return (*mockCatalogRepo)(m) }
func (m *mockRepository) Offering() repositories.OfferingRepository { return (*mockOfferingRepo)(m) }
func (m *mockRepository) Activity() repositories.ActivityRepository { return (*mockActivityRepo)(m) }
func (m *mockRepository) Notification() repositories.NotificationRepository {
	return (*mockNotificationRepo)(m)
}

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	snapshot := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

type mockState struct {
	users         map[uint]*models.User
	managers      map[uint]*models.Manager
	facilitators  map[uint]*models.Facilitator
	students      map[uint]*models.Student
	offerings     map[uint]*models.CourseOffering
	activities    map[uint]*models.ActivityTracker
	notifications map[uint]*models.Notification
	nextID        uint
}

func (m *mockRepository) snapshot() mockState {
	return mockState{
		users:         copyMap(m.users),
		managers:      copyMap(m.managers),
		facilitators:  copyMap(m.facilitators),
		students:      copyMap(m.students),
		offerings:     copyMap(m.offerings),
		activities:    copyMap(m.activities),
		notifications: copyMap(m.notifications),
		nextID:        m.nextID,
	}
}

func (m *mockRepository) restore(s mockState) {
	m.users = s.users
	m.managers = s.managers
	m.facilitators = s.facilitators
	m.students = s.students
	m.offerings = s.offerings
	m.activities = s.activities
	m.notifications = s.notifications
	m.nextID = s.nextID
}

func copyMap[V any](src map[uint]V) map[uint]V {
	dst := make(map[uint]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// ----- users -----

type mockUserRepo mockRepository

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return &repositories.ConstraintViolationError{Field: "email", Constraint: "unique"}
		}
	}
	user.ID = (*mockRepository)(m).id()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetByIDWithRole(ctx context.Context, id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for _, mg := range m.managers {
		if mg.UserID == id {
			u.Manager = mg
		}
	}
	for _, f := range m.facilitators {
		if f.UserID == id {
			u.Facilitator = f
		}
	}
	for _, s := range m.students {
		if s.UserID == id {
			u.Student = s
		}
	}
	return u, nil
}

func (m *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range m.users {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		if filters.IsActive != nil && u.IsActive != *filters.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	// Role records cascade with the user; offerings restrict instead.
	for fid, f := range m.facilitators {
		if f.UserID == id {
			for _, o := range m.offerings {
				if o.FacilitatorID == fid {
					return &repositories.ReferentialIntegrityError{Entity: "user", Dependents: "course offerings"}
				}
			}
			delete(m.facilitators, fid)
		}
	}
	for mid, mg := range m.managers {
		if mg.UserID == id {
			delete(m.managers, mid)
		}
	}
	for sid, s := range m.students {
		if s.UserID == id {
			delete(m.students, sid)
		}
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CreateManager(ctx context.Context, mg *models.Manager) error {
	mg.ID = (*mockRepository)(m).id()
	m.managers[mg.ID] = mg
	return nil
}

func (m *mockUserRepo) CreateFacilitator(ctx context.Context, f *models.Facilitator) error {
	f.ID = (*mockRepository)(m).id()
	m.facilitators[f.ID] = f
	return nil
}

func (m *mockUserRepo) CreateStudent(ctx context.Context, s *models.Student) error {
	if m.failStudentCreate != nil {
		return m.failStudentCreate
	}
	s.ID = (*mockRepository)(m).id()
	m.students[s.ID] = s
	return nil
}

func (m *mockUserRepo) GetManagerByUserID(ctx context.Context, userID uint) (*models.Manager, error) {
	for _, mg := range m.managers {
		if mg.UserID == userID {
			return mg, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetFacilitatorByUserID(ctx context.Context, userID uint) (*models.Facilitator, error) {
	for _, f := range m.facilitators {
		if f.UserID == userID {
			return f, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetFacilitatorByID(ctx context.Context, id uint) (*models.Facilitator, error) {
	f, ok := m.facilitators[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	f.User = m.users[f.UserID]
	return f, nil
}

func (m *mockUserRepo) GetStudentByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	for _, s := range m.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) ListFacilitators(ctx context.Context) ([]*models.Facilitator, error) {
	var out []*models.Facilitator
	for _, f := range m.facilitators {
		out = append(out, f)
	}
	return out, nil
}

// ----- catalog -----

type mockCatalogRepo mockRepository

func (m *mockCatalogRepo) CreateCohort(ctx context.Context, c *models.Cohort) error {
	c.ID = (*mockRepository)(m).id()
	m.cohorts[c.ID] = c
	return nil
}

func (m *mockCatalogRepo) GetCohort(ctx context.Context, id uint) (*models.Cohort, error) {
	c, ok := m.cohorts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func (m *mockCatalogRepo) ListCohorts(ctx context.Context) ([]*models.Cohort, error) {
	var out []*models.Cohort
	for _, c := range m.cohorts {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCatalogRepo) UpdateCohort(ctx context.Context, c *models.Cohort) error {
	if _, ok := m.cohorts[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.cohorts[c.ID] = c
	return nil
}

func (m *mockCatalogRepo) DeleteCohort(ctx context.Context, id uint) error {
	if _, ok := m.cohorts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.cohorts, id)
	return nil
}

func (m *mockCatalogRepo) CreateClass(ctx context.Context, c *models.Class) error {
	c.ID = (*mockRepository)(m).id()
	m.classes[c.ID] = c
	return nil
}

func (m *mockCatalogRepo) GetClass(ctx context.Context, id uint) (*models.Class, error) {
	c, ok := m.classes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func (m *mockCatalogRepo) ListClasses(ctx context.Context) ([]*models.Class, error) {
	var out []*models.Class
	for _, c := range m.classes {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCatalogRepo) UpdateClass(ctx context.Context, c *models.Class) error {
	if _, ok := m.classes[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.classes[c.ID] = c
	return nil
}

func (m *mockCatalogRepo) DeleteClass(ctx context.Context, id uint) error {
	if _, ok := m.classes[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.classes, id)
	return nil
}

func (m *mockCatalogRepo) CreateModule(ctx context.Context, mod *models.Module) error {
	mod.ID = (*mockRepository)(m).id()
	m.modules[mod.ID] = mod
	return nil
}

func (m *mockCatalogRepo) GetModule(ctx context.Context, id uint) (*models.Module, error) {
	mod, ok := m.modules[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return mod, nil
}

func (m *mockCatalogRepo) ListModules(ctx context.Context) ([]*models.Module, error) {
	var out []*models.Module
	for _, mod := range m.modules {
		out = append(out, mod)
	}
	return out, nil
}

func (m *mockCatalogRepo) UpdateModule(ctx context.Context, mod *models.Module) error {
	if _, ok := m.modules[mod.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.modules[mod.ID] = mod
	return nil
}

func (m *mockCatalogRepo) DeleteModule(ctx context.Context, id uint) error {
	if _, ok := m.modules[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.modules, id)
	return nil
}

func (m *mockCatalogRepo) CreateMode(ctx context.Context, md *models.Mode) error {
	md.ID = (*mockRepository)(m).id()
	m.modes[md.ID] = md
	return nil
}

func (m *mockCatalogRepo) GetMode(ctx context.Context, id uint) (*models.Mode, error) {
	md, ok := m.modes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return md, nil
}

func (m *mockCatalogRepo) ListModes(ctx context.Context) ([]*models.Mode, error) {
	var out []*models.Mode
	for _, md := range m.modes {
		out = append(out, md)
	}
	return out, nil
}

func (m *mockCatalogRepo) DeleteMode(ctx context.Context, id uint) error {
	if _, ok := m.modes[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.modes, id)
	return nil
}

// ----- offerings -----

type mockOfferingRepo mockRepository

func (m *mockOfferingRepo) Create(ctx context.Context, offering *models.CourseOffering) error {
	offering.ID = (*mockRepository)(m).id()
	m.offerings[offering.ID] = offering
	return nil
}

func (m *mockOfferingRepo) GetByID(ctx context.Context, id uint) (*models.CourseOffering, error) {
	o, ok := m.offerings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return o, nil
}

func (m *mockOfferingRepo) GetByIDWithDetails(ctx context.Context, id uint) (*models.CourseOffering, error) {
	o, ok := m.offerings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	o.Module = m.modules[o.ModuleID]
	o.Class = m.classes[o.ClassID]
	o.Cohort = m.cohorts[o.CohortID]
	o.Mode = m.modes[o.ModeID]
	o.Facilitator = m.facilitators[o.FacilitatorID]
	return o, nil
}

func (m *mockOfferingRepo) List(ctx context.Context, filters repositories.OfferingFilters) ([]*models.CourseOffering, int64, error) {
	var out []*models.CourseOffering
	for _, o := range m.offerings {
		if filters.FacilitatorID != nil && o.FacilitatorID != *filters.FacilitatorID {
			continue
		}
		if filters.CohortID != nil && o.CohortID != *filters.CohortID {
			continue
		}
		if filters.IsActive != nil && o.IsActive != *filters.IsActive {
			continue
		}
		if filters.Trimester != nil && o.Trimester != *filters.Trimester {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (m *mockOfferingRepo) Update(ctx context.Context, offering *models.CourseOffering) error {
	if _, ok := m.offerings[offering.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.offerings[offering.ID] = offering
	return nil
}

func (m *mockOfferingRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.offerings[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.offerings, id)
	return nil
}

func (m *mockOfferingRepo) ActiveExists(ctx context.Context, key repositories.OfferingKey, excludeID uint) (bool, error) {
	for _, o := range m.offerings {
		if o.ID == excludeID || !o.IsActive {
			continue
		}
		if o.ModuleID == key.ModuleID && o.ClassID == key.ClassID && o.CohortID == key.CohortID &&
			o.Trimester == key.Trimester && o.IntakePeriod == key.IntakePeriod {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOfferingRepo) GetByFacilitator(ctx context.Context, facilitatorID uint, filters repositories.OfferingFilters) ([]*models.CourseOffering, int64, error) {
	filters.FacilitatorID = &facilitatorID
	return m.List(ctx, filters)
}

func (m *mockOfferingRepo) CountByFacilitator(ctx context.Context, facilitatorID uint) (int64, error) {
	var n int64
	for _, o := range m.offerings {
		if o.FacilitatorID == facilitatorID {
			n++
		}
	}
	return n, nil
}

// ----- activities -----

type mockActivityRepo mockRepository

func (m *mockActivityRepo) Upsert(ctx context.Context, activity *models.ActivityTracker, fields []string) (bool, error) {
	if m.failActivityUpsert != nil {
		return false, m.failActivityUpsert
	}
	if m.beforeActivityUpsert != nil {
		hook := m.beforeActivityUpsert
		m.beforeActivityUpsert = nil
		hook((*mockRepository)(m))
	}
	for _, a := range m.activities {
		if a.AllocationID == activity.AllocationID && a.WeekNumber == activity.WeekNumber {
			// Mirrors the postgres conflict clause: only the named
			// columns are assigned, the rest keep the stored values.
			merged := *a
			for _, col := range fields {
				copyTrackerColumn(&merged, activity, col)
			}
			merged.SubmittedAt = activity.SubmittedAt
			activity.ID = a.ID
			m.activities[a.ID] = &merged
			return false, nil
		}
	}
	activity.ID = (*mockRepository)(m).id()
	m.activities[activity.ID] = activity
	return true, nil
}

func copyTrackerColumn(dst, src *models.ActivityTracker, col string) {
	switch col {
	case "attendance":
		dst.Attendance = src.Attendance
	case "formative_one_grading":
		dst.FormativeOneGrading = src.FormativeOneGrading
	case "formative_two_grading":
		dst.FormativeTwoGrading = src.FormativeTwoGrading
	case "summative_grading":
		dst.SummativeGrading = src.SummativeGrading
	case "course_moderation":
		dst.CourseModeration = src.CourseModeration
	case "intranet_sync":
		dst.IntranetSync = src.IntranetSync
	case "grade_book_status":
		dst.GradeBookStatus = src.GradeBookStatus
	case "notes":
		dst.Notes = src.Notes
	case "due_date":
		dst.DueDate = src.DueDate
	}
}

func (m *mockActivityRepo) GetByID(ctx context.Context, id uint) (*models.ActivityTracker, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return a, nil
}

func (m *mockActivityRepo) GetByIDWithOffering(ctx context.Context, id uint) (*models.ActivityTracker, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	a.CourseOffering = m.offerings[a.AllocationID]
	return a, nil
}

func (m *mockActivityRepo) GetByAllocationWeek(ctx context.Context, allocationID uint, week int) (*models.ActivityTracker, error) {
	for _, a := range m.activities {
		if a.AllocationID == allocationID && a.WeekNumber == week {
			return a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockActivityRepo) GetByAllocationWeekForUpdate(ctx context.Context, allocationID uint, week int) (*models.ActivityTracker, error) {
	return m.GetByAllocationWeek(ctx, allocationID, week)
}

func (m *mockActivityRepo) List(ctx context.Context, filters repositories.ActivityFilters) ([]*models.ActivityTracker, int64, error) {
	var out []*models.ActivityTracker
	for _, a := range m.activities {
		if filters.AllocationID != nil && a.AllocationID != *filters.AllocationID {
			continue
		}
		if filters.WeekNumber != nil && a.WeekNumber != *filters.WeekNumber {
			continue
		}
		if filters.FacilitatorID != nil {
			o, ok := m.offerings[a.AllocationID]
			if !ok || o.FacilitatorID != *filters.FacilitatorID {
				continue
			}
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (m *mockActivityRepo) Update(ctx context.Context, activity *models.ActivityTracker) error {
	if _, ok := m.activities[activity.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.activities[activity.ID] = activity
	return nil
}

func (m *mockActivityRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.activities[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.activities, id)
	return nil
}

func (m *mockActivityRepo) CountByAllocation(ctx context.Context, allocationID uint) (int64, error) {
	var n int64
	for _, a := range m.activities {
		if a.AllocationID == allocationID {
			n++
		}
	}
	return n, nil
}

// ----- notifications -----

type mockNotificationRepo mockRepository

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	n.ID = (*mockRepository)(m).id()
	m.notifications[n.ID] = n
	return nil
}

func (m *mockNotificationRepo) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return n, nil
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	var out []*models.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if filters.IsRead != nil && n.IsRead != *filters.IsRead {
			continue
		}
		if filters.Type != nil && n.Type != *filters.Type {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id uint) error {
	n, ok := m.notifications[id]
	if !ok {
		return repositories.ErrNotFound
	}
	n.IsRead = true
	return nil
}
