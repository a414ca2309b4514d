package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"medbridge-api/internal/domain/entity"
	"medbridge-api/internal/domain/repository"
	"medbridge-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeTransactor runs fn directly; fakes ignore the connection. open is
// non-zero while fn runs.
type fakeTransactor struct {
	calls int
	open  int
}

func (t *fakeTransactor) Conn(ctx context.Context) *gorm.DB {
	return nil
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.calls++
	t.open++
	defer func() { t.open-- }()
	return fn(nil)
}

type fakeUserRepo struct {
	users     map[uuid.UUID]*entity.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

type fakeRoleRepo struct{}

func (fakeRoleRepo) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	switch name {
	case entity.RoleAdmin:
		return &entity.Role{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin}, nil
	case entity.RolePatient:
		return &entity.Role{ID: entity.RoleIDPatient, RoleName: entity.RolePatient}, nil
	}
	return nil, nil
}

type fakeProfileRepo struct {
	profiles map[int64]*entity.UserProfile
	users    *fakeUserRepo
	nextID   int64
}

func newFakeProfileRepo(users *fakeUserRepo) *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[int64]*entity.UserProfile{}, users: users}
}

func (f *fakeProfileRepo) add(userID uuid.UUID) *entity.UserProfile {
	p := &entity.UserProfile{UserID: userID, LanguagePreference: entity.LanguageEnglish}
	_ = f.Create(context.Background(), nil, p)
	return p
}

func (f *fakeProfileRepo) withUser(p entity.UserProfile) *entity.UserProfile {
	if f.users != nil {
		if u, ok := f.users.users[p.UserID]; ok {
			c := *u
			p.User = &c
		}
	}
	return &p
}

func (f *fakeProfileRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.UserProfile) error {
	f.nextID++
	profile.ID = f.nextID
	p := *profile
	f.profiles[p.ID] = &p
	return nil
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.UserProfile, error) {
	if p, ok := f.profiles[id]; ok {
		return f.withUser(*p), nil
	}
	return nil, nil
}

func (f *fakeProfileRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.UserProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return f.withUser(*p), nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.UserProfile, error) {
	out := make([]entity.UserProfile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, *f.withUser(*p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, db *gorm.DB, profile *entity.UserProfile) error {
	p := *profile
	p.User = nil
	f.profiles[p.ID] = &p
	return nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	if _, ok := f.profiles[id]; !ok {
		return 0, nil
	}
	delete(f.profiles, id)
	return 1, nil
}

type fakeDoctorRepo struct {
	doctors map[int64]*entity.ChinaDoctor
	nextID  int64
	filter  *entity.DoctorFilter
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: map[int64]*entity.ChinaDoctor{}}
}

func (f *fakeDoctorRepo) add(available bool) *entity.ChinaDoctor {
	d := &entity.ChinaDoctor{
		Name:        "Dr. Li Wei",
		Hospital:    "Peking Union Medical College Hospital",
		Department:  entity.DepartmentCardiology,
		IsAvailable: available,
	}
	_ = f.Create(context.Background(), nil, d)
	return d
}

func (f *fakeDoctorRepo) Create(ctx context.Context, db *gorm.DB, doctor *entity.ChinaDoctor) error {
	f.nextID++
	doctor.ID = f.nextID
	d := *doctor
	f.doctors[d.ID] = &d
	return nil
}

func (f *fakeDoctorRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.ChinaDoctor, error) {
	if d, ok := f.doctors[id]; ok {
		c := *d
		return &c, nil
	}
	return nil, nil
}

func (f *fakeDoctorRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.ChinaDoctor, error) {
	f.filter = filter
	var out []entity.ChinaDoctor
	for _, d := range f.doctors {
		if filter != nil && filter.Department != "" && d.Department != filter.Department {
			continue
		}
		if filter != nil && filter.Available != nil && d.IsAvailable != *filter.Available {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDoctorRepo) Update(ctx context.Context, db *gorm.DB, doctor *entity.ChinaDoctor) error {
	d := *doctor
	f.doctors[d.ID] = &d
	return nil
}

func (f *fakeDoctorRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	if _, ok := f.doctors[id]; !ok {
		return 0, nil
	}
	delete(f.doctors, id)
	return 1, nil
}

type fakeAvailabilityRepo struct {
	windows []entity.DoctorAvailability
	filter  *entity.AvailabilityFilter
}

func (f *fakeAvailabilityRepo) add(doctorID int64, date time.Time, start, end string) {
	f.windows = append(f.windows, entity.DoctorAvailability{
		ID:            int64(len(f.windows) + 1),
		DoctorID:      doctorID,
		AvailableDate: date,
		StartTime:     start,
		EndTime:       end,
	})
}

func (f *fakeAvailabilityRepo) Create(ctx context.Context, db *gorm.DB, window *entity.DoctorAvailability) error {
	window.ID = int64(len(f.windows) + 1)
	f.windows = append(f.windows, *window)
	return nil
}

func (f *fakeAvailabilityRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.DoctorAvailability, error) {
	for i := range f.windows {
		if f.windows[i].ID == id {
			w := f.windows[i]
			return &w, nil
		}
	}
	return nil, nil
}

func (f *fakeAvailabilityRepo) FindByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID int64, date time.Time) ([]entity.DoctorAvailability, error) {
	var out []entity.DoctorAvailability
	for _, w := range f.windows {
		if w.DoctorID == doctorID && w.AvailableDate.Format("2006-01-02") == date.Format("2006-01-02") {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AvailabilityFilter) ([]entity.DoctorAvailability, error) {
	f.filter = filter
	return f.windows, nil
}

func (f *fakeAvailabilityRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	for i := range f.windows {
		if f.windows[i].ID == id {
			f.windows = append(f.windows[:i], f.windows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeConsultationRepo struct {
	items    map[int64]*entity.Consultation
	nextID   int64
	profiles *fakeProfileRepo
	doctors  *fakeDoctorRepo
	saveErr  error
	filter   *entity.ConsultationFilter
}

func newFakeConsultationRepo(profiles *fakeProfileRepo, doctors *fakeDoctorRepo) *fakeConsultationRepo {
	return &fakeConsultationRepo{items: map[int64]*entity.Consultation{}, profiles: profiles, doctors: doctors}
}

func (f *fakeConsultationRepo) add(c entity.Consultation) *entity.Consultation {
	_ = f.Create(context.Background(), nil, &c)
	return &c
}

func (f *fakeConsultationRepo) hydrate(c entity.Consultation) *entity.Consultation {
	c.UserProfile, _ = f.profiles.FindByID(context.Background(), nil, c.UserProfileID)
	c.Doctor, _ = f.doctors.FindByID(context.Background(), nil, c.DoctorID)
	return &c
}

func (f *fakeConsultationRepo) Create(ctx context.Context, db *gorm.DB, c *entity.Consultation) error {
	f.nextID++
	c.ID = f.nextID
	stored := *c
	stored.UserProfile, stored.Doctor, stored.Review = nil, nil, nil
	f.items[c.ID] = &stored
	return nil
}

func (f *fakeConsultationRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Consultation, error) {
	if c, ok := f.items[id]; ok {
		return f.hydrate(*c), nil
	}
	return nil, nil
}

func (f *fakeConsultationRepo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id int64) (*entity.Consultation, error) {
	return f.FindByID(ctx, db, id)
}

func (f *fakeConsultationRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.ConsultationFilter) ([]entity.Consultation, error) {
	f.filter = filter
	var out []entity.Consultation
	for _, c := range f.items {
		h := f.hydrate(*c)
		if filter != nil && filter.OwnerUserID != nil && (h.UserProfile == nil || h.UserProfile.UserID != *filter.OwnerUserID) {
			continue
		}
		if filter != nil && filter.Status != "" && h.Status != filter.Status {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeConsultationRepo) Save(ctx context.Context, db *gorm.DB, c *entity.Consultation) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	stored := *c
	stored.UserProfile, stored.Doctor, stored.Review = nil, nil, nil
	f.items[c.ID] = &stored
	return nil
}

func (f *fakeConsultationRepo) ExistsConfirmedAt(ctx context.Context, db *gorm.DB, doctorID int64, at time.Time, excludeID int64) (bool, error) {
	for _, c := range f.items {
		if c.ID == excludeID || c.DoctorID != doctorID || c.ScheduledAt == nil {
			continue
		}
		if c.Status == entity.ConsultationStatusConfirmed && c.ScheduledAt.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConsultationRepo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	if _, ok := f.items[id]; !ok {
		return 0, nil
	}
	delete(f.items, id)
	return 1, nil
}

type fakeReviewRepo struct {
	reviews   []entity.DoctorReview
	createErr error
	doctorOf  func(consultationID int64) int64
}

func (f *fakeReviewRepo) Create(ctx context.Context, db *gorm.DB, review *entity.DoctorReview) error {
	if f.createErr != nil {
		return f.createErr
	}
	review.ID = int64(len(f.reviews) + 1)
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeReviewRepo) ExistsForConsultation(ctx context.Context, db *gorm.DB, consultationID int64) (bool, error) {
	for _, r := range f.reviews {
		if r.ConsultationID == consultationID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID int64) ([]entity.DoctorReview, error) {
	var out []entity.DoctorReview
	for _, r := range f.reviews {
		if f.doctorOf == nil || f.doctorOf(r.ConsultationID) == doctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	logs []entity.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	log.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeAuditRepo) FindAll(ctx context.Context, db *gorm.DB, action string, limit int) ([]entity.AuditLog, error) {
	var out []entity.AuditLog
	for _, l := range f.logs {
		if action == "" || l.Action == action {
			out = append(out, l)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	for i := range f.logs {
		if f.logs[i].ID == id {
			l := f.logs[i]
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeAuditRepo) actions() []string {
	out := make([]string, len(f.logs))
	for i, l := range f.logs {
		out[i] = l.Action
	}
	return out
}

type fakeTokenRepo struct {
	tokens map[string]bool
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]bool{}}
}

func tokenKey(kind repository.TokenKind, userID uuid.UUID, tokenID string) string {
	return string(kind) + ":" + userID.String() + ":" + tokenID
}

func (f *fakeTokenRepo) Store(ctx context.Context, kind repository.TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	f.tokens[tokenKey(kind, userID, tokenID)] = true
	return nil
}

func (f *fakeTokenRepo) Exists(ctx context.Context, kind repository.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	return f.tokens[tokenKey(kind, userID, tokenID)], nil
}

func (f *fakeTokenRepo) Revoke(ctx context.Context, kind repository.TokenKind, userID uuid.UUID, tokenID string) error {
	delete(f.tokens, tokenKey(kind, userID, tokenID))
	return nil
}

func (f *fakeTokenRepo) count(kind repository.TokenKind) int {
	n := 0
	for key := range f.tokens {
		if len(key) > len(kind) && key[:len(kind)] == string(kind) {
			n++
		}
	}
	return n
}

// fakeSlotLocker grants every lock unless busy is set. When tx is set it
// records whether a transaction was open at acquire or release time.
type fakeSlotLocker struct {
	busy         bool
	locks        []string
	tx           *fakeTransactor
	overlappedTx bool
}

func (f *fakeSlotLocker) WithSlotLock(ctx context.Context, doctorID int64, at time.Time, fn func(ctx context.Context) error) error {
	if f.busy {
		return service.ErrSlotBeingBooked
	}
	f.locks = append(f.locks, service.SlotLockKey(doctorID, at))
	if f.tx != nil && f.tx.open > 0 {
		f.overlappedTx = true
	}
	err := fn(ctx)
	if f.tx != nil && f.tx.open > 0 {
		f.overlappedTx = true
	}
	return err
}

type statusNotice struct {
	consultationID int64
	recipient      string
	from           entity.ConsultationStatus
	to             entity.ConsultationStatus
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []statusNotice
}

func (f *fakeNotifier) NotifyStatusChange(c *entity.Consultation, recipient *entity.User, from entity.ConsultationStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := statusNotice{consultationID: c.ID, from: from, to: c.Status}
	if recipient != nil {
		n.recipient = recipient.Email
	}
	f.notices = append(f.notices, n)
}
