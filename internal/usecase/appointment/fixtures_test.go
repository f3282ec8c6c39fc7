package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/appointment"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/realtime"
	"github.com/BruksfildServices01/barberbook/internal/session"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

var tashkent = time.FixedZone("UZT", 5*3600)

const (
	shopID    uint = 1
	barberID  uint = 10
	otherID   uint = 11
	ownerID   uint = 20
	clientID  uint = 30
	haircutID uint = 100
	beardID   uint = 101
)

var (
	barberSession = session.Session{UserID: barberID, BarbershopID: shopID, Role: session.RoleBarber}
	ownerSession  = session.Session{UserID: ownerID, BarbershopID: shopID, Role: session.RoleOwner}
	clientSession = session.Session{UserID: clientID, Role: session.RoleClient}
)

// memRepo is an in-memory Repository. InsertAppointment enforces the same
// overlap rule as the postgres store, under a mutex.
type memRepo struct {
	mu sync.Mutex

	barbers  map[uint]models.User
	services map[uint][]models.BarberService
	hours    map[uint]map[int]models.WorkingHours
	apps     []models.Appointment
	nextID   uint

	// Injected failures.
	readErr     error
	getApptErr  error
	updateErr   error
	blockReads  bool
	insertCalls int
}

var _ domain.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	shop := shopID
	other := uint(2)
	return &memRepo{
		barbers: map[uint]models.User{
			barberID: {ID: barberID, Name: "Rustam", Role: "barber", BarbershopID: &shop},
			otherID:  {ID: otherID, Name: "Jasur", Role: "barber", BarbershopID: &other},
			ownerID:  {ID: ownerID, Name: "Owner", Role: "owner", BarbershopID: &shop},
			clientID: {ID: clientID, Name: "Aziz", Role: "client"},
		},
		services: map[uint][]models.BarberService{
			barberID: {
				{ID: haircutID, BarberID: barberID, Name: "Haircut", DurationMin: 30, Price: 80000, Active: true},
				{ID: beardID, BarberID: barberID, Name: "Beard", DurationMin: 15, Price: 40000, Active: true},
			},
		},
		hours:  map[uint]map[int]models.WorkingHours{},
		nextID: 1,
	}
}

func (r *memRepo) setHours(barber uint, weekday int, start, end string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hours[barber] == nil {
		r.hours[barber] = map[int]models.WorkingHours{}
	}
	r.hours[barber][weekday] = models.WorkingHours{BarberID: barber, Weekday: weekday, StartTime: start, EndTime: end, Active: active}
}

func (r *memRepo) seed(ap models.Appointment) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap.ID = r.nextID
	r.nextID++
	if ap.BarbershopID == 0 {
		ap.BarbershopID = shopID
	}
	r.apps = append(r.apps, ap)
	return ap.ID
}

func (r *memRepo) status(id uint) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.apps {
		if ap.ID == id {
			return ap.Status
		}
	}
	return ""
}

func (r *memRepo) read(ctx context.Context) error {
	if r.blockReads {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.readErr
}

func (r *memRepo) GetBarber(ctx context.Context, id uint) (*models.User, error) {
	if err := r.read(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.barbers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memRepo) GetBarberServices(ctx context.Context, id uint) ([]models.BarberService, error) {
	if err := r.read(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.BarberService(nil), r.services[id]...), nil
}

func (r *memRepo) GetWorkingHours(ctx context.Context, id uint, weekday int) (*models.WorkingHours, error) {
	if err := r.read(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	wh, ok := r.hours[id][weekday]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (r *memRepo) ListWorkingHours(ctx context.Context, id uint) ([]models.WorkingHours, error) {
	if err := r.read(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WorkingHours
	for day := 0; day < 7; day++ {
		if wh, ok := r.hours[id][day]; ok {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (r *memRepo) UpsertWorkingHours(ctx context.Context, id uint, days []models.WorkingHours) error {
	if err := r.read(ctx); err != nil {
		return err
	}
	for _, d := range days {
		r.setHours(id, d.Weekday, d.StartTime, d.EndTime, d.Active)
	}
	return nil
}

func (r *memRepo) ListAppointments(ctx context.Context, id uint, date string) ([]models.Appointment, error) {
	return r.filter(ctx, func(ap models.Appointment) bool {
		return ap.BarberID == id && ap.AppointmentDate == date
	})
}

func (r *memRepo) ListAppointmentsInRange(ctx context.Context, id uint, from, to string) ([]models.Appointment, error) {
	return r.filter(ctx, func(ap models.Appointment) bool {
		return ap.BarberID == id && ap.AppointmentDate >= from && ap.AppointmentDate <= to
	})
}

func (r *memRepo) ListClientAppointments(ctx context.Context, id uint) ([]models.Appointment, error) {
	return r.filter(ctx, func(ap models.Appointment) bool {
		return ap.ClientID != nil && *ap.ClientID == id
	})
}

func (r *memRepo) filter(ctx context.Context, keep func(models.Appointment) bool) ([]models.Appointment, error) {
	if err := r.read(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.apps {
		if keep(ap) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *memRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	if r.getApptErr != nil {
		return nil, r.getApptErr
	}
	if err := r.read(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.apps {
		if ap.ID != id {
			continue
		}
		ap.Barber = r.barbers[ap.BarberID]
		ap.Barbershop = models.Barbershop{ID: ap.BarbershopID, Name: "Main Street"}
		if ap.ClientID != nil {
			c := r.barbers[*ap.ClientID]
			ap.Client = &c
		}
		return &ap, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) InsertAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertCalls++

	candidate, ok := domain.Occupied(ap, tashkent)
	if !ok {
		return errors.New("invalid appointment time")
	}
	var sameDay []models.Appointment
	for _, ex := range r.apps {
		if ex.BarberID == ap.BarberID && ex.AppointmentDate == ap.AppointmentDate {
			sameDay = append(sameDay, ex)
		}
	}
	if domain.ConflictsWith(candidate, domain.BlockingIntervals(sameDay, tashkent)) {
		return domain.ErrSlotTaken
	}

	ap.ID = r.nextID
	r.nextID++
	ap.CreatedAt = time.Now()
	r.apps = append(r.apps, *ap)
	return nil
}

func (r *memRepo) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment, from domain.Status) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.apps {
		if r.apps[i].ID != ap.ID {
			continue
		}
		if r.apps[i].Status != string(from) {
			return domain.ErrStaleStatus
		}
		r.apps[i].Status = ap.Status
		r.apps[i].ConfirmedAt = ap.ConfirmedAt
		r.apps[i].CancelledAt = ap.CancelledAt
		r.apps[i].CompletedAt = ap.CompletedAt
		return nil
	}
	return domain.ErrStaleStatus
}

// ======================================================
// Wiring
// ======================================================

type nopSink struct{}

func (nopSink) Write(context.Context, audit.Event) error { return nil }

func testSchedule(now time.Time) Schedule {
	return Schedule{
		Clock:          timezone.Clock{Loc: tashkent, NowFunc: func() time.Time { return now }},
		Hours:          domain.DefaultHours{Start: "09:00", End: "20:00"},
		StorageTimeout: time.Second,
	}
}

type harness struct {
	repo  *memRepo
	sched Schedule
	hub   *realtime.Hub
	audit *audit.Dispatcher
	log   *zap.Logger
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()
	h := &harness{
		repo:  newMemRepo(),
		sched: testSchedule(now),
		hub:   realtime.NewHub(),
		audit: audit.NewDispatcher(nopSink{}, zap.NewNop()),
		log:   zap.NewNop(),
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = h.audit.Close(ctx)
		h.hub.Close()
	})
	return h
}

func at(date string, clock string) time.Time {
	t, err := timezone.ParseDateTime(date, clock, tashkent)
	if err != nil {
		panic(err)
	}
	return t
}

func booked(date, clock string, minutes int, status domain.Status) models.Appointment {
	cid := clientID
	return models.Appointment{
		BarberID:        barberID,
		ClientID:        &cid,
		AppointmentDate: date,
		AppointmentTime: clock,
		Status:          string(status),
		Services:        domain.EncodeServices([]domain.ServiceItem{{Name: "Haircut", Duration: minutes}}),
	}
}

func clocks(slots []domain.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.Format("15:04"))
	}
	return out
}
