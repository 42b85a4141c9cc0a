package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/appointment"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
)

// The mock repositories copy records on the way in and out so callers see
// value semantics, as they would against Postgres.

type doctorRepoMock struct {
	mu      sync.Mutex
	records map[uuid.UUID]*doctor.Doctor
	order   []uuid.UUID
	saves   int
}

func newDoctorRepoMock() *doctorRepoMock {
	return &doctorRepoMock{records: make(map[uuid.UUID]*doctor.Doctor)}
}

func cloneDoctor(d *doctor.Doctor) *doctor.Doctor {
	c := *d
	c.AppointmentIDs = append([]uuid.UUID(nil), d.AppointmentIDs...)
	c.Specializations = append([]string(nil), d.Specializations...)
	return &c
}

func (r *doctorRepoMock) Create(_ context.Context, d *doctor.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.New()
	r.records[d.ID] = cloneDoctor(d)
	r.order = append(r.order, d.ID)
	return nil
}

func (r *doctorRepoMock) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.records[id]
	if !ok || !d.IsActive() {
		return nil, doctor.ErrDoctorNotFound
	}
	return cloneDoctor(d), nil
}

func (r *doctorRepoMock) GetByDocument(_ context.Context, document string) (*doctor.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		d := r.records[id]
		if d.IsActive() && d.PersonalInformation.Document == document {
			return cloneDoctor(d), nil
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

func (r *doctorRepoMock) List(_ context.Context, page domain.PageRequest) (*doctor.PagedDoctors, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page = page.Normalize()

	var live []*doctor.Doctor
	for _, id := range r.order {
		if d := r.records[id]; d.IsActive() {
			live = append(live, cloneDoctor(d))
		}
	}
	return &doctor.PagedDoctors{
		Doctors:    pageSlice(live, page),
		TotalCount: int64(len(live)),
		Page:       page.Page,
		PageSize:   page.Size,
		TotalPages: pages(len(live), page.Size),
	}, nil
}

func (r *doctorRepoMock) Save(_ context.Context, d *doctor.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[d.ID] = cloneDoctor(d)
	r.saves++
	return nil
}

// stored returns the repository's copy, bypassing the live-only filter.
func (r *doctorRepoMock) stored(id uuid.UUID) *doctor.Doctor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneDoctor(r.records[id])
}

type patientRepoMock struct {
	mu      sync.Mutex
	records map[uuid.UUID]*patient.Patient
	order   []uuid.UUID
	saves   int
}

func newPatientRepoMock() *patientRepoMock {
	return &patientRepoMock{records: make(map[uuid.UUID]*patient.Patient)}
}

func clonePatient(p *patient.Patient) *patient.Patient {
	c := *p
	c.AppointmentIDs = append([]uuid.UUID(nil), p.AppointmentIDs...)
	return &c
}

func (r *patientRepoMock) Create(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	r.records[p.ID] = clonePatient(p)
	r.order = append(r.order, p.ID)
	return nil
}

func (r *patientRepoMock) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[id]
	if !ok || !p.IsActive() {
		return nil, patient.ErrPatientNotFound
	}
	return clonePatient(p), nil
}

func (r *patientRepoMock) GetByDocument(_ context.Context, document string) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		p := r.records[id]
		if p.IsActive() && p.PersonalInformation.Document == document {
			return clonePatient(p), nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (r *patientRepoMock) List(_ context.Context, page domain.PageRequest) (*patient.PagedPatients, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page = page.Normalize()

	var live []*patient.Patient
	for _, id := range r.order {
		if p := r.records[id]; p.IsActive() {
			live = append(live, clonePatient(p))
		}
	}
	return &patient.PagedPatients{
		Patients:   pageSlice(live, page),
		TotalCount: int64(len(live)),
		Page:       page.Page,
		PageSize:   page.Size,
		TotalPages: pages(len(live), page.Size),
	}, nil
}

func (r *patientRepoMock) Save(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[p.ID] = clonePatient(p)
	r.saves++
	return nil
}

func (r *patientRepoMock) stored(id uuid.UUID) *patient.Patient {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clonePatient(r.records[id])
}

type appointmentRepoMock struct {
	mu      sync.Mutex
	records map[uuid.UUID]*appointment.Appointment
	order   []uuid.UUID
}

func newAppointmentRepoMock() *appointmentRepoMock {
	return &appointmentRepoMock{records: make(map[uuid.UUID]*appointment.Appointment)}
}

func cloneAppointment(a *appointment.Appointment) *appointment.Appointment {
	c := *a
	return &c
}

func (r *appointmentRepoMock) Create(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	r.records[a.ID] = cloneAppointment(a)
	r.order = append(r.order, a.ID)
	return nil
}

func (r *appointmentRepoMock) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok || !a.IsActive() {
		return nil, appointment.ErrAppointmentNotFound
	}
	return cloneAppointment(a), nil
}

func (r *appointmentRepoMock) List(_ context.Context, q appointment.ListQuery) (*appointment.PagedAppointments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page := q.Page.Normalize()

	var live []*appointment.Appointment
	for _, id := range r.order {
		a := r.records[id]
		if !a.IsActive() {
			continue
		}
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		live = append(live, cloneAppointment(a))
	}
	return &appointment.PagedAppointments{
		Appointments: pageSlice(live, page),
		TotalCount:   int64(len(live)),
		Page:         page.Page,
		PageSize:     page.Size,
		TotalPages:   pages(len(live), page.Size),
	}, nil
}

func (r *appointmentRepoMock) Save(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[a.ID] = cloneAppointment(a)
	return nil
}

func (r *appointmentRepoMock) stored(id uuid.UUID) *appointment.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAppointment(r.records[id])
}

func pageSlice[T any](items []T, page domain.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func pages(total, size int) int {
	if size <= 0 {
		return 0
	}
	p := total / size
	if total%size != 0 {
		p++
	}
	return p
}

type notifierCall struct {
	action string
	entity domain.EntityType
	key    string
}

type notifierMock struct {
	mu    sync.Mutex
	calls []notifierCall
}

func (n *notifierMock) Created(_ context.Context, entity domain.EntityType, key string, _ any) {
	n.record("created", entity, key)
}

func (n *notifierMock) Modified(_ context.Context, entity domain.EntityType, key string, _ any) {
	n.record("modified", entity, key)
}

func (n *notifierMock) Deleted(_ context.Context, entity domain.EntityType, key string, _ any) {
	n.record("deleted", entity, key)
}

func (n *notifierMock) record(action string, entity domain.EntityType, key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifierCall{action: action, entity: entity, key: key})
}

func (n *notifierMock) recorded() []notifierCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifierCall(nil), n.calls...)
}
