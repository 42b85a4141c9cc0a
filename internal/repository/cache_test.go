package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/cache"
	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
	"github.com/clinica-io/clinica-api/pkg/metrics"
)

func newTestCache() *cache.Cache {
	m := metrics.NewCollectorWith(prometheus.NewRegistry(), "test")
	return cache.New(cache.NewMemory(), time.Minute, zap.NewNop(), m)
}

// doctorStoreStub counts reads so the tests can tell a cache hit from a
// read-through to the inner repository.
type doctorStoreStub struct {
	byID  map[uuid.UUID]*doctor.Doctor
	reads int
	lists int
}

func newDoctorStoreStub() *doctorStoreStub {
	return &doctorStoreStub{byID: make(map[uuid.UUID]*doctor.Doctor)}
}

func (s *doctorStoreStub) Create(_ context.Context, d *doctor.Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	s.byID[d.ID] = &cp
	return nil
}

func (s *doctorStoreStub) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	s.reads++
	d, ok := s.byID[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *doctorStoreStub) GetByDocument(_ context.Context, document string) (*doctor.Doctor, error) {
	s.reads++
	for _, d := range s.byID {
		if d.PersonalInformation.Document == document {
			cp := *d
			return &cp, nil
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

func (s *doctorStoreStub) List(_ context.Context, page domain.PageRequest) (*doctor.PagedDoctors, error) {
	s.lists++
	out := make([]*doctor.Doctor, 0, len(s.byID))
	for _, d := range s.byID {
		cp := *d
		out = append(out, &cp)
	}
	return &doctor.PagedDoctors{
		Doctors:    out,
		TotalCount: int64(len(out)),
		Page:       page.Page,
		PageSize:   page.Size,
		TotalPages: 1,
	}, nil
}

func (s *doctorStoreStub) Save(_ context.Context, d *doctor.Doctor) error {
	cp := *d
	s.byID[d.ID] = &cp
	return nil
}

type patientStoreStub struct {
	byID  map[uuid.UUID]*patient.Patient
	reads int
}

func newPatientStoreStub() *patientStoreStub {
	return &patientStoreStub{byID: make(map[uuid.UUID]*patient.Patient)}
}

func (s *patientStoreStub) Create(_ context.Context, p *patient.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *patientStoreStub) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	s.reads++
	p, ok := s.byID[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *patientStoreStub) GetByDocument(_ context.Context, document string) (*patient.Patient, error) {
	s.reads++
	for _, p := range s.byID {
		if p.PersonalInformation.Document == document {
			cp := *p
			return &cp, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (s *patientStoreStub) List(_ context.Context, page domain.PageRequest) (*patient.PagedPatients, error) {
	out := make([]*patient.Patient, 0, len(s.byID))
	for _, p := range s.byID {
		cp := *p
		out = append(out, &cp)
	}
	return &patient.PagedPatients{
		Patients:   out,
		TotalCount: int64(len(out)),
		Page:       page.Page,
		PageSize:   page.Size,
		TotalPages: 1,
	}, nil
}

func (s *patientStoreStub) Save(_ context.Context, p *patient.Patient) error {
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func seedDoctor(t *testing.T, s *doctorStoreStub, name, document string) *doctor.Doctor {
	t.Helper()
	d := &doctor.Doctor{State: domain.StateActive}
	d.PersonalInformation.Name = name
	d.PersonalInformation.Document = document
	if err := s.Create(context.Background(), d); err != nil {
		t.Fatalf("seeding doctor: %v", err)
	}
	return d
}

func TestCachedDoctorRepositoryServesRepeatReadsFromCache(t *testing.T) {
	store := newDoctorStoreStub()
	repo := NewCachedDoctorRepository(store, newTestCache())
	ctx := context.Background()

	d := seedDoctor(t, store, "Ana", "11111111H")

	first, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	second, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID (cached): %v", err)
	}

	if store.reads != 1 {
		t.Errorf("inner reads = %d, want 1", store.reads)
	}
	if first.PersonalInformation.Name != "Ana" {
		t.Errorf("first read Name = %q, want Ana", first.PersonalInformation.Name)
	}
	if second.PersonalInformation.Name != "Ana" {
		t.Errorf("cached read Name = %q, want Ana", second.PersonalInformation.Name)
	}
}

func TestCachedDoctorRepositorySaveStrandsCachedReads(t *testing.T) {
	store := newDoctorStoreStub()
	repo := NewCachedDoctorRepository(store, newTestCache())
	ctx := context.Background()

	d := seedDoctor(t, store, "Ana", "11111111H")

	if _, err := repo.GetByID(ctx, d.ID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	d.PersonalInformation.Name = "Ana Maria"
	if err := repo.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID after Save: %v", err)
	}
	if got.PersonalInformation.Name != "Ana Maria" {
		t.Errorf("Name after Save = %q, want Ana Maria (stale cache entry served)", got.PersonalInformation.Name)
	}
	if store.reads != 2 {
		t.Errorf("inner reads = %d, want 2 (Save must strand the cached entry)", store.reads)
	}
}

func TestCachedDoctorRepositoryCreateStrandsCachedLists(t *testing.T) {
	store := newDoctorStoreStub()
	repo := NewCachedDoctorRepository(store, newTestCache())
	ctx := context.Background()

	seedDoctor(t, store, "Ana", "11111111H")
	page := domain.PageRequest{Page: 1, Size: 10}

	if _, err := repo.List(ctx, page); err != nil {
		t.Fatalf("List: %v", err)
	}

	newcomer := &doctor.Doctor{State: domain.StateActive}
	newcomer.PersonalInformation.Name = "Luis"
	newcomer.PersonalInformation.Document = "22222222J"
	if err := repo.Create(ctx, newcomer); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.List(ctx, page)
	if err != nil {
		t.Fatalf("List after Create: %v", err)
	}
	if got.TotalCount != 2 {
		t.Errorf("TotalCount after Create = %d, want 2 (stale page served)", got.TotalCount)
	}
	if store.lists != 2 {
		t.Errorf("inner lists = %d, want 2 (Create must strand cached pages)", store.lists)
	}
}

func TestCachedRepositoriesInvalidatePerEntity(t *testing.T) {
	shared := newTestCache()
	doctorStore := newDoctorStoreStub()
	patientStore := newPatientStoreStub()
	doctors := NewCachedDoctorRepository(doctorStore, shared)
	patients := NewCachedPatientRepository(patientStore, shared)
	ctx := context.Background()

	d := seedDoctor(t, doctorStore, "Ana", "11111111H")
	p := &patient.Patient{State: domain.StateActive}
	p.PersonalInformation.Name = "Luis"
	p.PersonalInformation.Document = "22222222J"
	if err := patientStore.Create(ctx, p); err != nil {
		t.Fatalf("seeding patient: %v", err)
	}

	if _, err := doctors.GetByID(ctx, d.ID); err != nil {
		t.Fatalf("doctor GetByID: %v", err)
	}
	if _, err := patients.GetByID(ctx, p.ID); err != nil {
		t.Fatalf("patient GetByID: %v", err)
	}

	if err := doctors.Save(ctx, d); err != nil {
		t.Fatalf("doctor Save: %v", err)
	}

	if _, err := doctors.GetByID(ctx, d.ID); err != nil {
		t.Fatalf("doctor GetByID after Save: %v", err)
	}
	if _, err := patients.GetByID(ctx, p.ID); err != nil {
		t.Fatalf("patient GetByID after doctor Save: %v", err)
	}

	if doctorStore.reads != 2 {
		t.Errorf("doctor inner reads = %d, want 2 (Save must strand doctor entries)", doctorStore.reads)
	}
	if patientStore.reads != 1 {
		t.Errorf("patient inner reads = %d, want 1 (doctor Save must not touch patients)", patientStore.reads)
	}
}
