package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/appointment"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
	"github.com/clinica-io/clinica-api/internal/events"
	"github.com/clinica-io/clinica-api/internal/service"
	"github.com/clinica-io/clinica-api/pkg/metrics"
)

// Empty-store stubs; enough to exercise the transport contract.

type doctorRepoStub struct{}

func (doctorRepoStub) Create(_ context.Context, d *doctor.Doctor) error {
	d.ID = uuid.New()
	return nil
}
func (doctorRepoStub) GetByID(context.Context, uuid.UUID) (*doctor.Doctor, error) {
	return nil, doctor.ErrDoctorNotFound
}
func (doctorRepoStub) GetByDocument(context.Context, string) (*doctor.Doctor, error) {
	return nil, doctor.ErrDoctorNotFound
}
func (doctorRepoStub) List(_ context.Context, page domain.PageRequest) (*doctor.PagedDoctors, error) {
	page = page.Normalize()
	return &doctor.PagedDoctors{Page: page.Page, PageSize: page.Size}, nil
}
func (doctorRepoStub) Save(context.Context, *doctor.Doctor) error { return nil }

type patientRepoStub struct{}

func (patientRepoStub) Create(_ context.Context, p *patient.Patient) error {
	p.ID = uuid.New()
	return nil
}
func (patientRepoStub) GetByID(context.Context, uuid.UUID) (*patient.Patient, error) {
	return nil, patient.ErrPatientNotFound
}
func (patientRepoStub) GetByDocument(context.Context, string) (*patient.Patient, error) {
	return nil, patient.ErrPatientNotFound
}
func (patientRepoStub) List(_ context.Context, page domain.PageRequest) (*patient.PagedPatients, error) {
	page = page.Normalize()
	return &patient.PagedPatients{Page: page.Page, PageSize: page.Size}, nil
}
func (patientRepoStub) Save(context.Context, *patient.Patient) error { return nil }

type appointmentRepoStub struct{}

func (appointmentRepoStub) Create(_ context.Context, a *appointment.Appointment) error {
	a.ID = uuid.New()
	return nil
}
func (appointmentRepoStub) GetByID(context.Context, uuid.UUID) (*appointment.Appointment, error) {
	return nil, appointment.ErrAppointmentNotFound
}
func (appointmentRepoStub) List(_ context.Context, q appointment.ListQuery) (*appointment.PagedAppointments, error) {
	page := q.Page.Normalize()
	return &appointment.PagedAppointments{Page: page.Page, PageSize: page.Size}, nil
}
func (appointmentRepoStub) Save(context.Context, *appointment.Appointment) error { return nil }

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	doctorSvc := service.NewDoctorService(doctorRepoStub{}, log)
	patientSvc := service.NewPatientService(patientRepoStub{}, events.Nop{}, log)
	appointmentSvc := service.NewAppointmentService(appointmentRepoStub{}, doctorSvc, patientSvc, events.Nop{}, log)

	return NewRouter(RouterConfig{
		Doctors:      NewDoctorHandler(doctorSvc),
		Patients:     NewPatientHandler(patientSvc),
		Appointments: NewAppointmentHandler(appointmentSvc),
		Log:          log,
		Metrics:      metrics.NewCollectorWith(prometheus.NewRegistry(), "test"),
		Env:          "test",
		Version:      "test",
	})
}

func doRequest(t *testing.T, router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListRejectsPageSizeOverMaximum(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{
		"/api/v1/doctors?size=100",
		"/api/v1/patients?size=100",
		"/api/v1/appointments?size=100",
	} {
		if rec := doRequest(t, router, http.MethodGet, path); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", path, rec.Code)
		}
	}
}

func TestListAcceptsMaximumPageSize(t *testing.T) {
	router := newTestRouter()

	if rec := doRequest(t, router, http.MethodGet, "/api/v1/doctors?size=99"); rec.Code != http.StatusOK {
		t.Errorf("GET size=99 = %d, want 200", rec.Code)
	}
}

func TestGetUnknownDoctorReturns404(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/doctors/"+uuid.NewString())
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetMalformedIDReturns400(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/doctors/not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDocumentLookupRoutes(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/documents/doctors/11111111H")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown document lookup = %d, want 404", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/documents/patients/22222222J/appointments")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown patient appointments = %d, want 404", rec.Code)
	}
}

func TestDeleteUnknownAppointmentIsNoContent(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/appointments/"+uuid.NewString())
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestHealthLiveness(t *testing.T) {
	router := newTestRouter()

	if rec := doRequest(t, router, http.MethodGet, "/health/live"); rec.Code != http.StatusOK {
		t.Errorf("liveness = %d, want 200", rec.Code)
	}
}
