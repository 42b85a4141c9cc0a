package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
)

func newTestPatient(document string) *patient.Patient {
	p := &patient.Patient{SSNumber: "281234567890", Height: 1.75, Weight: 70}
	p.PersonalInformation.Name = "Luis"
	p.PersonalInformation.Surname = "Pérez"
	p.PersonalInformation.IDDocument = domain.DocumentDNI
	p.PersonalInformation.Document = document
	return p
}

func TestCreatePatientEmitsCreatedEvent(t *testing.T) {
	notifier := &notifierMock{}
	svc := NewPatientService(newPatientRepoMock(), notifier, zap.NewNop())

	created, err := svc.CreatePatient(context.Background(), newTestPatient("22222222J"))
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	calls := notifier.recorded()
	if len(calls) != 1 {
		t.Fatalf("notifier received %d calls, want 1", len(calls))
	}
	if calls[0].action != "created" || calls[0].entity != domain.EntityPatient {
		t.Errorf("call = %+v, want patient created", calls[0])
	}
	if calls[0].key != created.ID.String() {
		t.Errorf("event key = %q, want the assigned id %s", calls[0].key, created.ID)
	}
}

func TestCreatePatientValidationFailureEmitsNothing(t *testing.T) {
	notifier := &notifierMock{}
	svc := NewPatientService(newPatientRepoMock(), notifier, zap.NewNop())

	_, err := svc.CreatePatient(context.Background(), &patient.Patient{})

	var validErr *ValidationError
	if !errors.As(err, &validErr) {
		t.Fatalf("CreatePatient = %v, want ValidationError", err)
	}
	if len(notifier.recorded()) != 0 {
		t.Error("failed create still notified")
	}
}

func TestPatchPatientEmptyPatchIsSilent(t *testing.T) {
	repo := newPatientRepoMock()
	notifier := &notifierMock{}
	svc := NewPatientService(repo, notifier, zap.NewNop())

	created, err := svc.CreatePatient(context.Background(), newTestPatient("22222222J"))
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	saves := repo.saves
	calls := len(notifier.recorded())

	if _, err := svc.PatchPatient(context.Background(), created.ID, &patient.UpdatePatientCommand{}); err != nil {
		t.Fatalf("PatchPatient: %v", err)
	}

	if repo.saves != saves {
		t.Error("empty patch wrote to the store")
	}
	if len(notifier.recorded()) != calls {
		t.Error("empty patch emitted an event")
	}
}

func TestPatchPatientEmitsModified(t *testing.T) {
	notifier := &notifierMock{}
	svc := NewPatientService(newPatientRepoMock(), notifier, zap.NewNop())

	created, err := svc.CreatePatient(context.Background(), newTestPatient("22222222J"))
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	weight := 74.0
	updated, err := svc.PatchPatient(context.Background(), created.ID, &patient.UpdatePatientCommand{Weight: &weight})
	if err != nil {
		t.Fatalf("PatchPatient: %v", err)
	}
	if updated.Weight != 74.0 {
		t.Errorf("Weight = %v, want 74", updated.Weight)
	}

	calls := notifier.recorded()
	if len(calls) != 2 || calls[1].action != "modified" {
		t.Errorf("calls = %+v, want created then modified", calls)
	}
}

func TestDeletePatientEmitsDeletedOnce(t *testing.T) {
	notifier := &notifierMock{}
	svc := NewPatientService(newPatientRepoMock(), notifier, zap.NewNop())

	created, err := svc.CreatePatient(context.Background(), newTestPatient("22222222J"))
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	if err := svc.DeletePatient(context.Background(), created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.DeletePatient(context.Background(), created.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	deleted := 0
	for _, call := range notifier.recorded() {
		if call.action == "deleted" {
			deleted++
		}
	}
	if deleted != 1 {
		t.Errorf("deleted events = %d, want exactly 1", deleted)
	}
}
