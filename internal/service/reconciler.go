package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/appointment"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
	"github.com/clinica-io/clinica-api/pkg/metrics"
)

// Reconciler sweeps the back-reference lists into agreement with the live
// appointments. It re-links appointments missing from their owner's list and
// prunes ids whose appointment is deleted or gone. The sweep reads the store
// directly; a concurrent writer may race one pass, the next pass settles it.
type Reconciler struct {
	doctors      doctor.Repository
	patients     patient.Repository
	appointments appointment.Repository
	log          *zap.Logger
	metrics      *metrics.Collector
	pageSize     int
}

func NewReconciler(doctors doctor.Repository, patients patient.Repository, appointments appointment.Repository, pageSize int, log *zap.Logger, m *metrics.Collector) *Reconciler {
	if pageSize <= 0 || pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}
	return &Reconciler{
		doctors:      doctors,
		patients:     patients,
		appointments: appointments,
		log:          log,
		metrics:      m,
		pageSize:     pageSize,
	}
}

// RunReport summarizes one sweep.
type RunReport struct {
	Appointments int
	Doctors      int
	Patients     int
	Relinked     int
	Pruned       int
}

func (r *Reconciler) Run(ctx context.Context) (*RunReport, error) {
	byDoctor, byPatient, total, err := r.collectLive(ctx)
	if err != nil {
		return nil, err
	}

	report := &RunReport{Appointments: total}

	doctors, relinked, pruned, err := r.sweepDoctors(ctx, byDoctor)
	if err != nil {
		return nil, err
	}
	report.Doctors = doctors
	report.Relinked += relinked
	report.Pruned += pruned

	patients, relinked, pruned, err := r.sweepPatients(ctx, byPatient)
	if err != nil {
		return nil, err
	}
	report.Patients = patients
	report.Relinked += relinked
	report.Pruned += pruned

	r.log.Info("reconciliation sweep finished",
		zap.Int("appointments", report.Appointments),
		zap.Int("doctors", report.Doctors),
		zap.Int("patients", report.Patients),
		zap.Int("relinked", report.Relinked),
		zap.Int("pruned", report.Pruned),
	)
	return report, nil
}

// collectLive indexes every live appointment id by its doctor and patient.
func (r *Reconciler) collectLive(ctx context.Context) (map[uuid.UUID][]uuid.UUID, map[uuid.UUID][]uuid.UUID, int, error) {
	byDoctor := make(map[uuid.UUID][]uuid.UUID)
	byPatient := make(map[uuid.UUID][]uuid.UUID)
	total := 0

	for page := 1; ; page++ {
		result, err := r.appointments.List(ctx, appointment.ListQuery{
			Page: domain.PageRequest{Page: page, Size: r.pageSize},
		})
		if err != nil {
			return nil, nil, 0, fmt.Errorf("scanning appointments: %w", err)
		}
		for _, a := range result.Appointments {
			byDoctor[a.DoctorID] = append(byDoctor[a.DoctorID], a.ID)
			byPatient[a.PatientID] = append(byPatient[a.PatientID], a.ID)
			total++
		}
		if page >= result.TotalPages {
			break
		}
	}
	return byDoctor, byPatient, total, nil
}

func (r *Reconciler) sweepDoctors(ctx context.Context, live map[uuid.UUID][]uuid.UUID) (seen, relinked, pruned int, err error) {
	for page := 1; ; page++ {
		result, listErr := r.doctors.List(ctx, domain.PageRequest{Page: page, Size: r.pageSize})
		if listErr != nil {
			return seen, relinked, pruned, fmt.Errorf("scanning doctors: %w", listErr)
		}
		for _, d := range result.Doctors {
			seen++
			added, removed := reconcileRefs(&d.AppointmentIDs, live[d.ID])
			if added == 0 && removed == 0 {
				continue
			}
			if saveErr := r.doctors.Save(ctx, d); saveErr != nil {
				return seen, relinked, pruned, fmt.Errorf("repairing doctor %s: %w", d.ID, saveErr)
			}
			relinked += added
			pruned += removed
			r.recordRepairs(added, removed)
			r.log.Warn("repaired doctor back-references",
				zap.String("doctor_id", d.ID.String()),
				zap.Int("relinked", added),
				zap.Int("pruned", removed),
			)
		}
		if page >= result.TotalPages {
			break
		}
	}
	return seen, relinked, pruned, nil
}

func (r *Reconciler) sweepPatients(ctx context.Context, live map[uuid.UUID][]uuid.UUID) (seen, relinked, pruned int, err error) {
	for page := 1; ; page++ {
		result, listErr := r.patients.List(ctx, domain.PageRequest{Page: page, Size: r.pageSize})
		if listErr != nil {
			return seen, relinked, pruned, fmt.Errorf("scanning patients: %w", listErr)
		}
		for _, p := range result.Patients {
			seen++
			added, removed := reconcileRefs(&p.AppointmentIDs, live[p.ID])
			if added == 0 && removed == 0 {
				continue
			}
			if saveErr := r.patients.Save(ctx, p); saveErr != nil {
				return seen, relinked, pruned, fmt.Errorf("repairing patient %s: %w", p.ID, saveErr)
			}
			relinked += added
			pruned += removed
			r.recordRepairs(added, removed)
			r.log.Warn("repaired patient back-references",
				zap.String("patient_id", p.ID.String()),
				zap.Int("relinked", added),
				zap.Int("pruned", removed),
			)
		}
		if page >= result.TotalPages {
			break
		}
	}
	return seen, relinked, pruned, nil
}

func (r *Reconciler) recordRepairs(added, removed int) {
	if added > 0 {
		r.metrics.ReconcilerRepairs.WithLabelValues("relink").Add(float64(added))
	}
	if removed > 0 {
		r.metrics.ReconcilerRepairs.WithLabelValues("prune").Add(float64(removed))
	}
}

// reconcileRefs rewrites refs to exactly the want set, keeping the order of
// surviving entries. Returns how many ids were added and removed.
func reconcileRefs(refs *[]uuid.UUID, want []uuid.UUID) (added, removed int) {
	wanted := make(map[uuid.UUID]bool, len(want))
	for _, id := range want {
		wanted[id] = true
	}

	kept := (*refs)[:0]
	present := make(map[uuid.UUID]bool, len(*refs))
	for _, id := range *refs {
		if wanted[id] && !present[id] {
			kept = append(kept, id)
			present[id] = true
		} else {
			removed++
		}
	}
	for _, id := range want {
		if !present[id] {
			kept = append(kept, id)
			present[id] = true
			added++
		}
	}
	*refs = kept
	return added, removed
}
