package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/config"
	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/internal/domain/doctor"
	"github.com/clinica-io/clinica-api/internal/domain/patient"
	"github.com/clinica-io/clinica-api/internal/events"
	"github.com/clinica-io/clinica-api/internal/repository"
	"github.com/clinica-io/clinica-api/internal/service"
	"github.com/clinica-io/clinica-api/pkg/database"
	"github.com/clinica-io/clinica-api/pkg/logger"
)

var specializations = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
}

func main() {
	doctors := flag.Int("doctors", 20, "number of doctors to create")
	patients := flag.Int("patients", 200, "number of patients to create")
	appointments := flag.Int("appointments", 500, "number of appointments to create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config load error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	gofakeit.Seed(time.Now().UnixNano())
	ctx := context.Background()

	doctorSvc := service.NewDoctorService(repository.NewDoctorRepository(db), log)
	patientSvc := service.NewPatientService(repository.NewPatientRepository(db), events.Nop{}, log)
	appointmentSvc := service.NewAppointmentService(
		repository.NewAppointmentRepository(db), doctorSvc, patientSvc, events.Nop{}, log)

	doctorDocs := make([]string, 0, *doctors)
	for i := 0; i < *doctors; i++ {
		d, err := doctorSvc.CreateDoctor(ctx, fakeDoctor())
		if err != nil {
			log.Fatal("seeding doctor failed", zap.Error(err))
		}
		doctorDocs = append(doctorDocs, d.PersonalInformation.Document)
	}
	log.Info("doctors seeded", zap.Int("count", *doctors))

	patientDocs := make([]string, 0, *patients)
	for i := 0; i < *patients; i++ {
		p, err := patientSvc.CreatePatient(ctx, fakePatient())
		if err != nil {
			log.Fatal("seeding patient failed", zap.Error(err))
		}
		patientDocs = append(patientDocs, p.PersonalInformation.Document)
	}
	log.Info("patients seeded", zap.Int("count", *patients))

	for i := 0; i < *appointments; i++ {
		cmd := &service.CreateAppointmentCommand{
			Date:       gofakeit.DateRange(time.Now(), time.Now().AddDate(0, 3, 0)),
			Diagnostic: gofakeit.Sentence(8),
			Treatment:  gofakeit.Sentence(6),
		}
		cmd.Doctor.PersonalInformation.Document = doctorDocs[gofakeit.Number(0, len(doctorDocs)-1)]
		cmd.Patient.PersonalInformation.Document = patientDocs[gofakeit.Number(0, len(patientDocs)-1)]

		if _, err := appointmentSvc.CreateAppointment(ctx, cmd); err != nil {
			log.Fatal("seeding appointment failed", zap.Error(err))
		}
	}
	log.Info("appointments seeded", zap.Int("count", *appointments))
}

func fakeDoctor() *doctor.Doctor {
	return &doctor.Doctor{
		LicenseNum: fmt.Sprintf("%02d/%02d/%05d", gofakeit.Number(1, 52), gofakeit.Number(1, 99), gofakeit.Number(10000, 99999)),
		MIRDate:    gofakeit.DateRange(time.Now().AddDate(-20, 0, 0), time.Now().AddDate(-1, 0, 0)),
		PersonalInformation: domain.PersonalInformation{
			Name:       gofakeit.FirstName(),
			Surname:    gofakeit.LastName(),
			BirthDate:  gofakeit.DateRange(time.Now().AddDate(-65, 0, 0), time.Now().AddDate(-28, 0, 0)),
			IDDocument: domain.DocumentDNI,
			Document:   fakeDNI(),
		},
		Specializations: []string{specializations[gofakeit.Number(0, len(specializations)-1)]},
	}
}

func fakePatient() *patient.Patient {
	return &patient.Patient{
		SSNumber: fmt.Sprintf("%012d", gofakeit.Number(100000000000, 999999999999)),
		Height:   gofakeit.Float64Range(1.45, 2.05),
		Weight:   gofakeit.Float64Range(45, 120),
		PersonalInformation: domain.PersonalInformation{
			Name:       gofakeit.FirstName(),
			Surname:    gofakeit.LastName(),
			BirthDate:  gofakeit.DateRange(time.Now().AddDate(-90, 0, 0), time.Now().AddDate(-1, 0, 0)),
			IDDocument: domain.DocumentDNI,
			Document:   fakeDNI(),
		},
	}
}

func fakeDNI() string {
	letters := "TRWAGMYFPDXBNJZSQVHLCKE"
	n := gofakeit.Number(10000000, 99999999)
	return fmt.Sprintf("%08d%c", n, letters[n%23])
}
