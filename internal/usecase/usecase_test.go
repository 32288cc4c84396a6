package usecase

import (
	"io"
	"testing"
	"time"

	"go-clinical-records/internal/domain/entity"
	"go-clinical-records/internal/repository"
	"go-clinical-records/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testNow is a fixed Monday morning so day-of-week expectations stay stable.
var testNow = time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)

type fixture struct {
	db           *gorm.DB
	availability *availabilityUsecase
	appointments *appointmentUsecase
	reschedules  *rescheduleUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The in-memory database lives per connection; a second pooled
	// connection would see an empty schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.ProviderProfile{},
		&entity.PatientProfile{},
		&entity.ProviderWeeklySchedule{},
		&entity.AppointmentRequest{},
		&entity.RescheduleRequest{},
		&entity.ClinicalEncounter{},
		&entity.AuditLog{},
		&entity.Notification{},
	))

	require.NoError(t, db.Create([]entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin},
		{ID: entity.RoleIDProvider, RoleName: entity.RoleProvider},
		{ID: entity.RoleIDPatient, RoleName: entity.RolePatient},
	}).Error)

	log := logrus.New()
	log.SetOutput(io.Discard)

	userRepo := repository.NewUserRepository()
	providerRepo := repository.NewProviderProfileRepository()
	patientRepo := repository.NewPatientProfileRepository()
	weeklyRepo := repository.NewWeeklyScheduleRepository()
	apptRepo := repository.NewAppointmentRepository()
	rescheduleRepo := repository.NewRescheduleRepository()
	encounterRepo := repository.NewEncounterRepository()
	auditRepo := repository.NewAuditLogRepository()
	notificationRepo := repository.NewNotificationRepository()

	audit := service.NewAuditRecorder(log, auditRepo)
	notifier := service.NewNotificationService(db, log, notificationRepo, userRepo, nil)
	locker := service.NewLocalSlotLocker()

	availability := NewAvailabilityUsecase(db, log, weeklyRepo, providerRepo, apptRepo, audit).(*availabilityUsecase)
	availability.now = func() time.Time { return testNow }

	appointments := NewAppointmentUsecase(db, log, apptRepo, weeklyRepo, providerRepo, patientRepo, encounterRepo, locker, audit, notifier).(*appointmentUsecase)
	appointments.now = func() time.Time { return testNow }

	reschedules := NewRescheduleUsecase(db, log, rescheduleRepo, apptRepo, audit, notifier).(*rescheduleUsecase)
	reschedules.now = func() time.Time { return testNow }

	return &fixture{
		db:           db,
		availability: availability,
		appointments: appointments,
		reschedules:  reschedules,
	}
}

func (f *fixture) seedProvider(t *testing.T, email string) uuid.UUID {
	t.Helper()

	user := &entity.User{
		RoleID:   entity.RoleIDProvider,
		Email:    email,
		Password: "hashed",
		FullName: "Dr. " + email,
		IsActive: true,
	}
	require.NoError(t, f.db.Create(user).Error)
	require.NoError(t, f.db.Create(&entity.ProviderProfile{
		UserID:        user.ID,
		LicenseNumber: "LIC-" + user.ID.String()[:8],
		Specialty:     "general",
	}).Error)
	return user.ID
}

func (f *fixture) seedPatient(t *testing.T, email string) uuid.UUID {
	t.Helper()

	user := &entity.User{
		RoleID:   entity.RoleIDPatient,
		Email:    email,
		Password: "hashed",
		FullName: email,
		IsActive: true,
	}
	require.NoError(t, f.db.Create(user).Error)
	require.NoError(t, f.db.Create(&entity.PatientProfile{
		UserID:              user.ID,
		MedicalRecordNumber: "MRN-" + user.ID.String()[:8],
		DateOfBirth:         time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
		Gender:              "F",
	}).Error)
	return user.ID
}

func (f *fixture) seedSchedule(t *testing.T, providerID uuid.UUID, day entity.DayOfWeek, start, end string, available bool) {
	t.Helper()

	require.NoError(t, f.db.Create(&entity.ProviderWeeklySchedule{
		ProviderID:  providerID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: available,
	}).Error)
}
