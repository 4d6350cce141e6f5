package service_test

import (
	"testing"
	"time"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture wires repositories against an in-memory sqlite store.
type fixture struct {
	db        *gorm.DB
	users     repository.UserRepository
	regions   repository.RegionRepository
	vacations repository.VacationRepository
	audits    repository.AuditRepository
	txm       repository.TransactionManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Region{},
		&model.User{},
		&model.VacationRequest{},
		&model.AuditLog{},
	))
	return &fixture{
		db:        db,
		users:     repository.NewUserRepository(db),
		regions:   repository.NewRegionRepository(db),
		vacations: repository.NewVacationRepository(db),
		audits:    repository.NewAuditRepository(db),
		txm:       repository.NewTransactionManager(db),
	}
}

// testClock pins service time to a known Monday.
func testClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	}
}

func (f *fixture) seedRegion(t *testing.T, name string) *model.Region {
	t.Helper()
	region := &model.Region{Name: name, City: name, Active: true}
	require.NoError(t, f.db.Create(region).Error)
	return region
}

func (f *fixture) seedUser(t *testing.T, username string, role model.Role, region *model.Region, total, used int) *model.User {
	t.Helper()
	user := &model.User{
		Username:          username,
		Password:          "irrelevant",
		FullName:          "Test " + username,
		Role:              role,
		TotalVacationDays: total,
		UsedVacationDays:  used,
		Active:            true,
	}
	if region != nil {
		user.RegionID = &region.ID
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) seedRequest(t *testing.T, employee string, status model.VacationStatus, absence model.AbsenceType, start, end string) *model.VacationRequest {
	t.Helper()
	startDate, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	endDate, err := time.Parse("2006-01-02", end)
	require.NoError(t, err)
	req := &model.VacationRequest{
		EmployeeName: employee,
		StartDate:    model.TruncateToDay(startDate),
		EndDate:      model.TruncateToDay(endDate),
		Status:       status,
		AbsenceType:  absence,
		CreatedAt:    model.TruncateToDay(testClock()()),
	}
	require.NoError(t, f.db.Create(req).Error)
	return req
}

func (f *fixture) auditRows(t *testing.T, action string) []model.AuditLog {
	t.Helper()
	var logs []model.AuditLog
	require.NoError(t, f.db.Where("action = ?", action).Find(&logs).Error)
	return logs
}

func (f *fixture) reloadUser(t *testing.T, username string) *model.User {
	t.Helper()
	var user model.User
	require.NoError(t, f.db.First(&user, "username = ?", username).Error)
	return &user
}

// plainHasher marks hashes without the bcrypt cost, so tests can assert
// on rehashing behavior.
type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}
