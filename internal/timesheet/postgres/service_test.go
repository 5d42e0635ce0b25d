package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/project"
	timesheetDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/timesheet"
	userDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/user"
	workdayDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/workday"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	projectPostgres "github.com/frahmantamala/timesheet-tracker/internal/project/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/timesheet-tracker/internal/timesheet/postgres"
	userPostgres "github.com/frahmantamala/timesheet-tracker/internal/user/postgres"
	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	workdayPostgres "github.com/frahmantamala/timesheet-tracker/internal/workday/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Week of Monday 2024-01-08; the clock sits on its Wednesday.
var serviceNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

var _ = Describe("Timesheet Service on SQLite", func() {
	const (
		adminID    int64 = 1
		leaderID   int64 = 2
		employeeID int64 = 3

		researchID    int64 = 10
		maintenanceID int64 = 11
	)

	var (
		db      *gorm.DB
		service *timesheet.Service
		ctx     context.Context

		admin, leader, employee *coreuser.Actor
	)

	hours := func(h float64) decimal.Decimal { return decimal.NewFromFloat(h) }

	write := func(actor *coreuser.Actor, userID, projectID int64, d string, h float64, verify bool) (*timesheet.Timesheet, error) {
		return service.Upsert(ctx, actor, timesheet.Entry{UserID: userID, ProjectID: projectID, Date: date(d), Hours: hours(h), Verify: verify})
	}

	mustWrite := func(actor *coreuser.Actor, userID, projectID int64, d string, h float64) {
		_, err := write(actor, userID, projectID, d, h, false)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
	}

	storedRows := func(userID int64) []*timesheetDatamodel.Timesheet {
		var rows []*timesheetDatamodel.Timesheet
		ExpectWithOffset(1, db.Where("user_id = ?", userID).Order("date, project_id").Find(&rows).Error).To(Succeed())
		return rows
	}

	appError := func(err error) *internal.AppError {
		ExpectWithOffset(1, err).To(HaveOccurred())
		appErr, ok := internal.IsAppError(err)
		ExpectWithOffset(1, ok).To(BeTrue(), "expected AppError, got %v", err)
		return appErr
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(
			&userDatamodel.User{},
			&projectDatamodel.Project{},
			&timesheetDatamodel.Timesheet{},
			&workdayDatamodel.WorkDay{},
		)).To(Succeed())

		lead := leaderID
		users := []*userDatamodel.User{
			{ID: adminID, Username: "admin", PasswordHash: "x", Role: string(coreuser.RoleAdmin)},
			{ID: leaderID, Username: "leader", PasswordHash: "x", Role: string(coreuser.RoleTeamLeader)},
			{ID: employeeID, Username: "employee", PasswordHash: "x", Role: string(coreuser.RoleEmployee), TeamLeaderID: &lead},
		}
		for _, u := range users {
			Expect(db.Create(u).Error).To(Succeed())
		}
		Expect(db.Create(&projectDatamodel.Project{ID: researchID, Name: "Research", IsDefault: true}).Error).To(Succeed())
		Expect(db.Create(&projectDatamodel.Project{ID: maintenanceID, Name: "Maintenance", IsDefault: true}).Error).To(Succeed())

		admin = coreuser.ActorFromModel(users[0])
		leader = coreuser.ActorFromModel(users[1])
		employee = coreuser.ActorFromModel(users[2])

		service = timesheet.NewService(
			timesheetPostgres.NewTimesheetRepository(db),
			workday.NewCalendar(workdayPostgres.NewWorkDayRepository(db)),
			userPostgres.NewUserRepository(db),
			projectPostgres.NewProjectRepository(db),
			nil,
			slog.New(slog.NewTextHandler(io.Discard, nil)),
			timesheet.WithClock(func() time.Time { return serviceNow }),
		)
		ctx = context.Background()
	})

	Describe("weekly limit", func() {
		It("should reject the entry that crosses 40h with the computed figures", func() {
			for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11"} {
				mustWrite(employee, employeeID, researchID, d, 8)
			}

			_, err := write(employee, employeeID, researchID, "2024-01-12", 10, false)

			appErr := appError(err)
			Expect(appErr.Type).To(Equal(internal.ErrorTypeLimitExceeded))
			Expect(appErr.Details).To(Equal(internal.LimitDetails{Limit: 40, Current: 32, Requested: 10}))
			Expect(storedRows(employeeID)).To(HaveLen(4))
		})

		It("should not count the row being replaced", func() {
			for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"} {
				mustWrite(employee, employeeID, researchID, d, 8)
			}

			saved, err := write(employee, employeeID, researchID, "2024-01-12", 6, false)

			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Hours.Equal(hours(6))).To(BeTrue())
			Expect(storedRows(employeeID)).To(HaveLen(5))
		})

		It("should shrink the allowance by four hours for a half day off", func() {
			Expect(db.Create(&workdayDatamodel.WorkDay{Date: date("2024-01-10"), DayType: string(workday.DayTypeHalfOff)}).Error).To(Succeed())
			mustWrite(employee, employeeID, researchID, "2024-01-08", 8)
			mustWrite(employee, employeeID, researchID, "2024-01-09", 8)
			mustWrite(employee, employeeID, researchID, "2024-01-10", 4)
			mustWrite(employee, employeeID, researchID, "2024-01-11", 8)
			mustWrite(employee, employeeID, researchID, "2024-01-12", 8)

			_, err := write(employee, employeeID, maintenanceID, "2024-01-12", 1, false)

			Expect(appError(err).Details).To(Equal(internal.LimitDetails{Limit: 36, Current: 36, Requested: 1}))
		})

		It("should refuse hours on a stored off day", func() {
			Expect(db.Create(&workdayDatamodel.WorkDay{Date: date("2024-01-09"), DayType: string(workday.DayTypeOff)}).Error).To(Succeed())

			_, err := write(employee, employeeID, researchID, "2024-01-09", 2, false)

			Expect(appError(err).Code).To(Equal(internal.ErrCodeOffDay))
			Expect(storedRows(employeeID)).To(BeEmpty())
		})
	})

	Describe("batch", func() {
		It("should roll back every entry when a later one breaks the limit", func() {
			entries := []timesheet.Entry{}
			for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"} {
				entries = append(entries, timesheet.Entry{UserID: employeeID, ProjectID: researchID, Date: date(d), Hours: hours(8)})
			}
			entries = append(entries, timesheet.Entry{UserID: employeeID, ProjectID: maintenanceID, Date: date("2024-01-12"), Hours: hours(1)})

			_, err := service.BatchUpsert(ctx, employee, entries)

			Expect(appError(err).Type).To(Equal(internal.ErrorTypeLimitExceeded))
			Expect(storedRows(employeeID)).To(BeEmpty())
		})

		It("should commit a batch that fits", func() {
			saved, err := service.BatchUpsert(ctx, employee, []timesheet.Entry{
				{UserID: employeeID, ProjectID: researchID, Date: date("2024-01-08"), Hours: hours(5)},
				{UserID: employeeID, ProjectID: maintenanceID, Date: date("2024-01-08"), Hours: hours(3)},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(saved).To(HaveLen(2))
			Expect(storedRows(employeeID)).To(HaveLen(2))
		})
	})

	Describe("verification", func() {
		It("should lock a verified entry against the employee but not the team leader", func() {
			_, err := write(leader, employeeID, researchID, "2024-01-08", 6, true)
			Expect(err).NotTo(HaveOccurred())

			_, err = write(employee, employeeID, researchID, "2024-01-08", 7, false)

			appErr := appError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeEntryVerified))
			Expect(appErr.Message).To(Equal("cannot modify a verified entry"))
			Expect(storedRows(employeeID)[0].Hours.Equal(hours(6))).To(BeTrue())

			_, err = write(leader, employeeID, researchID, "2024-01-08", 7, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(storedRows(employeeID)[0].Hours.Equal(hours(7))).To(BeTrue())
		})

		It("should verify every row of the day at once", func() {
			mustWrite(employee, employeeID, researchID, "2024-01-08", 5)
			mustWrite(employee, employeeID, maintenanceID, "2024-01-08", 3)

			result, err := service.VerifyDay(ctx, leader, employeeID, date("2024-01-08"))

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Verified).To(Equal(int64(2)))
			for _, row := range storedRows(employeeID) {
				Expect(row.Verify).To(BeTrue())
			}
		})

		It("should leave a day over 8h untouched", func() {
			mustWrite(employee, employeeID, researchID, "2024-01-08", 5)
			mustWrite(employee, employeeID, maintenanceID, "2024-01-08", 4)

			_, err := service.VerifyDay(ctx, leader, employeeID, date("2024-01-08"))

			Expect(appError(err).Code).To(Equal(internal.ErrCodeDailyCap))
			for _, row := range storedRows(employeeID) {
				Expect(row.Verify).To(BeFalse())
			}
		})

		It("should store a team leader's entries verified even when an admin writes them", func() {
			_, err := write(admin, leaderID, researchID, "2024-01-08", 8, false)

			Expect(err).NotTo(HaveOccurred())
			Expect(storedRows(leaderID)[0].Verify).To(BeTrue())
		})
	})
})
