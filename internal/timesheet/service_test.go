package timesheet_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/project"
	workdayDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/workday"
	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/timesheet"
	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	adminID     int64 = 1
	leaderID    int64 = 2
	employeeID  int64 = 3
	loneID      int64 = 4
	otherLeadID int64 = 5

	researchID    int64 = 10
	maintenanceID int64 = 11
	closedID      int64 = 12
)

var fixedNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store     *MockStore
	directory *MockDirectory
	calendar  *calendarRepo
	publisher *recordingPublisher
	service   *timesheet.Service

	admin    *coreuser.Actor
	leader   *coreuser.Actor
	employee *coreuser.Actor
	lone     *coreuser.Actor
	other    *coreuser.Actor
}

func newFixture() *fixture {
	f := &fixture{
		store:     NewMockStore(),
		directory: NewMockDirectory(),
		calendar:  &calendarRepo{days: map[string]*workdayDatamodel.WorkDay{}},
		publisher: &recordingPublisher{},
	}

	lead := leaderID
	f.directory.addUser(adminID, "admin", nil)
	f.directory.addUser(leaderID, "team_leader", nil)
	f.directory.addUser(employeeID, "employee", &lead)
	f.directory.addUser(loneID, "employee", nil)
	f.directory.addUser(otherLeadID, "team_leader", nil)

	f.directory.projects[researchID] = &projectDatamodel.Project{ID: researchID, Name: "Research", IsDefault: true}
	f.directory.projects[maintenanceID] = &projectDatamodel.Project{ID: maintenanceID, Name: "Maintenance", IsDefault: true}
	f.directory.projects[closedID] = &projectDatamodel.Project{ID: closedID, Name: "Gone", IsDeleted: true}

	f.admin = coreuser.ActorFromModel(f.directory.users[adminID])
	f.leader = coreuser.ActorFromModel(f.directory.users[leaderID])
	f.employee = coreuser.ActorFromModel(f.directory.users[employeeID])
	f.lone = coreuser.ActorFromModel(f.directory.users[loneID])
	f.other = coreuser.ActorFromModel(f.directory.users[otherLeadID])

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	f.service = timesheet.NewService(
		f.store,
		workday.NewCalendar(f.calendar),
		f.directory,
		projectLookup{d: f.directory},
		f.publisher,
		logger,
		timesheet.WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

func entry(userID, projectID int64, date string, hours float64, verify bool) timesheet.Entry {
	return timesheet.Entry{UserID: userID, ProjectID: projectID, Date: day(date), Hours: hoursOf(hours), Verify: verify}
}

func expectErrorType(err error, t internal.ErrorType) {
	ExpectWithOffset(1, err).To(HaveOccurred())
	appErr, ok := internal.IsAppError(err)
	ExpectWithOffset(1, ok).To(BeTrue(), "expected AppError, got %v", err)
	ExpectWithOffset(1, appErr.Type).To(Equal(t), appErr.Message)
}

var _ = Describe("Timesheet Service", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()
	})

	Describe("Upsert", func() {
		Context("role gate", func() {
			It("should forbid entries owned by an administrator", func() {
				_, err := f.service.Upsert(ctx, f.admin, entry(adminID, researchID, "2024-01-08", 8, false))

				expectErrorType(err, internal.ErrorTypeForbidden)
				Expect(f.store.rows).To(BeEmpty())
			})

			It("should forbid a team leader writing for an admin", func() {
				_, err := f.service.Upsert(ctx, f.leader, entry(adminID, researchID, "2024-01-08", 8, false))

				expectErrorType(err, internal.ErrorTypeForbidden)
			})

			It("should forbid an employee writing for someone else", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(loneID, researchID, "2024-01-08", 8, false))

				expectErrorType(err, internal.ErrorTypeForbidden)
			})

			It("should forbid a team leader writing for another team", func() {
				_, err := f.service.Upsert(ctx, f.other, entry(employeeID, researchID, "2024-01-08", 8, false))

				expectErrorType(err, internal.ErrorTypeForbidden)
			})

			It("should let a team leader write for a direct report", func() {
				saved, err := f.service.Upsert(ctx, f.leader, entry(employeeID, researchID, "2024-01-08", 8, false))

				Expect(err).NotTo(HaveOccurred())
				Expect(saved.UserID).To(Equal(employeeID))
			})

			It("should let an admin write for an employee", func() {
				saved, err := f.service.Upsert(ctx, f.admin, entry(employeeID, researchID, "2024-01-08", 8, true))

				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Verify).To(BeTrue())
			})

			It("should return not found for an unknown user", func() {
				_, err := f.service.Upsert(ctx, f.admin, entry(99, researchID, "2024-01-08", 8, false))

				expectErrorType(err, internal.ErrorTypeNotFound)
			})

			It("should return not found for a deleted project", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, closedID, "2024-01-08", 8, false))

				expectErrorType(err, internal.ErrorTypeNotFound)
			})
		})

		Context("verify normalisation", func() {
			It("should always store employee entries unverified", func() {
				saved, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-08", 8, true))

				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Verify).To(BeFalse())
				Expect(f.store.rowsFor(employeeID)[0].Verify).To(BeFalse())
			})

			It("should auto-verify a team leader's own entries", func() {
				saved, err := f.service.Upsert(ctx, f.leader, entry(leaderID, researchID, "2024-01-08", 8, false))

				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Verify).To(BeTrue())
			})

			It("should auto-verify a team leader's entry written by an admin", func() {
				saved, err := f.service.Upsert(ctx, f.admin, entry(leaderID, researchID, "2024-01-08", 8, false))

				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Verify).To(BeTrue())
				Expect(f.store.rowsFor(leaderID)[0].Verify).To(BeTrue())
			})

			It("should keep a team leader's entry verified when an admin updates it", func() {
				_, err := f.service.Upsert(ctx, f.leader, entry(leaderID, researchID, "2024-01-08", 6, false))
				Expect(err).NotTo(HaveOccurred())

				saved, err := f.service.Upsert(ctx, f.admin, entry(leaderID, researchID, "2024-01-08", 7, false))

				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Verify).To(BeTrue())
				Expect(f.store.rowsFor(leaderID)).To(HaveLen(1))
			})
		})

		Context("off-day gate", func() {
			It("should reject a weekend date", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-06", 2, false))

				expectErrorType(err, internal.ErrorTypeInvalidOperation)
			})

			It("should reject a weekday marked off", func() {
				f.calendar.set("2024-01-01", "OFF")

				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-01", 8, false))

				expectErrorType(err, internal.ErrorTypeInvalidOperation)
			})

			It("should reject even a zero-hour update of an existing row on an off day", func() {
				f.store.seed(employeeID, researchID, "2024-01-01", 0, false)
				f.calendar.set("2024-01-01", "OFF")

				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-01", 0, false))

				expectErrorType(err, internal.ErrorTypeInvalidOperation)
			})

			It("should accept a weekend day marked as work", func() {
				f.calendar.set("2024-01-06", "WORK")

				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-06", 8, false))

				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("weekly-limit gate", func() {
			BeforeEach(func() {
				for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"} {
					_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, d, 8, false))
					Expect(err).NotTo(HaveOccurred())
				}
			})

			It("should reject a Friday entry that goes over 40h with the computed figures", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-05", 10, false))

				expectErrorType(err, internal.ErrorTypeLimitExceeded)
				appErr, _ := internal.IsAppError(err)
				Expect(appErr.Details).To(Equal(internal.LimitDetails{Limit: 40, Current: 32, Requested: 10}))
			})

			It("should accept a Friday entry that lands exactly on the limit", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-05", 8, false))

				Expect(err).NotTo(HaveOccurred())
				Expect(f.store.rowsFor(employeeID)).To(HaveLen(5))
			})

			It("should not double count the row being replaced", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-05", 8, false))
				Expect(err).NotTo(HaveOccurred())

				_, err = f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-01", 8, false))
				Expect(err).NotTo(HaveOccurred())

				_, err = f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-01", 9, false))
				expectErrorType(err, internal.ErrorTypeLimitExceeded)
				appErr, _ := internal.IsAppError(err)
				Expect(appErr.Details).To(Equal(internal.LimitDetails{Limit: 40, Current: 32, Requested: 9}))
			})

			It("should count other projects against the same week", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, maintenanceID, "2024-01-04", 8.5, false))

				expectErrorType(err, internal.ErrorTypeLimitExceeded)
			})
		})

		It("should apply the half-day allowance", func() {
			// Given
			f.calendar.set("2024-01-03", "HALF_OFF")
			for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-04", "2024-01-05"} {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, d, 9, false))
				Expect(err).NotTo(HaveOccurred())
			}

			// When
			_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-03", 4, false))

			// Then
			expectErrorType(err, internal.ErrorTypeLimitExceeded)
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Details).To(Equal(internal.LimitDetails{Limit: 36, Current: 36, Requested: 4}))

			_, err = f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-03", 0, false))
			Expect(err).NotTo(HaveOccurred())
		})

		Context("edit window", func() {
			It("should reject employees writing before the cutoff", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2023-12-22", 8, false))

				expectErrorType(err, internal.ErrorTypeForbidden)
				appErr, _ := internal.IsAppError(err)
				Expect(appErr.Code).To(Equal(internal.ErrCodeEditWindowClosed))
			})

			It("should accept employees writing on the cutoff Monday", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2023-12-25", 8, false))

				Expect(err).NotTo(HaveOccurred())
			})

			It("should let the team leader write before the cutoff", func() {
				_, err := f.service.Upsert(ctx, f.leader, entry(employeeID, researchID, "2023-12-22", 8, false))

				Expect(err).NotTo(HaveOccurred())
			})

			It("should report the weekly limit before the edit window", func() {
				for _, d := range []string{"2023-12-18", "2023-12-19", "2023-12-20", "2023-12-21", "2023-12-22"} {
					f.store.seed(employeeID, researchID, d, 8, false)
				}

				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, maintenanceID, "2023-12-22", 1, false))

				expectErrorType(err, internal.ErrorTypeLimitExceeded)
			})
		})

		Context("verification lock", func() {
			BeforeEach(func() {
				f.store.seed(employeeID, researchID, "2024-01-08", 6, true)
			})

			It("should forbid the employee from modifying a verified entry", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-08", 7, false))

				expectErrorType(err, internal.ErrorTypeForbidden)
				appErr, _ := internal.IsAppError(err)
				Expect(appErr.Code).To(Equal(internal.ErrCodeEntryVerified))
				Expect(f.store.rowsFor(employeeID)[0].Hours.Equal(hoursOf(6))).To(BeTrue())
			})

			It("should let the employee's team leader modify it", func() {
				saved, err := f.service.Upsert(ctx, f.leader, entry(employeeID, researchID, "2024-01-08", 7, true))

				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Hours.Equal(hoursOf(7))).To(BeTrue())
				Expect(saved.Verify).To(BeTrue())
			})

			It("should store the verify flag a team leader sends", func() {
				saved, err := f.service.Upsert(ctx, f.leader, entry(employeeID, researchID, "2024-01-08", 7, false))

				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Verify).To(BeFalse())
			})
		})

		Context("consolidation", func() {
			It("should keep one row when the same key is written twice", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-08", 4, false))
				Expect(err).NotTo(HaveOccurred())

				saved, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-08", 6, false))
				Expect(err).NotTo(HaveOccurred())

				rows := f.store.rowsFor(employeeID)
				Expect(rows).To(HaveLen(1))
				Expect(rows[0].Hours.Equal(hoursOf(6))).To(BeTrue())
				Expect(saved.ID).To(Equal(rows[0].ID))
			})

			It("should repair pre-existing duplicates keeping the first row", func() {
				// Given
				first := f.store.seed(employeeID, researchID, "2024-01-08", 3, false)
				f.store.seed(employeeID, researchID, "2024-01-08", 3, false)
				f.store.seed(employeeID, researchID, "2024-01-08", 3, false)

				// When
				saved, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-08", 5, false))

				// Then
				Expect(err).NotTo(HaveOccurred())
				rows := f.store.rowsFor(employeeID)
				Expect(rows).To(HaveLen(1))
				Expect(rows[0].ID).To(Equal(first.ID))
				Expect(saved.Hours.Equal(hoursOf(5))).To(BeTrue())
			})

			It("should exclude every duplicate from the weekly total", func() {
				for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11"} {
					f.store.seed(employeeID, maintenanceID, d, 8, false)
				}
				f.store.seed(employeeID, researchID, "2024-01-12", 4, false)
				f.store.seed(employeeID, researchID, "2024-01-12", 4, false)

				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-12", 8, false))

				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("side effects", func() {
			It("should publish a created event with the project name", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-08", 8, false))
				Expect(err).NotTo(HaveOccurred())

				Expect(f.publisher.published).To(HaveLen(1))
				event, ok := f.publisher.published[0].(*events.TimesheetUpsertedEvent)
				Expect(ok).To(BeTrue())
				Expect(event.Created).To(BeTrue())
				Expect(event.ProjectName).To(Equal("Research"))
				Expect(event.ActorID).To(Equal(employeeID))
			})

			It("should publish an update event on the second write", func() {
				_, _ = f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-08", 8, false))
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-08", 7, false))
				Expect(err).NotTo(HaveOccurred())

				event := f.publisher.published[1].(*events.TimesheetUpsertedEvent)
				Expect(event.Created).To(BeFalse())
			})

			It("should not publish when the write is rejected", func() {
				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-06", 8, false))
				Expect(err).To(HaveOccurred())

				Expect(f.publisher.published).To(BeEmpty())
			})

			It("should lock the owning user inside the transaction", func() {
				_, err := f.service.Upsert(ctx, f.leader, entry(employeeID, researchID, "2024-01-08", 8, false))
				Expect(err).NotTo(HaveOccurred())

				Expect(f.store.lockedUser).To(Equal([]int64{employeeID}))
			})

			It("should wrap storage failures as internal errors", func() {
				f.store.failOn = "Create"

				_, err := f.service.Upsert(ctx, f.employee, entry(employeeID, researchID, "2024-01-08", 8, false))

				expectErrorType(err, internal.ErrorTypeInternal)
				Expect(f.store.rows).To(BeEmpty())
			})
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			f.store.seed(employeeID, researchID, "2024-01-08", 8, false)
			f.store.seed(loneID, researchID, "2024-01-08", 8, false)
			f.store.seed(leaderID, researchID, "2024-01-08", 8, true)
		})

		It("should limit employees to their own entries", func() {
			list, err := f.service.List(ctx, f.employee, timesheet.ListFilter{})

			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].UserID).To(Equal(employeeID))
		})

		It("should forbid employees from asking for another user", func() {
			_, err := f.service.List(ctx, f.employee, timesheet.ListFilter{UserIDs: []int64{loneID}})

			expectErrorType(err, internal.ErrorTypeForbidden)
		})

		It("should show a team leader their own and their team's entries", func() {
			list, err := f.service.List(ctx, f.leader, timesheet.ListFilter{})

			Expect(err).NotTo(HaveOccurred())
			var owners []int64
			for _, t := range list {
				owners = append(owners, t.UserID)
			}
			Expect(owners).To(ConsistOf(employeeID, leaderID))
		})

		It("should forbid a team leader from reading outside the team", func() {
			_, err := f.service.List(ctx, f.leader, timesheet.ListFilter{UserIDs: []int64{loneID}})

			expectErrorType(err, internal.ErrorTypeForbidden)
		})

		It("should show admins everything", func() {
			list, err := f.service.List(ctx, f.admin, timesheet.ListFilter{})

			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
		})
	})
})
