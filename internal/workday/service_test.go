package workday_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

var _ = Describe("WorkDay Service", func() {
	var (
		repo      *MockRepository
		publisher *recordingPublisher
		service   *workday.Service
		admin     *coreuser.Actor
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = workday.NewService(repo, publisher, logger)
		admin = &coreuser.Actor{ID: 1, Username: "admin", Role: coreuser.RoleAdmin}
		ctx = context.Background()
	})

	Describe("SetDayType", func() {
		It("should store an OFF exception", func() {
			day, err := service.SetDayType(ctx, admin, workday.SetWorkDayDTO{Date: "2024-01-01", DayType: "OFF", Remark: "New Year"})

			Expect(err).NotTo(HaveOccurred())
			Expect(day.DayType).To(Equal(workday.DayTypeOff))
			Expect(repo.days).To(HaveKey("2024-01-01"))
			Expect(repo.days["2024-01-01"].Remark).To(Equal("New Year"))
			Expect(publisher.published).To(HaveLen(1))
		})

		It("should overwrite an existing exception", func() {
			repo.put("2024-01-03", workday.DayTypeOff)

			_, err := service.SetDayType(ctx, admin, workday.SetWorkDayDTO{Date: "2024-01-03", DayType: "HALF_OFF"})

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.days["2024-01-03"].DayType).To(Equal("HALF_OFF"))
		})

		It("should delete the exception when set to WORK and still return the day", func() {
			// Given
			repo.put("2024-01-03", workday.DayTypeOff)

			// When
			day, err := service.SetDayType(ctx, admin, workday.SetWorkDayDTO{Date: "2024-01-03", DayType: "WORK"})

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(day).NotTo(BeNil())
			Expect(day.DayType).To(Equal(workday.DayTypeWork))
			Expect(repo.days).NotTo(HaveKey("2024-01-03"))
		})

		It("should reject non-admin actors", func() {
			leader := &coreuser.Actor{ID: 2, Role: coreuser.RoleTeamLeader}

			_, err := service.SetDayType(ctx, leader, workday.SetWorkDayDTO{Date: "2024-01-03", DayType: "OFF"})

			Expect(internal.IsType(err, internal.ErrorTypeForbidden)).To(BeTrue())
			Expect(repo.days).To(BeEmpty())
		})

		It("should reject an unknown day type", func() {
			_, err := service.SetDayType(ctx, admin, workday.SetWorkDayDTO{Date: "2024-01-03", DayType: "HOLIDAY"})

			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("should reject a malformed date", func() {
			_, err := service.SetDayType(ctx, admin, workday.SetWorkDayDTO{Date: "03/01/2024", DayType: "OFF"})

			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("should wrap store failures as internal errors", func() {
			repo.shouldFail = true

			_, err := service.SetDayType(ctx, admin, workday.SetWorkDayDTO{Date: "2024-01-03", DayType: "OFF"})

			Expect(internal.IsType(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})

	Describe("ListExceptions", func() {
		It("should filter by range", func() {
			repo.put("2024-01-01", workday.DayTypeOff)
			repo.put("2024-02-01", workday.DayTypeHalfOff)

			days, err := service.ListExceptions(ctx, mustDate("2024-01-01"), mustDate("2024-01-31"))

			Expect(err).NotTo(HaveOccurred())
			Expect(days).To(HaveLen(1))
			Expect(days[0].DayType).To(Equal(workday.DayTypeOff))
		})
	})
})
