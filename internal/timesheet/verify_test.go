package timesheet_test

import (
	"context"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timesheet VerifyDay", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()
	})

	It("should verify every entry of the day", func() {
		// Given
		f.store.seed(employeeID, researchID, "2024-01-08", 5, false)
		f.store.seed(employeeID, maintenanceID, "2024-01-08", 3, false)
		f.store.seed(employeeID, researchID, "2024-01-09", 8, false)

		// When
		result, err := f.service.VerifyDay(ctx, f.leader, employeeID, day("2024-01-08"))

		// Then
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Verified).To(Equal(int64(2)))
		Expect(result.Date).To(Equal("2024-01-08"))
		Expect(result.TotalHours.Equal(hoursOf(8))).To(BeTrue())

		for _, r := range f.store.rowsFor(employeeID) {
			Expect(r.Verify).To(Equal(r.Date.Equal(day("2024-01-08"))))
		}
	})

	It("should reject a day with more than eight hours", func() {
		f.store.seed(employeeID, researchID, "2024-01-08", 5, false)
		f.store.seed(employeeID, maintenanceID, "2024-01-08", 3.5, false)

		_, err := f.service.VerifyDay(ctx, f.leader, employeeID, day("2024-01-08"))

		expectErrorType(err, internal.ErrorTypeInvalidOperation)
		appErr, _ := internal.IsAppError(err)
		Expect(appErr.Code).To(Equal(internal.ErrCodeDailyCap))
		for _, r := range f.store.rowsFor(employeeID) {
			Expect(r.Verify).To(BeFalse())
		}
	})

	It("should succeed with zero rows on an empty day", func() {
		result, err := f.service.VerifyDay(ctx, f.leader, employeeID, day("2024-01-08"))

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Verified).To(BeZero())
	})

	It("should forbid employees and admins", func() {
		_, err := f.service.VerifyDay(ctx, f.employee, employeeID, day("2024-01-08"))
		expectErrorType(err, internal.ErrorTypeForbidden)

		_, err = f.service.VerifyDay(ctx, f.admin, employeeID, day("2024-01-08"))
		expectErrorType(err, internal.ErrorTypeForbidden)
	})

	It("should forbid verifying someone outside the team", func() {
		_, err := f.service.VerifyDay(ctx, f.other, employeeID, day("2024-01-08"))

		expectErrorType(err, internal.ErrorTypeForbidden)
		appErr, _ := internal.IsAppError(err)
		Expect(appErr.Code).To(Equal(internal.ErrCodeNotSubordinate))
	})

	It("should return not found for an unknown user", func() {
		_, err := f.service.VerifyDay(ctx, f.leader, 99, day("2024-01-08"))

		expectErrorType(err, internal.ErrorTypeNotFound)
	})

	It("should publish a verification event", func() {
		f.store.seed(employeeID, researchID, "2024-01-08", 8, false)

		_, err := f.service.VerifyDay(ctx, f.leader, employeeID, day("2024-01-08"))
		Expect(err).NotTo(HaveOccurred())

		Expect(f.publisher.published).To(HaveLen(1))
		event, ok := f.publisher.published[0].(*events.TimesheetDayVerifiedEvent)
		Expect(ok).To(BeTrue())
		Expect(event.UserID).To(Equal(employeeID))
		Expect(event.Verified).To(Equal(int64(1)))
	})
})
