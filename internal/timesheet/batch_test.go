package timesheet_test

import (
	"context"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/timesheet"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timesheet BatchUpsert", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()
	})

	It("should reject an empty batch", func() {
		_, err := f.service.BatchUpsert(ctx, f.employee, nil)

		expectErrorType(err, internal.ErrorTypeValidation)
		Expect(f.store.txCount).To(BeZero())
	})

	It("should reject a batch spanning several users", func() {
		_, err := f.service.BatchUpsert(ctx, f.leader, []timesheet.Entry{
			entry(leaderID, researchID, "2024-01-08", 4, false),
			entry(employeeID, researchID, "2024-01-08", 4, false),
		})

		expectErrorType(err, internal.ErrorTypeInvalidOperation)
		appErr, _ := internal.IsAppError(err)
		Expect(appErr.Code).To(Equal(internal.ErrCodeMixedBatch))
	})

	It("should save a full week in one transaction", func() {
		// Given
		var batch []timesheet.Entry
		for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"} {
			batch = append(batch, entry(employeeID, researchID, d, 8, false))
		}

		// When
		saved, err := f.service.BatchUpsert(ctx, f.employee, batch)

		// Then
		Expect(err).NotTo(HaveOccurred())
		Expect(saved).To(HaveLen(5))
		Expect(f.store.txCount).To(Equal(1))
		Expect(f.store.lockedUser).To(Equal([]int64{employeeID}))
		Expect(f.store.rowsFor(employeeID)).To(HaveLen(5))
		Expect(f.publisher.published).To(HaveLen(5))
	})

	It("should roll back everything when the entries jointly exceed the limit", func() {
		// Given
		f.store.seed(employeeID, maintenanceID, "2024-01-08", 30, false)

		// When
		_, err := f.service.BatchUpsert(ctx, f.employee, []timesheet.Entry{
			entry(employeeID, researchID, "2024-01-09", 6, false),
			entry(employeeID, researchID, "2024-01-10", 6, false),
		})

		// Then
		expectErrorType(err, internal.ErrorTypeLimitExceeded)
		appErr, _ := internal.IsAppError(err)
		Expect(appErr.Details).To(Equal(internal.LimitDetails{Limit: 40, Current: 36, Requested: 6}))
		Expect(f.store.rowsFor(employeeID)).To(HaveLen(1))
		Expect(f.publisher.published).To(BeEmpty())
	})

	It("should let a later entry replace an earlier one for the same key", func() {
		saved, err := f.service.BatchUpsert(ctx, f.employee, []timesheet.Entry{
			entry(employeeID, researchID, "2024-01-08", 8, false),
			entry(employeeID, researchID, "2024-01-08", 3, false),
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(saved).To(HaveLen(2))
		rows := f.store.rowsFor(employeeID)
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Hours.Equal(hoursOf(3))).To(BeTrue())
	})

	It("should track limits per week across a batch spanning two weeks", func() {
		var batch []timesheet.Entry
		for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"} {
			batch = append(batch, entry(employeeID, researchID, d, 8, false))
		}
		batch = append(batch, entry(employeeID, researchID, "2024-01-15", 8, false))

		saved, err := f.service.BatchUpsert(ctx, f.employee, batch)

		Expect(err).NotTo(HaveOccurred())
		Expect(saved).To(HaveLen(6))
	})

	It("should fail the batch when one entry lands on an off day", func() {
		_, err := f.service.BatchUpsert(ctx, f.employee, []timesheet.Entry{
			entry(employeeID, researchID, "2024-01-12", 8, false),
			entry(employeeID, researchID, "2024-01-13", 8, false),
		})

		expectErrorType(err, internal.ErrorTypeInvalidOperation)
		Expect(f.store.rows).To(BeEmpty())
	})

	It("should apply the role gate once for the whole batch", func() {
		_, err := f.service.BatchUpsert(ctx, f.employee, []timesheet.Entry{
			entry(loneID, researchID, "2024-01-08", 8, false),
		})

		expectErrorType(err, internal.ErrorTypeForbidden)
		Expect(f.store.txCount).To(BeZero())
	})

	It("should roll back on a storage failure", func() {
		f.store.failOn = "Update"
		f.store.seed(employeeID, researchID, "2024-01-09", 2, false)

		_, err := f.service.BatchUpsert(ctx, f.employee, []timesheet.Entry{
			entry(employeeID, researchID, "2024-01-08", 8, false),
			entry(employeeID, researchID, "2024-01-09", 8, false),
		})

		expectErrorType(err, internal.ErrorTypeInternal)
		rows := f.store.rowsFor(employeeID)
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Hours.Equal(hoursOf(2))).To(BeTrue())
	})
})
