package compliance_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal/compliance"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scheduler", func() {
	var (
		scheduler *compliance.Scheduler
		logger    *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		var err error
		scheduler, err = compliance.NewScheduler(time.Monday, 10, 0, time.UTC, func(context.Context) {}, logger)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should build a weekly cron spec", func() {
		Expect(scheduler.Spec()).To(Equal("0 10 * * 1"))
		Expect(compliance.WeeklySpec(time.Sunday, 23, 45)).To(Equal("45 23 * * 0"))
	})

	DescribeTable("NextRun",
		func(now, want time.Time) {
			Expect(scheduler.NextRun(now)).To(BeTemporally("==", want))
		},
		Entry("earlier the same Monday", time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)),
		Entry("exactly at the run time", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), time.Date(2024, 1, 22, 10, 0, 0, 0, time.UTC)),
		Entry("later the same Monday", time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC), time.Date(2024, 1, 22, 10, 0, 0, 0, time.UTC)),
		Entry("midweek", time.Date(2024, 1, 17, 8, 0, 0, 0, time.UTC), time.Date(2024, 1, 22, 10, 0, 0, 0, time.UTC)),
		Entry("Sunday night at month end", time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)),
	)

	It("should follow the configured location", func() {
		jakarta := time.FixedZone("WIB", 7*3600)
		s, err := compliance.NewScheduler(time.Monday, 10, 0, jakarta, func(context.Context) {}, logger)
		Expect(err).NotTo(HaveOccurred())

		next := s.NextRun(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

		Expect(next).To(BeTemporally("==", time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)))
	})

	It("should reject out of range times", func() {
		_, err := compliance.NewScheduler(time.Monday, 24, 0, time.UTC, func(context.Context) {}, logger)

		Expect(err).To(HaveOccurred())
	})

	It("should stop promptly when no run is in progress", func() {
		scheduler.Start(context.Background())

		stopped := scheduler.Stop()

		Eventually(stopped.Done()).Should(BeClosed())
	})
})
