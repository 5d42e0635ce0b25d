package timesheet_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/timesheet"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type errorBody struct {
	Error struct {
		Type    string          `json:"type"`
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

var _ = Describe("Timesheet Handler", func() {
	var (
		f       *fixture
		handler *timesheet.Handler
	)

	BeforeEach(func() {
		f = newFixture()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = timesheet.NewHandler(transport.NewBaseHandler(slogger), f.service)
	})

	request := func(method, target string, body interface{}, actor *coreuser.Actor) *http.Request {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, target, &buf)
		req.Header.Set("Content-Type", "application/json")
		if actor != nil {
			req = req.WithContext(internal.ContextWithActor(req.Context(), actor))
		}
		return req
	}

	Describe("POST /timesheets", func() {
		It("should save an entry for the caller when user_id is omitted", func() {
			w := httptest.NewRecorder()
			handler.UpsertTimesheet(w, request(http.MethodPost, "/timesheets", map[string]interface{}{
				"project_id": researchID,
				"date":       "2024-01-08",
				"hours":      7.5,
			}, f.employee))

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp timesheet.TimesheetResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.UserID).To(Equal(employeeID))
			Expect(resp.Date).To(Equal("2024-01-08"))
			Expect(resp.Hours.Equal(hoursOf(7.5))).To(BeTrue())
		})

		It("should return 401 without an actor", func() {
			w := httptest.NewRecorder()
			handler.UpsertTimesheet(w, request(http.MethodPost, "/timesheets", map[string]interface{}{}, nil))

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/timesheets", bytes.NewBufferString("{"))
			req = req.WithContext(internal.ContextWithActor(req.Context(), f.employee))
			w := httptest.NewRecorder()

			handler.UpsertTimesheet(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for hours above 24", func() {
			w := httptest.NewRecorder()
			handler.UpsertTimesheet(w, request(http.MethodPost, "/timesheets", map[string]interface{}{
				"project_id": researchID,
				"date":       "2024-01-08",
				"hours":      25,
			}, f.employee))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			var body errorBody
			Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
			Expect(body.Error.Type).To(Equal(string(internal.ErrorTypeValidation)))
		})

		It("should return 400 with limit details when the week is full", func() {
			for _, d := range []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11"} {
				f.store.seed(employeeID, researchID, d, 8, false)
			}

			w := httptest.NewRecorder()
			handler.UpsertTimesheet(w, request(http.MethodPost, "/timesheets", map[string]interface{}{
				"project_id": researchID,
				"date":       "2024-01-12",
				"hours":      10,
			}, f.employee))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			var body errorBody
			Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
			Expect(body.Error.Type).To(Equal(string(internal.ErrorTypeLimitExceeded)))

			var details internal.LimitDetails
			Expect(json.Unmarshal(body.Error.Details, &details)).To(Succeed())
			Expect(details).To(Equal(internal.LimitDetails{Limit: 40, Current: 32, Requested: 10}))
		})

		It("should return 403 for an admin-owned entry", func() {
			w := httptest.NewRecorder()
			handler.UpsertTimesheet(w, request(http.MethodPost, "/timesheets", map[string]interface{}{
				"project_id": researchID,
				"date":       "2024-01-08",
				"hours":      8,
			}, f.admin))

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("POST /timesheets/batch", func() {
		It("should return every saved entry", func() {
			w := httptest.NewRecorder()
			handler.BatchUpsertTimesheets(w, request(http.MethodPost, "/timesheets/batch", map[string]interface{}{
				"entries": []map[string]interface{}{
					{"project_id": researchID, "date": "2024-01-08", "hours": 4},
					{"project_id": maintenanceID, "date": "2024-01-08", "hours": 4},
				},
			}, f.employee))

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp timesheet.TimesheetsResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Timesheets).To(HaveLen(2))
		})

		It("should return 400 for an empty batch", func() {
			w := httptest.NewRecorder()
			handler.BatchUpsertTimesheets(w, request(http.MethodPost, "/timesheets/batch", map[string]interface{}{
				"entries": []map[string]interface{}{},
			}, f.employee))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /timesheets/verify", func() {
		It("should verify the day for a team leader", func() {
			f.store.seed(employeeID, researchID, "2024-01-08", 8, false)

			w := httptest.NewRecorder()
			handler.VerifyDay(w, request(http.MethodPost, "/timesheets/verify", map[string]interface{}{
				"user_id": employeeID,
				"date":    "2024-01-08",
			}, f.leader))

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp timesheet.VerifyResult
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Verified).To(Equal(int64(1)))
		})

		It("should return 400 for a missing date", func() {
			w := httptest.NewRecorder()
			handler.VerifyDay(w, request(http.MethodPost, "/timesheets/verify", map[string]interface{}{
				"user_id": employeeID,
			}, f.leader))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /timesheets", func() {
		BeforeEach(func() {
			f.store.seed(employeeID, researchID, "2024-01-08", 8, false)
			f.store.seed(loneID, researchID, "2024-01-08", 8, false)
		})

		It("should list the caller's entries", func() {
			w := httptest.NewRecorder()
			handler.ListTimesheets(w, request(http.MethodGet, "/timesheets", nil, f.employee))

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp timesheet.TimesheetsResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Timesheets).To(HaveLen(1))
		})

		It("should return 400 for a bad user_id", func() {
			w := httptest.NewRecorder()
			handler.ListTimesheets(w, request(http.MethodGet, "/timesheets?user_id=abc", nil, f.admin))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 403 when an employee asks for another user", func() {
			w := httptest.NewRecorder()
			handler.ListTimesheets(w, request(http.MethodGet, "/timesheets?user_id=4", nil, f.employee))

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})
})
