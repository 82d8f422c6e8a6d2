package audit_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/audit"
)

func TestAudit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Suite")
}

// Mock query repository capturing arguments
type mockQueryRepository struct {
	items      []audit.ListItem
	total      int64
	queryError error

	lastFilters audit.Filters
	lastLimit   int
	lastOffset  int
	lastDays    int
}

func (m *mockQueryRepository) List(orgID string, filters audit.Filters, limit, offset int) ([]audit.ListItem, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	m.lastFilters = filters
	m.lastLimit = limit
	m.lastOffset = offset
	return m.items, nil
}

func (m *mockQueryRepository) Count(orgID string, filters audit.Filters) (int64, error) {
	if m.queryError != nil {
		return 0, m.queryError
	}
	return m.total, nil
}

func (m *mockQueryRepository) ActionStats(orgID string, filters audit.Filters) ([]audit.ActionCount, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	m.lastFilters = filters
	return []audit.ActionCount{{Action: audit.ActionCreate, Count: 3}}, nil
}

func (m *mockQueryRepository) ResourceStats(orgID string, filters audit.Filters) ([]audit.ResourceCount, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	return []audit.ResourceCount{{ResourceType: audit.ResourceEmployee, Count: 2}}, nil
}

func (m *mockQueryRepository) DailyActivity(orgID string, filters audit.Filters, days int) ([]audit.DailyCount, error) {
	if m.queryError != nil {
		return nil, m.queryError
	}
	m.lastDays = days
	return []audit.DailyCount{{Date: "2026-08-31", Count: 5}}, nil
}

// Mock insert repository for the recorder
type mockRecorderRepository struct {
	logs        []*audit.Log
	insertError error
}

func (m *mockRecorderRepository) Insert(log *audit.Log) error {
	if m.insertError != nil {
		return m.insertError
	}
	m.logs = append(m.logs, log)
	return nil
}

var _ = Describe("AuditService", func() {
	var (
		service  *audit.Service
		mockRepo *mockQueryRepository
	)

	BeforeEach(func() {
		mockRepo = &mockQueryRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = audit.NewService(mockRepo, logger)
	})

	Describe("GetLogs", func() {
		It("should default page to 1 and limit to 50", func() {
			resp, err := service.GetLogs("org-1", audit.Filters{}, 0, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Pagination.Page).To(Equal(1))
			Expect(resp.Pagination.Limit).To(Equal(50))
			Expect(mockRepo.lastOffset).To(Equal(0))
		})

		It("should compute the offset from page and limit", func() {
			_, err := service.GetLogs("org-1", audit.Filters{}, 3, 10)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastLimit).To(Equal(10))
			Expect(mockRepo.lastOffset).To(Equal(20))
		})

		It("should round the page count up", func() {
			mockRepo.total = 101

			resp, err := service.GetLogs("org-1", audit.Filters{}, 1, 50)

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Pagination.Total).To(Equal(int64(101)))
			Expect(resp.Pagination.Pages).To(Equal(int64(3)))
		})

		It("should report an exact multiple without an extra page", func() {
			mockRepo.total = 100

			resp, err := service.GetLogs("org-1", audit.Filters{}, 1, 50)

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Pagination.Pages).To(Equal(int64(2)))
		})

		It("should return an empty slice, not nil, when there are no logs", func() {
			resp, err := service.GetLogs("org-1", audit.Filters{}, 1, 50)

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Logs).ToNot(BeNil())
			Expect(resp.Logs).To(BeEmpty())
		})

		It("should pass filters through to the repository", func() {
			filters := audit.Filters{Action: "CREATE", ResourceType: "EMPLOYEE", StartDate: "2026-01-01"}

			_, err := service.GetLogs("org-1", filters, 1, 50)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastFilters).To(Equal(filters))
		})

		It("should wrap storage failures", func() {
			mockRepo.queryError = errors.New("connection reset")

			_, err := service.GetLogs("org-1", audit.Filters{}, 1, 50)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("GetStats", func() {
		It("should aggregate action, resource, and daily counts", func() {
			resp, err := service.GetStats("org-1", audit.Filters{})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.ActionStats).To(HaveLen(1))
			Expect(resp.ResourceStats).To(HaveLen(1))
			Expect(resp.DailyActivity).To(HaveLen(1))
		})

		It("should request a 30 day activity window", func() {
			_, err := service.GetStats("org-1", audit.Filters{})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastDays).To(Equal(30))
		})

		It("should wrap storage failures", func() {
			mockRepo.queryError = errors.New("connection reset")

			_, err := service.GetStats("org-1", audit.Filters{})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})
})

var _ = Describe("Recorder", func() {
	var (
		recorder *audit.Recorder
		mockRepo *mockRecorderRepository
	)

	BeforeEach(func() {
		mockRepo = &mockRecorderRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		recorder = audit.NewRecorder(mockRepo, logger)
	})

	It("should persist a complete entry", func() {
		recorder.Record(audit.Entry{
			Action:         audit.ActionCreate,
			ResourceType:   audit.ResourceEmployee,
			ResourceID:     "emp-1",
			Details:        map[string]string{"email": "jo@acme.com"},
			OrganisationID: "org-1",
			UserID:         "user-1",
			Meta:           audit.RequestMeta{IPAddress: "10.0.0.1", UserAgent: "curl/8"},
		})

		Expect(mockRepo.logs).To(HaveLen(1))
		log := mockRepo.logs[0]
		Expect(log.ID).ToNot(BeEmpty())
		Expect(log.Action).To(Equal(audit.ActionCreate))
		Expect(*log.ResourceID).To(Equal("emp-1"))
		Expect(log.Details).To(ContainSubstring("jo@acme.com"))
		Expect(*log.IPAddress).To(Equal("10.0.0.1"))
		Expect(*log.UserAgent).To(Equal("curl/8"))
	})

	It("should leave optional fields nil when absent", func() {
		recorder.Record(audit.Entry{
			Action:         audit.ActionLogin,
			ResourceType:   audit.ResourceUser,
			Details:        map[string]string{},
			OrganisationID: "org-1",
			UserID:         "user-1",
		})

		Expect(mockRepo.logs).To(HaveLen(1))
		log := mockRepo.logs[0]
		Expect(log.ResourceID).To(BeNil())
		Expect(log.IPAddress).To(BeNil())
		Expect(log.UserAgent).To(BeNil())
	})

	It("should swallow insert failures", func() {
		mockRepo.insertError = errors.New("table locked")

		Expect(func() {
			recorder.Record(audit.Entry{
				Action:         audit.ActionDelete,
				ResourceType:   audit.ResourceTeam,
				OrganisationID: "org-1",
				UserID:         "user-1",
			})
		}).ToNot(Panic())

		Expect(mockRepo.logs).To(BeEmpty())
	})
})
