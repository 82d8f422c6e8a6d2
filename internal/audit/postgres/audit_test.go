package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/hrms-backend/internal/audit"
	auditPostgres "github.com/frahmantamala/hrms-backend/internal/audit/postgres"
)

func TestAuditRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteUser struct {
	ID             string    `gorm:"primaryKey"`
	OrganisationID string    `gorm:"column:organisation_id;not null"`
	Email          string    `gorm:"not null"`
	PasswordHash   string    `gorm:"column:password_hash"`
	Name           string    `gorm:"not null"`
	Role           string    `gorm:"column:role"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

type SQLiteAuditLog struct {
	ID             string    `gorm:"primaryKey"`
	OrganisationID string    `gorm:"column:organisation_id;not null"`
	UserID         string    `gorm:"column:user_id;not null"`
	Action         string    `gorm:"not null"`
	ResourceType   string    `gorm:"column:resource_type;not null"`
	ResourceID     *string   `gorm:"column:resource_id"`
	Details        string    `gorm:"column:details"`
	IPAddress      *string   `gorm:"column:ip_address"`
	UserAgent      *string   `gorm:"column:user_agent"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (SQLiteAuditLog) TableName() string {
	return "audit_logs"
}

var _ = Describe("Audit PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *auditPostgres.AuditRepository
	)

	insertLog := func(id, orgID, userID, action, resourceType string, createdAt time.Time) {
		log := &audit.Log{
			ID:             id,
			OrganisationID: orgID,
			UserID:         userID,
			Action:         action,
			ResourceType:   resourceType,
			Details:        "{}",
			CreatedAt:      createdAt,
		}
		Expect(repo.Insert(log)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteAuditLog{})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&SQLiteUser{
			ID: "user-1", OrganisationID: "org-1",
			Email: "a@acme.com", Name: "Ada Admin", Role: "admin",
		}).Error).To(Succeed())
		Expect(db.Create(&SQLiteUser{
			ID: "user-2", OrganisationID: "org-2",
			Email: "g@globex.com", Name: "Gail Admin", Role: "admin",
		}).Error).To(Succeed())

		repo = auditPostgres.NewAuditRepository(db)
	})

	Describe("List", func() {
		It("should join the acting user's name and email", func() {
			insertLog("log-1", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, time.Now())

			items, err := repo.List("org-1", audit.Filters{}, 50, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].UserName).To(Equal("Ada Admin"))
			Expect(items[0].UserEmail).To(Equal("a@acme.com"))
		})

		It("should not leak another organisation's logs", func() {
			insertLog("log-1", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, time.Now())
			insertLog("log-2", "org-2", "user-2", audit.ActionCreate, audit.ResourceEmployee, time.Now())

			items, err := repo.List("org-1", audit.Filters{}, 50, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ID).To(Equal("log-1"))
		})

		It("should order newest first and honor limit and offset", func() {
			base := time.Now()
			insertLog("log-1", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, base.Add(-2*time.Hour))
			insertLog("log-2", "org-1", "user-1", audit.ActionUpdate, audit.ResourceEmployee, base.Add(-time.Hour))
			insertLog("log-3", "org-1", "user-1", audit.ActionDelete, audit.ResourceEmployee, base)

			items, err := repo.List("org-1", audit.Filters{}, 2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(items[0].ID).To(Equal("log-3"))

			items, err = repo.List("org-1", audit.Filters{}, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ID).To(Equal("log-1"))
		})

		It("should AND-combine action and resource filters", func() {
			insertLog("log-1", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, time.Now())
			insertLog("log-2", "org-1", "user-1", audit.ActionCreate, audit.ResourceTeam, time.Now())
			insertLog("log-3", "org-1", "user-1", audit.ActionDelete, audit.ResourceEmployee, time.Now())

			items, err := repo.List("org-1", audit.Filters{
				Action:       audit.ActionCreate,
				ResourceType: audit.ResourceEmployee,
			}, 50, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ID).To(Equal("log-1"))
		})
	})

	Describe("Count", func() {
		It("should count with the same filters as List", func() {
			insertLog("log-1", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, time.Now())
			insertLog("log-2", "org-1", "user-1", audit.ActionDelete, audit.ResourceEmployee, time.Now())

			total, err := repo.Count("org-1", audit.Filters{Action: audit.ActionCreate})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})
	})

	Describe("ActionStats", func() {
		It("should group counts by action, largest first", func() {
			insertLog("log-1", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, time.Now())
			insertLog("log-2", "org-1", "user-1", audit.ActionCreate, audit.ResourceTeam, time.Now())
			insertLog("log-3", "org-1", "user-1", audit.ActionDelete, audit.ResourceEmployee, time.Now())

			stats, err := repo.ActionStats("org-1", audit.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(stats).To(HaveLen(2))
			Expect(stats[0].Action).To(Equal(audit.ActionCreate))
			Expect(stats[0].Count).To(Equal(int64(2)))
		})
	})

	Describe("ResourceStats", func() {
		It("should group counts by resource type", func() {
			insertLog("log-1", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, time.Now())
			insertLog("log-2", "org-1", "user-1", audit.ActionUpdate, audit.ResourceEmployee, time.Now())
			insertLog("log-3", "org-1", "user-1", audit.ActionCreate, audit.ResourceTeam, time.Now())

			stats, err := repo.ResourceStats("org-1", audit.Filters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(stats).To(HaveLen(2))
			Expect(stats[0].ResourceType).To(Equal(audit.ResourceEmployee))
			Expect(stats[0].Count).To(Equal(int64(2)))
		})
	})

	Describe("DailyActivity", func() {
		It("should group counts per day within the window", func() {
			today := time.Now()
			yesterday := today.AddDate(0, 0, -1)
			insertLog("log-1", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, today)
			insertLog("log-2", "org-1", "user-1", audit.ActionUpdate, audit.ResourceEmployee, today)
			insertLog("log-3", "org-1", "user-1", audit.ActionDelete, audit.ResourceEmployee, yesterday)

			activity, err := repo.DailyActivity("org-1", audit.Filters{}, 30)
			Expect(err).NotTo(HaveOccurred())
			Expect(activity).To(HaveLen(2))
			Expect(activity[0].Count).To(Equal(int64(2)))
		})

		It("should cap the number of distinct days", func() {
			base := time.Now()
			insertLog("log-1", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, base)
			insertLog("log-2", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, base.AddDate(0, 0, -1))
			insertLog("log-3", "org-1", "user-1", audit.ActionCreate, audit.ResourceEmployee, base.AddDate(0, 0, -2))

			activity, err := repo.DailyActivity("org-1", audit.Filters{}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(activity).To(HaveLen(2))
		})
	})
})
