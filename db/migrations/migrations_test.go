package migrations

import (
	"os"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestMigrations(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Migrations Suite")
}

// upStatements extracts the Up DDL from a migration file. SQLite has no
// now(), so timestamp defaults are rewritten for the in-memory store.
func upStatements(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(raw)
	if idx := strings.Index(content, "-- +goose Down"); idx >= 0 {
		content = content[:idx]
	}
	content = strings.ReplaceAll(content, "DEFAULT now()", "DEFAULT CURRENT_TIMESTAMP")

	var statements []string
	for _, chunk := range strings.Split(content, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

var _ = Describe("Initial schema", func() {
	var db *gorm.DB

	createOrganisation := func(id, name, email string) error {
		return db.Exec(
			"INSERT INTO organisations (id, name, email) VALUES (?, ?, ?)",
			id, name, email,
		).Error
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		statements, err := upStatements("00001_init.sql")
		Expect(err).NotTo(HaveOccurred())
		for _, stmt := range statements {
			Expect(db.Exec(stmt).Error).To(Succeed(), stmt)
		}
	})

	It("should reject two organisations with the same email", func() {
		Expect(createOrganisation("org-1", "Acme", "shared@corp.com")).To(Succeed())

		err := createOrganisation("org-2", "Globex", "shared@corp.com")
		Expect(err).To(HaveOccurred())
	})

	It("should reject two organisations with the same name", func() {
		Expect(createOrganisation("org-1", "Acme", "first@corp.com")).To(Succeed())

		err := createOrganisation("org-2", "Acme", "second@corp.com")
		Expect(err).To(HaveOccurred())
	})

	It("should default the user role to manager", func() {
		Expect(createOrganisation("org-1", "Acme", "admin@acme.com")).To(Succeed())
		Expect(db.Exec(
			"INSERT INTO users (id, organisation_id, email, password_hash, name) VALUES (?, ?, ?, ?, ?)",
			"user-1", "org-1", "jo@acme.com", "hash", "Jo",
		).Error).To(Succeed())

		var role string
		Expect(db.Raw("SELECT role FROM users WHERE id = ?", "user-1").Scan(&role).Error).To(Succeed())
		Expect(role).To(Equal("manager"))
	})

	It("should reject a duplicate employee team membership", func() {
		Expect(createOrganisation("org-1", "Acme", "admin@acme.com")).To(Succeed())
		Expect(db.Exec(
			"INSERT INTO employees (id, organisation_id, first_name, last_name, email) VALUES (?, ?, ?, ?, ?)",
			"emp-1", "org-1", "Jo", "Doe", "jo@acme.com",
		).Error).To(Succeed())
		Expect(db.Exec(
			"INSERT INTO teams (id, organisation_id, name) VALUES (?, ?, ?)",
			"team-1", "org-1", "Eng",
		).Error).To(Succeed())

		Expect(db.Exec(
			"INSERT INTO employee_teams (id, employee_id, team_id) VALUES (?, ?, ?)",
			"as-1", "emp-1", "team-1",
		).Error).To(Succeed())

		err := db.Exec(
			"INSERT INTO employee_teams (id, employee_id, team_id) VALUES (?, ?, ?)",
			"as-2", "emp-1", "team-1",
		).Error
		Expect(err).To(HaveOccurred())
	})
})
