package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo organisation, admin user, employees, and a team for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"audit_logs", "employee_teams", "employees", "teams", "users", "organisations"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		orgName := "Demo Org"
		var orgID string
		row := db.Raw("SELECT id FROM organisations WHERE name = ?", orgName).Row()
		if err := row.Scan(&orgID); err == nil {
			fmt.Println("demo organisation already exists:", orgID)
		} else {
			orgID = uuid.NewString()
			if err := db.Exec(
				"INSERT INTO organisations (id, name, email, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
				orgID, orgName, "admin@demo.org").Error; err != nil {
				log.Fatalf("failed to insert organisation: %v", err)
			}
			fmt.Println("Seeded organisation:", orgName)
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		adminEmail := "admin@demo.org"
		var one int
		row = db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row()
		if err := row.Scan(&one); err == nil {
			fmt.Println("admin user already exists")
		} else {
			if err := db.Exec(
				"INSERT INTO users (id, organisation_id, email, password_hash, name, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, 'admin', now(), now())",
				uuid.NewString(), orgID, adminEmail, string(hash), "Demo Admin").Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		}

		employees := []struct {
			First, Last, Email, Position string
		}{
			{"Ava", "Stone", "ava@demo.org", "Engineer"},
			{"Ben", "Reed", "ben@demo.org", "Designer"},
			{"Cara", "Wells", "cara@demo.org", "Engineer"},
		}

		var firstEmployeeID string
		for _, e := range employees {
			var id string
			row := db.Raw("SELECT id FROM employees WHERE email = ? AND organisation_id = ?", e.Email, orgID).Row()
			if err := row.Scan(&id); err != nil {
				id = uuid.NewString()
				if err := db.Exec(
					"INSERT INTO employees (id, organisation_id, first_name, last_name, email, position, hire_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, now(), now())",
					id, orgID, e.First, e.Last, e.Email, e.Position, time.Now().Format("2006-01-02")).Error; err != nil {
					log.Fatalf("failed to insert employee %s: %v", e.Email, err)
				}
				fmt.Println("Seeded employee:", e.Email)
			}
			if firstEmployeeID == "" {
				firstEmployeeID = id
			}
		}

		teamName := "Engineering"
		var teamID string
		row = db.Raw("SELECT id FROM teams WHERE name = ? AND organisation_id = ?", teamName, orgID).Row()
		if err := row.Scan(&teamID); err != nil {
			teamID = uuid.NewString()
			if err := db.Exec(
				"INSERT INTO teams (id, organisation_id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())",
				teamID, orgID, teamName, "Product engineering").Error; err != nil {
				log.Fatalf("failed to insert team: %v", err)
			}
			fmt.Println("Seeded team:", teamName)
		}

		row = db.Raw("SELECT 1 FROM employee_teams WHERE employee_id = ? AND team_id = ?", firstEmployeeID, teamID).Row()
		if err := row.Scan(&one); err != nil {
			if err := db.Exec(
				"INSERT INTO employee_teams (id, employee_id, team_id, assigned_date) VALUES (?, ?, ?, now())",
				uuid.NewString(), firstEmployeeID, teamID).Error; err != nil {
				log.Fatalf("failed to insert membership: %v", err)
			}
			fmt.Println("Seeded team membership")
		}

		fmt.Println("Seeding complete. Login with", adminEmail, "/ password / organisation:", orgName)
	},
}
