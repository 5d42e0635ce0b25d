package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/timesheet-tracker/internal/auth"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	clearData bool
	seedDemo  bool
)

var defaultProjects = []string{"Research", "Maintenance", "Others"}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default projects and admin account",
	Long:  `Seed the default projects and the admin account. Existing rows are left untouched, so the command is safe to re-run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initORM(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"activity_logs", "timesheets", "work_days"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared timesheets, work days and activity logs")
		}

		for _, name := range defaultProjects {
			var exists int
			row := db.Raw("SELECT 1 FROM projects WHERE name = ?", name).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}

			if err := db.Exec("INSERT INTO projects (name, description, is_default, created_at, updated_at) VALUES (?, ?, true, now(), now())",
				name, fmt.Sprintf("Default %s project", name)).Error; err != nil {
				log.Fatalf("failed to insert project %s: %v", name, err)
			}
			fmt.Println("Seeded default project:", name)
		}

		hasher := auth.NewBcryptHasher(cfg.Security.BCryptCost)

		_, created := ensureUser(db, hasher, "admin", "admin123", coreuser.RoleAdmin, nil)
		if created {
			fmt.Println("Seeded admin user: admin")
		} else {
			fmt.Println("admin user already exists; leaving it untouched")
		}

		if seedDemo {
			leaderID, _ := ensureUser(db, hasher, "leader", "leader123", coreuser.RoleTeamLeader, nil)
			ensureUser(db, hasher, "employee", "employee123", coreuser.RoleEmployee, &leaderID)
			fmt.Println("Seeded demo team: leader, employee")
		}
	},
}

// ensureUser inserts the user when the username is free and returns its id.
func ensureUser(db *gorm.DB, hasher *auth.BcryptHasher, username, password string, role coreuser.Role, leaderID *int64) (int64, bool) {
	var id int64
	if err := db.Raw("SELECT id FROM users WHERE username = ?", username).Row().Scan(&id); err == nil {
		return id, false
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password for %s: %v", username, err)
	}

	err = db.Raw("INSERT INTO users (username, password_hash, role, team_leader_id, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now()) RETURNING id",
		username, hash, string(role), leaderID).Row().Scan(&id)
	if err != nil {
		log.Fatalf("failed to insert user %s: %v", username, err)
	}
	return id, true
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear timesheets, work days and activity logs before seeding")
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "Also seed a demo team leader and employee")
}
