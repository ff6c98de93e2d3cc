package cmd

import (
	"fmt"
	"log"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := gorm.Open(gormPostgres.Open(cfg.Database.Source), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM leave_requests").Error; err != nil {
				log.Fatalf("failed to clear leave requests: %v", err)
			}
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		year := time.Now().Year()

		seedUsers := []struct {
			FullName string
			Email    string
			Role     string
		}{
			{"Ayu Admin", "ayu@mail.com", userDatamodel.RoleAdmin},
			{"Maya Manager", "maya@mail.com", userDatamodel.RoleManager},
			{"Sari Staff", "sari@mail.com", userDatamodel.RoleStaff},
		}

		for _, su := range seedUsers {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", su.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists; skipping\n", su.Email)
				continue
			}

			entitlement := userDatamodel.DefaultAnnualEntitlement
			if err := db.Exec(
				"INSERT INTO users (full_name, email, password_hash, role, annual_leave_entitlement, leave_balance, carry_over_balance, leave_year, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, 0, ?, true, now(), now())",
				su.FullName, su.Email, string(hash), su.Role, entitlement, entitlement, year,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", su.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", su.Role, su.Email)
		}

		fmt.Println("Users seeded successfully")
	},
}
