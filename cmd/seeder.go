package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"training_feedback", "notifications", "certificates", "training_registrations", "trainings", "users"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		adminID := seedUser(db, "admin@corelearn.dev", "Systemadministrator", string(hash), "IT", "admin", nil)
		lmsID := seedUser(db, "lms@corelearn.dev", "Sandra Weber", string(hash), "Personal", "lms_manager", nil)
		seedUser(db, "lms2@corelearn.dev", "Thomas Becker", string(hash), "Personal", "lms_manager", nil)
		managerID := seedUser(db, "manager@corelearn.dev", "Michael Schmidt", string(hash), "Werkstatt", "manager", nil)
		seedUser(db, "anna@corelearn.dev", "Anna Müller", string(hash), "Werkstatt", "employee", &managerID)
		seedUser(db, "jonas@corelearn.dev", "Jonas Fischer", string(hash), "Werkstatt", "employee", &managerID)
		_ = adminID
		_ = lmsID

		trainings := []struct {
			Title    string
			Category string
			Days     int
			Max      int
			Price    int64
			Provider string
		}{
			{"Hochvolt-Systeme Stufe 2", "Elektrik", 30, 12, 89000, "TÜV Nord"},
			{"Bremsanlagen Diagnose", "Bremsen", 45, 8, 64900, "Bosch Training"},
			{"Ladungssicherung Auffrischung", "Sicherheit", 14, 20, 29900, "DEKRA"},
			{"Getriebe-Wartung Grundlagen", "Wartung", 60, 10, 49900, "ZF Academy"},
		}

		for _, t := range trainings {
			date := time.Now().AddDate(0, 0, t.Days)
			var exists int
			if err := db.QueryRow("SELECT 1 FROM trainings WHERE title = $1", t.Title).Scan(&exists); err == nil {
				continue
			}
			_, err := db.Exec(`INSERT INTO trainings
				(title, description, category, date, duration, location, max_participants, current_participants, price_cents, provider, created_by, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, now(), now())`,
				t.Title, "Externe Schulung: "+t.Title, t.Category, date, "2 Tage", "Schulungszentrum", t.Max, t.Price, t.Provider, lmsID)
			if err != nil {
				log.Fatalf("failed to insert training %s: %v", t.Title, err)
			}
			fmt.Println("Seeded training:", t.Title)
		}

		fmt.Println("Seeding complete. Login with any seeded email and password 'password'.")
	},
}

func seedUser(db *sqlx.DB, email, name, hash, department, role string, managerID *int64) int64 {
	var id int64
	if err := db.QueryRow("SELECT id FROM users WHERE email = $1", email).Scan(&id); err == nil {
		return id
	}

	err := db.QueryRow(`INSERT INTO users
		(email, name, password_hash, department, role, manager_id, join_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), true, now(), now())
		RETURNING id`,
		email, name, hash, department, role, managerID).Scan(&id)
	if err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}

	fmt.Println("Seeded user:", email, "role:", role)
	return id
}
