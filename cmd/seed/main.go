package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/bus-booking-backend/internal/config"
	"github.com/swiftbus/bus-booking-backend/internal/database"
	"github.com/swiftbus/bus-booking-backend/internal/models"
	"github.com/swiftbus/bus-booking-backend/internal/services"
	"golang.org/x/crypto/bcrypt"
)

// Demo data for local development: a handful of users with funded
// wallets and a week of schedules across a few routes.

var routes = []struct {
	From, To           string
	Departure, Arrival string
}{
	{"Colombo", "Kandy", "06:30", "10:00"},
	{"Colombo", "Galle", "08:00", "10:30"},
	{"Kandy", "Jaffna", "07:15", "14:45"},
	{"Colombo", "Trincomalee", "21:30", "05:00"},
}

var busTypes = []struct {
	Type       string
	Layout     string
	TotalSeats int
	BasePrice  float64
}{
	{"seater", "2+2", 40, 400},
	{"semi-sleeper", "2+2", 40, 600},
	{"sleeper", "2+1", 36, 800},
	{"ac-seater", "2+2", 40, 700},
	{"ac-sleeper", "1+1+1", 36, 1200},
}

var operators = []string{"SwiftBus Express", "Lanka Travels", "Highway Luxury", "Southern Star"}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pgDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	if err := database.EnsureSchema(pgDB.DB); err != nil {
		logger.Fatalf("Failed to apply schema: %v", err)
	}

	seatRepo := database.NewSeatRepository(pgDB.DB, cfg.Booking.LockTimeout)
	walletRepo := database.NewWalletRepository(pgDB.DB, cfg.Booking.LockTimeout)
	scheduleRepo := database.NewScheduleRepository(pgDB.DB, seatRepo)
	scheduleService := services.NewScheduleService(scheduleRepo, services.NewSeatGenerator(), logger)

	if err := seedUsers(pgDB.DB, walletRepo, cfg.Security.BcryptCost, logger); err != nil {
		logger.Fatalf("Failed to seed users: %v", err)
	}
	if err := seedSchedules(scheduleService, logger); err != nil {
		logger.Fatalf("Failed to seed schedules: %v", err)
	}

	logger.Info("Seeding complete")
}

func seedUsers(db *sqlx.DB, walletRepo *database.WalletRepository, bcryptCost int, logger *logrus.Logger) error {
	users := []struct {
		Email, Phone, Name, Role, Password string
		Balance                            float64
	}{
		{"admin@swiftbus.lk", "+94770000001", "Admin User", models.RoleAdmin, envOr("SEED_ADMIN_PASSWORD", "change-me-admin"), 0},
		{"nimal@example.com", "+94770000002", "Nimal Perera", models.RoleUser, envOr("SEED_USER_PASSWORD", "change-me-user"), 10000},
		{"kumari@example.com", "+94770000003", "Kumari Silva", models.RoleUser, envOr("SEED_USER_PASSWORD", "change-me-user"), 5000},
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
		}

		var userID int64
		err = db.Get(&userID, `
			INSERT INTO users (email, phone, password_hash, full_name, role, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
			RETURNING id`,
			u.Email, u.Phone, string(hash), u.Name, u.Role)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}

		if _, err := walletRepo.CreateWallet(userID); err != nil {
			return err
		}
		if u.Balance > 0 {
			if _, err := walletRepo.Credit(userID, u.Balance, "Seed balance", nil); err != nil {
				return err
			}
		}

		logger.WithFields(logrus.Fields{"email": u.Email, "role": u.Role}).Info("Seeded user")
	}
	return nil
}

func seedSchedules(scheduleService *services.ScheduleService, logger *logrus.Logger) error {
	created := 0
	for day := 1; day <= 7; day++ {
		travelDate := time.Now().AddDate(0, 0, day).Format("2006-01-02")
		for ri, route := range routes {
			for bi, bus := range busTypes {
				req := &models.CreateScheduleRequest{
					BusNumber:     fmt.Sprintf("NB-%d%d%02d", ri+1, bi+1, day),
					BusType:       bus.Type,
					SeatLayout:    bus.Layout,
					TotalSeats:    bus.TotalSeats,
					OperatorName:  operators[(ri+bi)%len(operators)],
					FromCity:      route.From,
					ToCity:        route.To,
					TravelDate:    travelDate,
					DepartureTime: route.Departure,
					ArrivalTime:   route.Arrival,
					BasePrice:     bus.BasePrice,
				}
				if _, err := scheduleService.Create(req); err != nil {
					return err
				}
				created++
			}
		}
	}

	logger.WithField("schedules", created).Info("Seeded schedules")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
