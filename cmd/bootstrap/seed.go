package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medbridge-api/internal/domain/entity"
	domainRepo "medbridge-api/internal/domain/repository"
	"medbridge-api/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedHospitals = []string{
	"Peking Union Medical College Hospital",
	"West China Hospital, Sichuan University",
	"Ruijin Hospital, Shanghai Jiao Tong University",
	"Zhongshan Hospital, Fudan University",
	"First Affiliated Hospital of Sun Yat-sen University",
	"Tongji Hospital, Huazhong University",
}

var seedShifts = [][2]string{
	{"09:00", "12:00"},
	{"13:30", "17:00"},
	{"08:00", "11:30"},
}

// Seed creates the staff account from SEED_ADMIN_EMAIL (when missing), then
// fake doctors with availability for the next SEED_DAYS days. Everything runs
// in one transaction.
func (app *App) Seed(ctx context.Context) error {
	cfg := app.Config
	transactor := repository.NewTransactor(app.DB)
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	profileRepo := repository.NewUserProfileRepository()
	doctorRepo := repository.NewChinaDoctorRepository()
	availabilityRepo := repository.NewDoctorAvailabilityRepository()

	gofakeit.Seed(time.Now().UnixNano())

	return transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if cfg.Seed.AdminEmail != "" {
			if err := app.seedAdmin(ctx, tx, userRepo, roleRepo, profileRepo); err != nil {
				return err
			}
		}

		today := time.Now().In(cfg.App.Location)
		today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, cfg.App.Location)

		windows := 0
		for i := 0; i < cfg.Seed.Doctors; i++ {
			doctor := &entity.ChinaDoctor{
				Name:              "Dr. " + gofakeit.Name(),
				Hospital:          seedHospitals[gofakeit.Number(0, len(seedHospitals)-1)],
				Department:        entity.Departments[gofakeit.Number(0, len(entity.Departments)-1)],
				IsAvailable:       gofakeit.Number(0, 9) > 0,
				YearsOfExperience: gofakeit.Number(2, 40),
			}
			doctor.BiographyEN = fmt.Sprintf("%s has practised %s for %d years at %s.",
				doctor.Name, strings.ToLower(doctor.Department.Label()), doctor.YearsOfExperience, doctor.Hospital)

			if err := doctorRepo.Create(ctx, tx, doctor); err != nil {
				return fmt.Errorf("failed to seed doctor: %w", err)
			}

			for day := 0; day < cfg.Seed.Days; day++ {
				if gofakeit.Number(0, 9) < 3 {
					continue
				}
				shift := seedShifts[gofakeit.Number(0, len(seedShifts)-1)]
				window := &entity.DoctorAvailability{
					DoctorID:      doctor.ID,
					AvailableDate: today.AddDate(0, 0, day),
					StartTime:     shift[0],
					EndTime:       shift[1],
				}
				if err := availabilityRepo.Create(ctx, tx, window); err != nil {
					return fmt.Errorf("failed to seed availability: %w", err)
				}
				windows++
			}
		}

		app.Log.Infof("Seeded %d doctors with %d availability windows", cfg.Seed.Doctors, windows)
		return nil
	})
}

func (app *App) seedAdmin(
	ctx context.Context,
	tx *gorm.DB,
	userRepo domainRepo.UserRepository,
	roleRepo domainRepo.RoleRepository,
	profileRepo domainRepo.UserProfileRepository,
) error {
	email := strings.ToLower(strings.TrimSpace(app.Config.Seed.AdminEmail))

	existing, err := userRepo.FindByEmail(ctx, tx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		app.Log.Infof("Admin %s already exists, skipping", email)
		return nil
	}

	if app.Config.Seed.AdminPassword == "" {
		return errors.New("SEED_ADMIN_PASSWORD is required when SEED_ADMIN_EMAIL is set")
	}

	role, err := roleRepo.FindByName(ctx, tx, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("role %q missing, run migrations first", entity.RoleAdmin)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(app.Config.Seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &entity.User{
		RoleID:    role.ID,
		Username:  strings.SplitN(email, "@", 2)[0],
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: "Clinic",
		LastName:  "Staff",
	}
	if err := userRepo.Create(ctx, tx, admin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	if err := profileRepo.Create(ctx, tx, &entity.UserProfile{UserID: admin.ID, LanguagePreference: entity.LanguageEnglish}); err != nil {
		return fmt.Errorf("failed to seed admin profile: %w", err)
	}

	app.Log.Infof("Seeded admin %s", email)
	return nil
}
