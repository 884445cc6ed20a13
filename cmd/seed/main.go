package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Zharaskq/pitwall/config"
	"github.com/Zharaskq/pitwall/db"
	"github.com/Zharaskq/pitwall/models"
	"github.com/Zharaskq/pitwall/repositories"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v2"
)

// seedFile is the season definition consumed by the seeder.
type seedFile struct {
	Admin struct {
		DisplayName string `yaml:"display_name"`
		Email       string `yaml:"email"`
		Password    string `yaml:"password"`
	} `yaml:"admin"`
	Teams   []seedTeam `yaml:"teams"`
	Drivers []struct {
		Name    string `yaml:"name"`
		Country string `yaml:"country"`
		Number  int    `yaml:"number"`
		Team    string `yaml:"team"`
	} `yaml:"drivers"`
	Races []struct {
		Name        string    `yaml:"name"`
		Location    string    `yaml:"location"`
		CountryFlag string    `yaml:"country_flag"`
		Date        time.Time `yaml:"date"`
		TotalLaps   int       `yaml:"total_laps"`
	} `yaml:"races"`
}

type seedTeam struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// seedTeams creates the constructors that are missing and returns the name
// to ID mapping for every team in the file. Teams from earlier runs keep
// their rows, and their IDs still end up in the map so drivers added later
// link to the right constructor.
func seedTeams(ctx context.Context, repo repositories.TeamRepository, teams []seedTeam, logger *slog.Logger) (map[string]int, error) {
	teamIDs := make(map[string]int, len(teams))

	existing, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range existing {
		teamIDs[t.Name] = t.ID
	}

	for _, t := range teams {
		if _, ok := teamIDs[t.Name]; ok {
			logger.Info("team already exists", slog.String("name", t.Name))
			continue
		}
		team := &models.Team{Name: t.Name, Color: t.Color}
		if err := repo.Create(ctx, team); err != nil {
			return nil, err
		}
		teamIDs[t.Name] = team.ID
	}
	return teamIDs, nil
}

// Seeds the season calendar, constructors, drivers and an admin account from
// a YAML file. Existing rows are left alone, so re-running is safe.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	path := flag.String("file", "seed/season.yaml", "path to the season seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		logger.Error("failed to read seed file", slog.String("path", *path), slog.Any("error", err))
		os.Exit(1)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		logger.Error("failed to parse seed file", slog.Any("error", err))
		os.Exit(1)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbConn.Close()

	ctx := context.Background()
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	driverRepo := repositories.NewPostgresDriverRepository(dbConn)
	raceRepo := repositories.NewPostgresRaceRepository(dbConn)

	if seed.Admin.Email != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("failed to hash admin password", slog.Any("error", err))
			os.Exit(1)
		}
		admin := &models.User{
			DisplayName:  seed.Admin.DisplayName,
			TeamName:     "Race Control",
			Email:        seed.Admin.Email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			if !errors.Is(err, repositories.ErrUserEmailConflict) {
				logger.Error("failed to create admin user", slog.Any("error", err))
				os.Exit(1)
			}
			logger.Info("admin user already exists", slog.String("email", seed.Admin.Email))
		} else {
			logger.Info("admin user created", slog.String("email", seed.Admin.Email))
		}
	}

	teamIDs, err := seedTeams(ctx, teamRepo, seed.Teams, logger)
	if err != nil {
		logger.Error("failed to seed teams", slog.Any("error", err))
		os.Exit(1)
	}

	created := 0
	for _, d := range seed.Drivers {
		driver := &models.Driver{
			Name:    d.Name,
			Country: d.Country,
			Number:  d.Number,
		}
		if id, ok := teamIDs[d.Team]; ok {
			driver.TeamID = &id
		}
		if err := driverRepo.Create(ctx, driver); err != nil {
			if !errors.Is(err, repositories.ErrDriverNumberConflict) {
				logger.Error("failed to create driver", slog.String("name", d.Name), slog.Any("error", err))
				os.Exit(1)
			}
			continue
		}
		created++
	}
	logger.Info("drivers seeded", slog.Int("created", created), slog.Int("total", len(seed.Drivers)))

	created = 0
	for _, r := range seed.Races {
		race := &models.Race{
			Name:        r.Name,
			Location:    r.Location,
			CountryFlag: r.CountryFlag,
			RaceDate:    r.Date,
			Status:      models.RaceStatusUpcoming,
		}
		if r.TotalLaps > 0 {
			laps := r.TotalLaps
			race.TotalLaps = &laps
		}
		if err := raceRepo.Create(ctx, race); err != nil {
			if !errors.Is(err, repositories.ErrRaceNameConflict) {
				logger.Error("failed to create race", slog.String("name", r.Name), slog.Any("error", err))
				os.Exit(1)
			}
			continue
		}
		created++
	}
	logger.Info("races seeded", slog.Int("created", created), slog.Int("total", len(seed.Races)))
}
