package seeder

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"offerless/internal/database"
	"offerless/internal/domain/application"
	"offerless/internal/domain/profile"
	"offerless/internal/repository"

	"github.com/google/uuid"
)

// DemoUser is a profile created by the demo seeder. Its id is derived from
// the username so repeated runs address the same rows.
type DemoUser struct {
	Username    string
	DisplayName string
}

func (u DemoUser) ID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("offerless-demo:"+u.Username))
}

func (u DemoUser) Email() string {
	return u.Username + "@demo.offerless.local"
}

var DefaultDemoUsers = []DemoUser{
	{Username: "ada", DisplayName: "Ada Lovelace"},
	{Username: "grace", DisplayName: "Grace Hopper"},
	{Username: "linus", DisplayName: "Linus T."},
	{Username: "margaret", DisplayName: "Margaret Hamilton"},
	{Username: "ken"},
}

var (
	demoCompanies = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Stark Industries", "Wayne Enterprises", "Pied Piper", "Vandelay", "Cyberdyne"}
	demoTitles    = []string{"Backend Engineer", "Frontend Engineer", "Platform Engineer", "SRE", "Data Engineer", "Engineering Manager", "Full Stack Developer"}
	demoCities    = []string{"Berlin", "Lisbon", "New York", "Toronto", "Remote EU", "London", "Austin"}
)

// DemoSeeder creates the demo profiles and, for profiles without any records
// yet, PerUser random applications dated within the last 90 days.
type DemoSeeder struct {
	Users   []DemoUser
	PerUser int
	Seed    uint64
	Now     func() time.Time
}

func (DemoSeeder) Name() string { return "demo" }

func (s DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireColumns(ctx, db, "profiles", "id", "username", "display_name"); err != nil {
		return err
	}
	if err := RequireColumns(ctx, db, "applications",
		"id", "owner_id", "company", "job_title", "applied_at", "status",
		"company_url", "salary_amount", "salary_type", "location", "location_kind",
	); err != nil {
		return err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))

	profiles := repository.NewPostgresProfileRepository(db)
	apps := repository.NewPostgresApplicationRepository(db)

	for _, u := range s.Users {
		p := profile.Profile{ID: u.ID(), Username: u.Username}
		if u.DisplayName != "" {
			dn := u.DisplayName
			p.DisplayName = &dn
		}
		if err := profiles.Create(ctx, p); err != nil {
			return fmt.Errorf("profile %s: %w", u.Username, err)
		}

		st, err := apps.CountByStatus(ctx, p.ID)
		if err != nil {
			return err
		}
		if st.Total > 0 || s.PerUser <= 0 {
			continue
		}

		batch := make([]application.Application, 0, s.PerUser)
		for range s.PerUser {
			batch = append(batch, randomApplication(rng, p.ID, now()))
		}
		if _, err := apps.CreateMany(ctx, batch); err != nil {
			return fmt.Errorf("applications for %s: %w", u.Username, err)
		}
	}
	return nil
}

func randomApplication(rng *rand.Rand, ownerID uuid.UUID, now time.Time) application.Application {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	company := demoCompanies[rng.IntN(len(demoCompanies))]

	a := application.Application{
		OwnerID:      ownerID,
		Company:      company,
		JobTitle:     demoTitles[rng.IntN(len(demoTitles))],
		AppliedAt:    today.AddDate(0, 0, -rng.IntN(90)),
		Status:       application.Statuses[rng.IntN(len(application.Statuses))],
		LocationKind: application.LocationKinds[rng.IntN(len(application.LocationKinds))],
	}

	if rng.IntN(2) == 0 {
		a.CompanyURL = "https://www." + slug(company) + ".example"
	}
	if a.LocationKind != application.LocationRemote {
		city := demoCities[rng.IntN(len(demoCities))]
		a.Location = &city
	}

	switch rng.IntN(3) {
	case 0:
		amount := math.Round(60000 + rng.Float64()*90000)
		st := application.SalaryTypeSalary
		a.SalaryAmount, a.SalaryType = &amount, &st
	case 1:
		amount := math.Round((30+rng.Float64()*70)*100) / 100
		st := application.SalaryTypeHourly
		a.SalaryAmount, a.SalaryType = &amount, &st
	}
	return a
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	return string(out)
}
