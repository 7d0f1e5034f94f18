package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"offerless/internal/app"
	"offerless/internal/config"
	"offerless/internal/database/seeder"
	"offerless/internal/pkg/jwt"

	"github.com/sirupsen/logrus"
)

func main() {
	perUser := flag.Int("apps", 25, "applications per demo user")
	seed := flag.Uint64("seed", 42, "random seed")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed access tokens")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to init container")
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r := seeder.Runner{Seeders: []seeder.Seeder{
		seeder.DemoSeeder{Users: seeder.DefaultDemoUsers, PerUser: *perUser, Seed: *seed},
	}}
	if err := r.Run(ctx, c.DB); err != nil {
		c.Logger.WithError(err).Fatal("seed failed")
	}

	tokens := jwt.NewHMACService(cfg.Auth.JWTSecret, cfg.Auth.Audience, *tokenTTL)
	for _, u := range seeder.DefaultDemoUsers {
		tok, err := tokens.GenerateAccessToken(u.ID(), u.Email())
		if err != nil {
			c.Logger.WithError(err).Fatal("token generation failed")
		}
		fmt.Printf("%-10s %s\n%s\n\n", u.Username, u.ID(), tok)
	}
	c.Logger.WithField("users", len(seeder.DefaultDemoUsers)).Info("seed complete")
}
