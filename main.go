/* main.go
 * The "main" method for running the pool server. For details about the pool see `readme.md`
 * Usage: go run . -seed-teams=true -seed="config/teams.yaml"
 * Authors: knockout-pool contributors
 */

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knockout-pool/api/api"
	"knockout-pool/api/auth"
	"knockout-pool/api/logic"
	"knockout-pool/api/store"
	"knockout-pool/web"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using the process environment")
	}

	//Flags
	seedPtr := flag.String("seed", "", "Path to a YAML team catalog. Empty uses the built in catalog")
	seedTeamsPtr := flag.String("seed-teams", "true", "Seed the team catalog when it is empty: takes true or false as argument")
	flag.Parse()

	seedTeams, err := convertStrToBool(*seedTeamsPtr)
	if err != nil {
		log.Fatal().Str("seed-teams", *seedTeamsPtr).Msg("Invalid \"seed-teams\" flag. Should be true or false")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := store.NewStore(ctx, cfg.Database, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := s.GetClient().Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := s.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	if seedTeams {
		if err := seedCatalog(ctx, s, *seedPtr); err != nil {
			log.Fatal().Err(err).Msg("failed to seed team catalog")
		}
	}

	clock := clockwork.NewRealClock()
	authenticator, err := auth.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize authenticator")
	}

	a, err := api.NewAPI(api.Config{
		Store:       s,
		Auth:        authenticator,
		Clock:       clock,
		Policy:      logic.Policy{FailOpen: cfg.FailOpen},
		AdminEmails: cfg.AdminEmails,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize API")
	}

	err = web.Start(ctx, web.Config{
		Addr:               ":" + cfg.Port,
		API:                a,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	})
	if err != nil {
		log.Error().Err(err).Msg("HTTP server stopped")
		return
	}
	log.Info().Msg("shutdown complete")
}

// seedCatalog inserts the team catalog if the teams collection is empty
func seedCatalog(ctx context.Context, s store.Interface, path string) error {
	teams := store.DefaultTeamCatalog()
	if path != "" {
		var err error
		if teams, err = store.LoadTeamCatalog(path); err != nil {
			return err
		}
	}

	inserted, err := s.SeedTeams(ctx, teams)
	if err != nil {
		return err
	}
	if inserted == 0 {
		log.Info().Msg("team catalog already present, skipping seed")
		return nil
	}
	log.Info().Int("teams", inserted).Msg("seeded team catalog")
	return nil
}
