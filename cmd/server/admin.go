package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"typist/internal/app"
	"typist/internal/config"
	"typist/internal/model"
	"typist/internal/platform/database"
	"typist/internal/platform/logger"
	"typist/internal/repository"
	"typist/internal/seed"
)

// store is the database-only slice of the application used by the
// maintenance commands. No Redis or RabbitMQ connection is opened.
type store struct {
	cfg *config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func openStore(ctx context.Context) (*store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	log := logger.New(cfg.App.LogLevel)

	db, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return &store{cfg: cfg, log: log, db: db}, nil
}

func (s *store) authService() *app.AuthService {
	return app.NewAuthService(repository.NewUserRepository(s.db), nil, s.cfg.Auth.SecretKey, s.log)
}

func (s *store) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func createUserCmd() *cobra.Command {
	var input app.RegisterInput

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create an account, optionally with admin rights",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.authService().Register(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("create user failed: %w", err)
			}
			fmt.Printf("created user %d <%s> admin=%t\n", user.ID, user.Email, user.IsAdmin)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Email, "email", "", "login email (required)")
	flags.StringVar(&input.Password, "password", "", "plaintext password, hashed before storage (required)")
	flags.StringVar(&input.FirstName, "first-name", "", "first name")
	flags.StringVar(&input.LastName, "last-name", "", "last name")
	flags.StringVar(&input.UserName, "user-name", "", "display name")
	flags.BoolVar(&input.IsAdmin, "admin", false, "grant access to the admin console")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func seedCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load excerpts and users from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.ReadFile(path)
			if err != nil {
				return err
			}

			s, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			excerpts := app.NewExcerptService(repository.NewExcerptRepository(s.db), nil, s.log)
			res, err := seed.Apply(cmd.Context(), f, excerpts, s.authService(), s.log)
			if err != nil {
				return err
			}
			fmt.Printf("seeded %d excerpts, %d users (%d skipped)\n", res.Excerpts, res.Users, res.SkippedUsers)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "configs/seed.yaml", "seed file path")
	return cmd
}
