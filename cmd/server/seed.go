package main

import (
	"emotioncolor/internal/auth"
	"emotioncolor/internal/model"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin and user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("parse config: %w", err)
			}
			repo, err := model.InitRepository(&cfg)
			if err != nil {
				return fmt.Errorf("initialise repository: %w", err)
			}
			hasher, err := auth.NewHasher(cfg.PasswordScheme)
			if err != nil {
				return err
			}
			created, err := model.SeedDefaultUsers(cmd.Context(), repo, hasher)
			if err != nil {
				return fmt.Errorf("seed default users: %w", err)
			}
			logrus.WithField("created", created).Info("seed complete")
			return nil
		},
	}
}
