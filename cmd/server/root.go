package main

import (
	"emotioncolor/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "emotioncolor",
		Short:         "Emotion to color preference service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	root.AddCommand(newServeCommand(), newSeedCommand())
	return root
}

// loadConfig 解析配置并按配置设置日志
func loadConfig() (config.Config, error) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.ParseConfig()
	if err != nil {
		return config.Config{}, err
	}
	logrus.SetLevel(cfg.ParseLogLevel())
	return cfg, nil
}
