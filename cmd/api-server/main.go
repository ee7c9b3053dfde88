package main

import (
	"fmt"
	"os"

	"Campus/config"
	"Campus/pkg/log"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)
	cfg := config.New(path)
	srv := InitServer(cfg)

	cliApp := &cli.App{
		Name: "api-server",

		Action: func(ctx *cli.Context) error {
			return srv.Run()
		},

		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					return srv.Run()
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start server", zap.Error(err))
	}
}
