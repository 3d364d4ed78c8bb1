package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/askrobots/intakebot/core/buildinfo"
	corecmd "github.com/askrobots/intakebot/core/cmd"
	"github.com/askrobots/intakebot/internal/bot"
)

func main() {
	showVersion := flag.Bool("version", false, "print build info and exit")
	flag.Parse()
	if *showVersion {
		fmt.Printf("intakebot %s (%s %s)\n", buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		os.Exit(0)
	}

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.New(cfg.(*bot.Config))
		},
	})
	if err != nil {
		log.Fatalf("intakebot: %v", err)
	}
}
