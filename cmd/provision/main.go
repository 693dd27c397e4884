// Command provision creates one evaluation form per participant listed in the participants file
// and writes the name,formId pairs to the forms file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	evalforms "github.com/Jumpaku/go-evalforms"
	"github.com/Jumpaku/go-evalforms/config"
	"github.com/Jumpaku/go-evalforms/logging"
	"github.com/Jumpaku/go-evalforms/mapping"
	"github.com/Jumpaku/go-evalforms/provision"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	var (
		configFlag  = flag.String("config", "", "Path to a YAML configuration file (defaults are used when empty)")
		confirmFlag = flag.Bool("confirm", false, "Ask for confirmation before creating the forms (interactive terminals only)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Logger)
	if err != nil {
		log.Fatal(err)
	}
	logger = logging.WithRun(logger, "provision")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *confirmFlag); err != nil {
		logger.Error("provision failed", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, askFirst bool) error {
	participants, err := mapping.ReadParticipants(cfg.ParticipantsFile)
	if err != nil {
		fmt.Println(provision.InputMessage(err))
		logger.Warn("no participants to provision", zap.String("file", cfg.ParticipantsFile), zap.Error(err))
		return nil
	}

	if askFirst {
		if !interactive(os.Stdin) {
			logger.Warn("stdin is not a terminal, skipping confirmation")
		} else {
			ok, err := confirm(len(participants), cfg.FormsInfoFile)
			if err != nil {
				return err
			}
			if !ok {
				logger.Info("canceled by user")
				return nil
			}
		}
	}

	settings, err := provision.SettingsFromConfig(cfg)
	if err != nil {
		return err
	}
	service, err := evalforms.Dial(ctx, cfg.CredentialsFile, cfg.ProvisionScopes,
		evalforms.WithRequestsPerMinute(cfg.RequestsPerMinute))
	if err != nil {
		return err
	}

	report, err := provision.New(service, settings, logger).Run(ctx, participants)
	if err != nil {
		return err
	}
	if _, err := report.WriteTo(os.Stdout); err != nil {
		return err
	}
	if err := report.Save(os.Stdout, cfg.FormsInfoFile); err != nil {
		logger.Error("failed to save forms file", zap.String("file", cfg.FormsInfoFile), zap.Error(err))
	}
	logger.Info("provisioning finished",
		zap.Int("participants", len(report.Outcomes)),
		zap.Int("failed", report.Failed()),
		zap.Int("recorded", len(report.Entries())))
	return nil
}

func interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// confirm prompts on stderr so that stdout only carries the report.
func confirm(participants int, formsFile string) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Создать %d форм и перезаписать %s?", participants, formsFile),
		Default: true,
	}
	if err := survey.AskOne(prompt, &ok, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)); err != nil {
		if err == terminal.InterruptErr {
			return false, nil
		}
		return false, fmt.Errorf("failed to ask for confirmation: %w", err)
	}
	return ok, nil
}
