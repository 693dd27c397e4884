// Command aggregate prints the average score of every form listed in the forms file,
// flagging forms whose number of responses differs from the number of participants.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	evalforms "github.com/Jumpaku/go-evalforms"
	"github.com/Jumpaku/go-evalforms/aggregate"
	"github.com/Jumpaku/go-evalforms/config"
	"github.com/Jumpaku/go-evalforms/logging"
	"github.com/Jumpaku/go-evalforms/mapping"
	"go.uber.org/zap"
)

func main() {
	var (
		configFlag = flag.String("config", "", "Path to a YAML configuration file (defaults are used when empty)")
		jsonFlag   = flag.Bool("json", false, "Print the report as JSON instead of text")
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
	logger = logging.WithRun(logger, "aggregate")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *jsonFlag); err != nil {
		logger.Error("aggregate failed", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, asJSON bool) error {
	lines, err := mapping.ReadEntries(cfg.FormsInfoFile)
	if err != nil {
		fmt.Println(aggregate.InputMessage(err))
		logger.Warn("no forms to aggregate", zap.String("file", cfg.FormsInfoFile), zap.Error(err))
		return nil
	}

	service, err := evalforms.Dial(ctx, cfg.CredentialsFile, cfg.AggregateScopes,
		evalforms.WithRequestsPerMinute(cfg.RequestsPerMinute))
	if err != nil {
		return err
	}

	report := aggregate.New(service, logger).Run(ctx, lines)
	if asJSON {
		err = report.WriteJSON(os.Stdout)
	} else {
		_, err = report.WriteTo(os.Stdout)
	}
	if err != nil {
		return err
	}
	logger.Info("aggregation finished",
		zap.Int("forms", len(report.Entries)),
		zap.Int("failed", report.Failed()))
	return nil
}
