package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/meinhoongagan/marketplace/config"
	"github.com/meinhoongagan/marketplace/cron"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/redis"
	"github.com/meinhoongagan/marketplace/routes"
	"github.com/meinhoongagan/marketplace/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	log := logger.L()
	defer log.Sync() //nolint:errcheck

	if err := db.Migrate(); err != nil {
		return err
	}

	if err := redis.InitRedis(cfg.Redis); err != nil {
		log.Warn("continuing without the forgot-password cooldown", zap.Error(err))
	}
	wireMedia(cfg)
	utils.Mail = utils.NewSMTPMailer(cfg.SMTP)

	scheduler, err := cron.StartCronJobs(cfg.PurgeSchedule)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	app := routes.NewApp(cfg.Auth.JWTSecret)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.String("port", cfg.Port))
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func wireMedia(cfg *config.Config) {
	if cfg.Cloudinary.CloudName == "" {
		logger.L().Warn("cloudinary not configured, uploads disabled")
		return
	}
	up, err := utils.NewCloudinaryUploader(cfg.Cloudinary)
	if err != nil {
		logger.L().Error("cloudinary init failed, uploads disabled", zap.Error(err))
		return
	}
	utils.Media = up
}
