package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/config"
	"github.com/mealstreak/internal/db"
	"github.com/mealstreak/internal/handler"
	"github.com/mealstreak/internal/router"
	"github.com/mealstreak/internal/service"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "mealstreak",
		Short: "Meal logging, BMI and streak tracking server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "optional YAML/JSON config file")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		return err
	}

	opts := handler.Options{StaticDir: cfg.StaticDir}

	analyzer := service.NewMealAnalysisService(service.AISettings{
		Provider:       cfg.AIProvider,
		OpenAIAPIKey:   cfg.OpenAIAPIKey,
		OpenAIModel:    cfg.OpenAIModel,
		DeepSeekAPIKey: cfg.DeepSeekAPIKey,
		DeepSeekModel:  cfg.DeepSeekModel,
	})
	if analyzer.Enabled() {
		opts.Analyzer = analyzer
	} else {
		log.Printf("[ai] no api key configured, meal analysis disabled")
	}

	publisher, err := service.NewSharePublisher(ctx, cfg.ShareBucket, cfg.ShareRegion)
	if err != nil {
		log.Printf("[share] publisher disabled: %v", err)
		publisher = nil
	}
	opts.Publisher = publisher

	api := handler.NewAPI(db.DB, opts)
	r := router.SetupRouter(api, cfg.SessionSecret)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		log.Printf("[server] received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Printf("[server] stopped")
	return nil
}
