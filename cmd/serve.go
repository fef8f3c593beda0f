package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	dashboard "wallet_dashboard_back"
	"wallet_dashboard_back/pkg/auth"
	"wallet_dashboard_back/pkg/cache"
	"wallet_dashboard_back/pkg/chainclient"
	"wallet_dashboard_back/pkg/handler"
	"wallet_dashboard_back/pkg/notify"
	"wallet_dashboard_back/pkg/realtime"
	"wallet_dashboard_back/pkg/repository"
	"wallet_dashboard_back/pkg/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, realtime hub and confirmer",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	networks, err := loadNetworks()
	if err != nil {
		return err
	}
	pool := chainclient.NewPool(networks, viper.GetString("chains.mode"))
	defer pool.Close()
	if err := pool.Verify(ctx); err != nil {
		logrus.WithError(err).Warn("rpc verification failed")
	}

	tokens, err := auth.NewTokenManager(os.Getenv("JWT_SECRET"), viper.GetDuration("auth.token_ttl"))
	if err != nil {
		return err
	}
	notifier, err := notify.New(notifyConfig())
	if err != nil {
		return err
	}
	prices := service.NewCoinGeckoFeed(
		viper.GetString("price.base_url"),
		os.Getenv("COINGECKO_API_KEY"),
		cache.NewRateCache(viper.GetDuration("price.ttl")),
	)

	repos := repository.NewRepository(db)
	svc := service.NewService(repos, service.Deps{
		Chain:    pool,
		Prices:   prices,
		Tokens:   tokens,
		Notifier: notifier,
	}, service.Config{
		LoginPrefix: viper.GetString("auth.login_prefix"),
		LoginWindow: viper.GetDuration("auth.login_window"),
		Currency:    viper.GetString("price.vs_currency"),
	})

	var hub handler.Subscriber
	listener, err := realtime.Listen(dbConfig().DSN())
	if err != nil {
		logrus.WithError(err).Warn("realtime disabled")
	} else {
		defer listener.Close()
		h := realtime.NewHub(listener)
		go h.Run(ctx)
		hub = h
	}

	defaultChain := viper.GetInt64("chains.default_chain_id")
	confirmer := service.NewConfirmer(svc.History, svc.Transfer, pool, service.ConfirmerConfig{
		ChainID:     defaultChain,
		Interval:    viper.GetDuration("confirm.interval"),
		Batch:       viper.GetInt("confirm.batch"),
		ApprovalTTL: viper.GetDuration("confirm.approval_ttl"),
		PendingTTL:  viper.GetDuration("confirm.pending_ttl"),
	})
	go confirmer.Run(ctx)

	handlers := handler.NewHandler(svc, tokens, hub, handler.Options{
		AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
		DefaultChainID: defaultChain,
	})

	srv := new(dashboard.Server)
	errCh := make(chan error, 1)
	go func() {
		port := viper.GetString("server.port")
		logrus.WithField("port", port).Info("server started")
		errCh <- srv.Run(port, handlers.InitRoute())
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
	case <-ctx.Done():
	}

	// realtime streams end once the hub sees ctx done
	stop()
	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
