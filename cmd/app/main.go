package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"creator-payment-ledger/internal/config"
	pg "creator-payment-ledger/internal/infra/db/postgres"
	"creator-payment-ledger/internal/infra/i18n"
	"creator-payment-ledger/internal/infra/logging"
	"creator-payment-ledger/internal/infra/mail"
	"creator-payment-ledger/internal/infra/metrics"
	payAdapters "creator-payment-ledger/internal/infra/payment"
	red "creator-payment-ledger/internal/infra/redis"
	"creator-payment-ledger/internal/infra/sched"
	"creator-payment-ledger/internal/infra/security"
	"creator-payment-ledger/internal/infra/storage"
	"creator-payment-ledger/internal/infra/web"
	"creator-payment-ledger/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed redaction)")
	lang := flag.String("lang", "pt-BR", "locale for payer-facing messages")
	flag.Parse()

	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)
	invalidator := red.NewInvalidator(redisClient)
	tipPublisher := red.NewTipPublisher(redisClient)
	earningsCache := red.NewEarningsCache(redisClient, cfg.Redis.TTL)

	// ---- Encryption ----
	cipher, err := security.NewCipher(cfg.Security.EncryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("encryption")
	}

	// ---- i18n ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, *lang)
	if err != nil {
		logger.Fatal().Err(err).Str("lang", *lang).Msg("i18n")
	}

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	purchaseRepo := pg.NewPurchaseRepo(pool)
	balanceRepo := pg.NewBalanceRepo(pool)
	userRepo := pg.NewUserRepo(pool, cipher)
	creatorRepo := pg.NewCreatorRepo(pool)
	contentRepo := pg.NewContentRepo(pool)

	// ---- Adapters ----
	gateway := payAdapters.NewAsaasGateway(cfg.Gateway.BaseURL, cfg.Gateway.AccessToken, cfg.Gateway.Sandbox)
	signer, err := storage.NewS3Signer(ctx, cfg.Media.Bucket, cfg.Media.Region)
	if err != nil {
		logger.Fatal().Err(err).Msg("s3 signer")
	}
	mailer := mail.NewSMTPMailer(cfg.Mail, translator, logger)

	// ---- Use cases ----
	feeCalc := usecase.NewFeeCalculator(usecase.FeePolicy{
		GatewayFixedFee: cfg.Fees.GatewayFixedFee,
		GatewayFeeBps:   cfg.Fees.GatewayFeeBps,
		PlatformFeeBps:  cfg.Fees.PlatformFeeBps,
		MinTipAmount:    cfg.Fees.MinTipAmount,
		MinPriceAmount:  cfg.Fees.MinPriceAmount,
	})
	checkoutUC := usecase.NewCheckoutUseCase(
		paymentRepo, subRepo, purchaseRepo, userRepo, creatorRepo, contentRepo,
		gateway, feeCalc,
		usecase.CheckoutConfig{ProPlanPrice: cfg.ProPlan.Price, ProPlanDurationDays: cfg.ProPlan.DurationDays},
		logger,
	)
	reconcileUC := usecase.NewReconcileUseCase(
		paymentRepo, balanceRepo, subRepo, purchaseRepo, creatorRepo, userRepo,
		gateway, txManager, mailer, tipPublisher, invalidator,
		usecase.ReconcilePolicy{RevokeSubscriptionOnRefund: cfg.Refund.RevokeSubscriptionOnRefund},
		logger,
	)
	mediaUC := usecase.NewMediaTokenUseCase(
		cfg.Media.TokenSecret, cfg.Media.TokenTTL, cfg.Media.URLTTL,
		subRepo, purchaseRepo, contentRepo, signer,
		logger,
	)
	earningsUC := usecase.NewEarningsUseCase(balanceRepo, paymentRepo, earningsCache, logger)

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- HTTP server ----
	srv := web.NewServer(
		checkoutUC, reconcileUC, mediaUC, earningsUC,
		rateLimiter, translator,
		cfg.Server.AuthSecret, cfg.Server.AdminAPIKey, cfg.Gateway.WebhookToken,
		logger,
	)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Background workers ----
	reconciler := sched.NewPaymentReconciler(reconcileUC, paymentRepo, locker, cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
	go func() { _ = reconciler.Run(ctx) }()

	expiry := sched.NewExpiryWorker(5*time.Minute, subRepo, creatorRepo, logger)
	go func() { _ = expiry.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}
