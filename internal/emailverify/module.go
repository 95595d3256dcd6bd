package emailverify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/mailotp/internal/emailverify/inbound"
	"github.com/shandysiswandi/mailotp/internal/emailverify/outbound/db"
	"github.com/shandysiswandi/mailotp/internal/emailverify/outbound/limiter"
	"github.com/shandysiswandi/mailotp/internal/emailverify/outbound/notifier"
	"github.com/shandysiswandi/mailotp/internal/emailverify/outbound/store"
	"github.com/shandysiswandi/mailotp/internal/emailverify/usecase"
	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
	"github.com/shandysiswandi/mailotp/internal/pkg/config"
	"github.com/shandysiswandi/mailotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailotp/internal/pkg/hash"
	"github.com/shandysiswandi/mailotp/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/mail"
	"github.com/shandysiswandi/mailotp/internal/pkg/messaging"
	"github.com/shandysiswandi/mailotp/internal/pkg/otp"
	"github.com/shandysiswandi/mailotp/internal/pkg/router"
	"github.com/shandysiswandi/mailotp/internal/pkg/uid"
	"github.com/shandysiswandi/mailotp/internal/pkg/validator"
)

const (
	DriverMemory    = "memory"
	DriverRedis     = "redis"
	DriverMail      = "mail"
	DriverMessaging = "messaging"
)

var (
	ErrRedisRequired      = errors.New("emailverify: redis driver selected but no redis connection")
	ErrMailRequired       = errors.New("emailverify: mail transport required")
	ErrMessagingRequired  = errors.New("emailverify: messaging required")
	ErrDBRequired         = errors.New("emailverify: registry enabled but no database connection")
	ErrSecretRequired     = errors.New("emailverify: code_secret is required with the redis store")
	ErrSweeperNotStarted  = errors.New("emailverify: sweeper could not be started")
	ErrConsumerNotStarted = errors.New("emailverify: consumer could not be started")
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`

	// Optional, required only by the drivers that use them.
	CacheConn   redis.UniversalClient
	DBConn      *pgxpool.Pool
	Mail        mail.Mail
	Messaging   messaging.Messaging
	Idempotency idempotency.Idempotency
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	cfg := dep.Config

	gen, err := otp.NewNumeric(cfg.GetInt("modules.emailverify.code_length"))
	if err != nil {
		return err
	}

	storeDriver := driverName(cfg, "modules.emailverify.store.driver", DriverMemory)
	if storeDriver != DriverMemory && storeDriver != DriverRedis {
		return fmt.Errorf("emailverify: unknown store driver %q", storeDriver)
	}

	secret, err := codeSecret(cfg, storeDriver)
	if err != nil {
		return err
	}

	ttl := cfg.GetSecond("modules.emailverify.otp_ttl_seconds")
	if ttl <= 0 {
		ttl = store.DefaultTTL
	}

	storeOpts := store.Options{
		TTL:         ttl,
		MaxAttempts: cfg.GetInt("modules.emailverify.max_attempts"),
		Generator:   gen,
		Hash:        hash.NewHMACSHA256(secret),
		Clock:       dep.Clock,
	}
	limiterOpts := limiter.Options{
		Window: cfg.GetSecond("modules.emailverify.rate_window_seconds"),
		Max:    cfg.GetInt("modules.emailverify.rate_max_requests"),
		Clock:  dep.Clock,
	}

	var codeStore usecase.Store
	switch storeDriver {
	case DriverMemory:
		codeStore = store.NewMemory(storeOpts)
	case DriverRedis:
		if dep.CacheConn == nil {
			return ErrRedisRequired
		}
		codeStore = store.NewRedis(dep.CacheConn, cfg.GetString("modules.emailverify.store.redis_prefix"), storeOpts, dep.Instrument)
	default:
		return fmt.Errorf("emailverify: unknown store driver %q", storeDriver)
	}

	var originLimiter usecase.Limiter
	switch driver := driverName(cfg, "modules.emailverify.limiter.driver", DriverMemory); driver {
	case DriverMemory:
		originLimiter = limiter.NewMemory(limiterOpts)
	case DriverRedis:
		if dep.CacheConn == nil {
			return ErrRedisRequired
		}
		originLimiter = limiter.NewRedis(dep.CacheConn, cfg.GetString("modules.emailverify.limiter.redis_prefix"), limiterOpts, dep.Instrument)
	default:
		return fmt.Errorf("emailverify: unknown limiter driver %q", driver)
	}

	consumerEnabled := cfg.GetBool("modules.emailverify.consumer.enabled")

	var mailer *notifier.Mail
	if dep.Mail != nil {
		mailer, err = notifier.NewMail(dep.Mail, notifier.MailOptions{
			Brand:        cfg.GetString("modules.emailverify.notifier.brand"),
			Timeout:      cfg.GetSecond("modules.emailverify.notifier.timeout_seconds"),
			MaxPerSecond: cfg.GetFloat64("modules.emailverify.notifier.max_per_second"),
			Burst:        cfg.GetInt("modules.emailverify.notifier.burst"),
			RetryMax:     uint64(max(cfg.GetInt("modules.emailverify.notifier.retry_max"), 0)),
		}, dep.Instrument)
		if err != nil {
			return err
		}
	}

	var codeNotifier usecase.Notifier
	switch driver := driverName(cfg, "modules.emailverify.notifier.driver", DriverMail); driver {
	case DriverMail:
		if mailer == nil {
			return ErrMailRequired
		}
		codeNotifier = mailer
	case DriverMessaging:
		if dep.Messaging == nil {
			return ErrMessagingRequired
		}
		codeNotifier = notifier.NewBroker(dep.Messaging, dep.UUID, dep.Instrument)
	default:
		return fmt.Errorf("emailverify: unknown notifier driver %q", driver)
	}

	ucDep := usecase.Dependency{
		Store:       codeStore,
		Limiter:     originLimiter,
		Notifier:    codeNotifier,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      cfg,
		Clock:       dep.Clock,
		UID:         dep.UID,
		Instrument:  dep.Instrument,
		TTL:         ttl,
	}

	if consumerEnabled {
		if mailer == nil {
			return ErrMailRequired
		}
		ucDep.Mailer = mailer
	}

	if cfg.GetBool("modules.emailverify.registry.enabled") {
		if dep.DBConn == nil {
			return ErrDBRequired
		}
		registry := db.NewDB(dep.DBConn, dep.Instrument)
		if err := registry.Migrate(dep.Ctx); err != nil {
			return fmt.Errorf("emailverify: migrate registry: %w", err)
		}
		ucDep.RepoDB = registry
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	interval := cfg.GetSecond("modules.emailverify.sweep_interval_seconds")
	if !dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
		return uc.RunSweeper(ctx, interval)
	}) {
		return ErrSweeperNotStarted
	}

	if consumerEnabled {
		if dep.Messaging == nil {
			return ErrMessagingRequired
		}
		if !inbound.RegisterMQConsumer(dep.Ctx, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument,
			cfg.GetInt("modules.emailverify.consumer.concurrency")) {
			return ErrConsumerNotStarted
		}
	}

	slog.InfoContext(dep.Ctx, "module emailverify ready",
		"store", storeDriver,
		"ttl_seconds", int64(ttl.Seconds()),
		"consumer", consumerEnabled,
	)

	return nil
}

func driverName(cfg config.Config, key, fallback string) string {
	if v := strings.ToLower(strings.TrimSpace(cfg.GetString(key))); v != "" {
		return v
	}
	return fallback
}

// codeSecret returns the HMAC key for stored codes. A process-local store can
// run on a random key; a shared store needs one key across replicas.
func codeSecret(cfg config.Config, storeDriver string) (string, error) {
	if secret := cfg.GetString("modules.emailverify.code_secret"); secret != "" {
		return secret, nil
	}
	if storeDriver == DriverRedis {
		return "", ErrSecretRequired
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	slog.Warn("modules.emailverify.code_secret is empty, using a random per-process secret")

	return hex.EncodeToString(b), nil
}
