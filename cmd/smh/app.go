package main

import (
	"context"
	"fmt"

	"github.com/smallbiznis/smh/internal/appdata"
	appdatadomain "github.com/smallbiznis/smh/internal/appdata/domain"
	"github.com/smallbiznis/smh/internal/billing"
	"github.com/smallbiznis/smh/internal/clock"
	"github.com/smallbiznis/smh/internal/config"
	"github.com/smallbiznis/smh/internal/ids"
	"github.com/smallbiznis/smh/internal/invoice"
	invoicedomain "github.com/smallbiznis/smh/internal/invoice/domain"
	"github.com/smallbiznis/smh/internal/observability"
	"github.com/smallbiznis/smh/internal/resource"
	resourcedomain "github.com/smallbiznis/smh/internal/resource/domain"
	"github.com/smallbiznis/smh/internal/session"
	smhlog "github.com/smallbiznis/smh/pkg/log"
	"github.com/smallbiznis/smh/pkg/persist"
	"github.com/smallbiznis/smh/pkg/storage"
	"github.com/smallbiznis/smh/pkg/telemetry"
	"github.com/smallbiznis/smh/pkg/telemetry/correlation"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// deps is what a command can reach once the application has started.
type deps struct {
	fx.In

	Config    config.Config
	Settings  *config.SettingsHolder
	Log       *zap.Logger
	Adapter   *persist.Adapter
	AppData   appdatadomain.Service
	Resources resourcedomain.Service
	Invoices  invoicedomain.Service
	Billing   *billing.Service
	Intro     *session.IntroFlag
	Tracer    *sdktrace.TracerProvider
}

func modules() fx.Option {
	return fx.Options(
		// Core infrastructure
		config.Module,
		observability.Module,
		telemetry.Module,
		clock.Module,
		ids.Module,
		storage.Module,
		persist.Module,

		// Stores
		resource.Module,
		appdata.Module,
		invoice.Module,
		billing.Module,
		session.Module,

		fx.Invoke(registerLiveDates),
	)
}

// registerLiveDates keeps demo bookings on today's date when enabled.
func registerLiveDates(lc fx.Lifecycle, cfg config.Config, svc appdatadomain.Service, log *zap.Logger) {
	if !cfg.DemoLiveDates {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if svc.CoerceBookingDates(ctx) {
				log.Info("demo live dates applied")
			}
			return nil
		},
	})
}

// withApp starts the application, runs fn inside a span named after the
// command and stops the application once fn returns.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, d deps) error) error {
	ctx := cmd.Context()
	var d deps
	app := fx.New(
		modules(),
		fx.Populate(&d),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Named("fx")}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
	)

	ctx, _ = correlation.EnsureCorrelationID(ctx)
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	ctx, span := otel.Tracer("smh/cli").Start(ctx, cmd.CommandPath())
	runErr := fn(ctx, d)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "command failed")
		smhlog.With(ctx, d.Log).Debug("command failed", zap.Error(runErr))
	}
	span.End()

	if err := app.Stop(context.WithoutCancel(ctx)); err != nil && runErr == nil {
		return fmt.Errorf("stop: %w", err)
	}
	return runErr
}
