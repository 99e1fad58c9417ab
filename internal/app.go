package internal

import (
	"context"
	"time"

	"pos_core/api"
	"pos_core/internal/cart"
	"pos_core/internal/cashier"
	"pos_core/internal/catalog"
	"pos_core/internal/config"
	"pos_core/internal/logging"
	"pos_core/internal/metrics"
	"pos_core/internal/report"
	"pos_core/internal/sales"
	"pos_core/internal/storage"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

const shutdownTimeout = 15 * time.Second

func Run() error {
	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		logging.Module(),
		metrics.Module(),
		storage.Module(),
		catalog.Module(),
		cart.Module(),
		sales.Module(),
		cashier.Module(),
		report.Module(),
		api.Module(),
	)

	if err := app.Start(context.Background()); err != nil {
		return err
	}

	<-app.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.Stop(ctx)
}
