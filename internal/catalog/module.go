package catalog

import (
	"context"

	"pos_core/internal/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"catalog",
		fx.Provide(NewService),
		fx.Invoke(func(lc fx.Lifecycle, svc *Service, cfg config.Config) {
			if !cfg.SeedProducts {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					_, err := svc.SeedDefaults(ctx)
					return err
				},
			})
		}),
	)
}
