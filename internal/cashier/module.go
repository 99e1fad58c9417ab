package cashier

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"cashier",
		fx.Provide(NewService),
	)
}
