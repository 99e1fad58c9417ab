package sales

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"sales",
		fx.Provide(NewService),
	)
}
