package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"metrics",
		fx.Provide(prometheus.NewRegistry),
		fx.Provide(New),
	)
}
