package requester

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the backend transport. Requests carry bearer tokens and
// log under the "requester" name.
var Module = fx.Module("requester",
	fx.Provide(
		NewHTTPRequester,
		fx.Annotate(
			NewBearerAuthManager,
			fx.As(new(AuthManager)),
		),
	),
	fx.Decorate(func(logger *zap.Logger) *zap.Logger {
		return logger.Named("requester")
	}),
)
