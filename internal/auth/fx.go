package auth

import (
	"github.com/smallbiznis/kantin/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	session.Module,
	fx.Provide(New),
)
