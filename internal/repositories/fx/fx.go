package fx

import (
	"github.com/orgball2608/stories-telegram-bot/internal/repositories/session"
	"go.uber.org/fx"
)

var Module = fx.Options(
	session.Module,
)
