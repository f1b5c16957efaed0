package trade

import (
	"log/slog"

	"github.com/talgya/dynasty-gm/internal/league"
)

// SlogAuditLogger writes transfer records through the default structured
// logger. The default audit sink when nothing richer is wired in.
type SlogAuditLogger struct{}

// LogTransfer implements AuditLogger.
func (SlogAuditLogger) LogTransfer(tradeID string, a *Asset, from, to league.TeamID) error {
	slog.Info("asset transferred",
		"trade", tradeID,
		"asset", a.String(),
		"from", from,
		"to", to,
	)
	return nil
}
