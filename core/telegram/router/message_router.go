package router

import (
	"time"

	tg "github.com/askrobots/intakebot/core/telegram"
	"github.com/askrobots/intakebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls fallback behaviour for plain text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for text routing.
// Slash commands typed as plain text resolve through the registry first,
// everything else goes to the registry's text fallback.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
