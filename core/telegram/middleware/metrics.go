package middleware

import (
	tele "gopkg.in/telebot.v4"
)

// metricsContext wraps tele.Context to count sent messages and outbound text size.
type metricsContext struct{ tele.Context }

func (m metricsContext) incMessages(what interface{}) {
	// Update messages counter
	n := 0
	if v := m.Get("messages"); v != nil {
		if nv, ok := v.(int); ok {
			n = nv
		}
	}
	m.Set("messages", n+1)

	if text, ok := what.(string); ok {
		sent := 0
		if v := m.Get("sent_bytes"); v != nil {
			if sv, ok := v.(int); ok {
				sent = sv
			}
		}
		m.Set("sent_bytes", sent+len(text))
	}
}

// Send proxies tele.Context.Send while updating message counters.
func (m metricsContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.incMessages(what)
	}
	return err
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m metricsContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.incMessages(what)
	}
	return err
}

// EditOrSend proxies tele.Context.EditOrSend while updating message counters.
func (m metricsContext) EditOrSend(what interface{}, opts ...interface{}) error {
	err := m.Context.EditOrSend(what, opts...)
	if err == nil {
		m.incMessages(what)
	}
	return err
}

// MessageMetricsMiddleware instruments context to track message count and outbound size.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		// Initialize counters
		c.Set("messages", 0)
		c.Set("sent_bytes", 0)
		// Wrap context
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads message count and outbound byte totals from context.
func GetCounters(c tele.Context) (int, int) {
	msgs := 0
	if v := c.Get("messages"); v != nil {
		if n, ok := v.(int); ok {
			msgs = n
		}
	}
	sent := 0
	if v := c.Get("sent_bytes"); v != nil {
		if n, ok := v.(int); ok {
			sent = n
		}
	}
	return msgs, sent
}
