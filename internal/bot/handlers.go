package bot

import (
	"fmt"

	tghelpers "github.com/askrobots/intakebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const helpText = `I collect a few onboarding answers (family size, household income, gender) and then answer free-text questions.

Send any message to begin. Say "start over" at any time to restart from the first question.`

// onText feeds every plain text message through the conversation engine.
func (a *App) onText(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "conversation")
	reply := a.engine.Process(ctx, c.Sender().ID, c.Text())
	return tghelpers.SendText(c, reply)
}

// onStart always restarts onboarding, regardless of the stored stage.
func (a *App) onStart(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	reply := a.engine.Process(ctx, c.Sender().ID, "start over")
	return tghelpers.SendText(c, reply)
}

func (a *App) onHelp(c tele.Context) error {
	tghelpers.WithHandler(c, "help")
	return tghelpers.SendText(c, helpText)
}

// onStats reports stored exchange totals. Admin only, wired via the command router.
func (a *App) onStats(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "stats")
	st, err := a.stats.Stats(ctx)
	if err != nil {
		return tghelpers.SendText(c, "Stats are unavailable right now.")
	}
	return tghelpers.SendMD(c, fmt.Sprintf("*Conversations*\nExchanges: %d\nUsers: %d", st.Exchanges, st.Users))
}
