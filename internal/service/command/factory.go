package command

import (
	"github.com/sandevgo/wizzybot/internal/core"
)

func NewCommands(
	history HistoryStore,
	docs DocumentStore,
	sessions SessionStore,
	search Searcher,
) []core.Command {
	return []core.Command{
		NewStartCommand(),
		NewClearCommand(history, docs),
		NewStatsCommand(sessions),
		NewSearchCommand(search),
		NewNewsCommand(search),
	}
}
