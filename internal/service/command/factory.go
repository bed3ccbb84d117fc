package command

import (
	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/internal/entity"
)

func NewCommands(index *entity.Index, searcher core.Searcher) []core.Command {
	return []core.Command{
		NewCardCommand(index, searcher),
	}
}
