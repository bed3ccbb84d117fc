package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/internal/entity"
)

const cardTopK = 3

// CardCommand renders a card sheet: catalog lookup plus the best
// card-data passages for it.
type CardCommand struct {
	index     *entity.Index
	searcher  core.Searcher
	formatter *ResponseFormatter
}

func NewCardCommand(index *entity.Index, searcher core.Searcher) *CardCommand {
	return &CardCommand{
		index:     index,
		searcher:  searcher,
		formatter: NewResponseFormatter(),
	}
}

func (c *CardCommand) Name() string        { return "card" }
func (c *CardCommand) Description() string { return "show a card's details, e.g. /card FREEDOMKEK" }

func (c *CardCommand) Execute(ctx context.Context, _ string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Usage("/card <name>"), nil
	}

	name := strings.ToUpper(strings.Join(args, " "))
	if !c.index.Known(name) {
		return fmt.Sprintf("Never heard of %s. Check the spelling, or /help.", name), nil
	}

	hits, err := c.searcher.Search(ctx, name, core.SourceCardData, cardTopK, 0)
	if err != nil {
		return "", fmt.Errorf("card lookup failed: %w", err)
	}

	header := c.formatter.Label("Card", name)
	if len(hits) == 0 {
		return c.formatter.Combine(header, "It's in the catalog, but I have no notes on it yet."), nil
	}

	var lines []string
	for _, h := range hits {
		lines = append(lines, h.Text)
	}
	return c.formatter.Combine(header, strings.Join(lines, "\n\n")), nil
}
