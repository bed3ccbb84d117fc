package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/pepebot/internal/config"
	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/internal/history"
	"github.com/sandevgo/pepebot/internal/router"
	"github.com/sandevgo/pepebot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	sender  *sender
	cfg     *config.TelegramConfig
	engine  *router.Engine
	history *history.Store
	cmds    core.CmdRouter
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	engine *router.Engine,
	hist *history.Store,
	cmds core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		sender:  newSender(b),
		cfg:     cfg,
		engine:  engine,
		history: hist,
		cmds:    cmds,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	roomID := fmt.Sprintf("telegram-%d", c.Chat().ID)
	author := senderName(c)
	text := c.Text()

	plan := b.engine.Route(ctx, roomID, author, text)
	b.history.RecordUserTurn(ctx, roomID, text, author)

	if plan.Kind != core.PlanNoResponse {
		_ = c.Notify(tele.Typing)
	}

	switch plan.Kind {
	case core.PlanFacts, core.PlanLore:
		return b.reply(ctx, c, roomID, renderNarrative(plan.Narrative))

	case core.PlanFastPathCard:
		if err := b.reply(ctx, c, roomID, plan.FastPath.Ack); err != nil {
			return err
		}
		if out, handled := b.cmds.Execute(ctx, roomID, "/card "+plan.FastPath.Entity); handled {
			return b.reply(ctx, c, roomID, out)
		}
		return nil

	case core.PlanCardRecommend:
		text := fmt.Sprintf("Sounds like you want **%s**. %s", plan.Recommend.Entity, plan.Recommend.Reason)
		return b.reply(ctx, c, roomID, text)

	case core.PlanChat:
		return b.reply(ctx, c, roomID, plan.Chat.Text)

	case core.PlanCmdRoute:
		out, handled := b.cmds.Execute(ctx, roomID, plan.Cmd.Command)
		if !handled {
			logger.Warn().Str("command", plan.Cmd.Command).Msg("routed command was not handled")
			return nil
		}
		return b.reply(ctx, c, roomID, out)

	case core.PlanNoResponse:
		if b.cfg.SendFallbackEmoji && plan.NoResponse.Emoji != "" {
			return b.reply(ctx, c, roomID, plan.NoResponse.Emoji)
		}
		return nil

	default:
		logger.Error().Str("kind", string(plan.Kind)).Msg("unknown plan kind")
		return nil
	}
}

// reply sends text and records it as a bot turn, so the next routing pass
// sees the bot's own words in the transcript.
func (b *Bot) reply(ctx context.Context, c tele.Context, roomID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := b.sender.sendMarkdown(ctx, c.Chat(), text); err != nil {
		return err
	}
	b.history.RecordBotTurn(ctx, roomID, text)
	return nil
}

func renderNarrative(n *core.NarrativePayload) string {
	if n == nil {
		return ""
	}
	if len(n.Sources) == 0 {
		return n.Story
	}
	return fmt.Sprintf("%s\n\n_%s_", n.Story, strings.Join(n.Sources, " · "))
}

func senderName(c tele.Context) string {
	s := c.Sender()
	if s == nil {
		return "unknown"
	}
	if s.Username != "" {
		return s.Username
	}
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
