package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"content-studio/internal/analysis"
	"content-studio/internal/content"
	"content-studio/internal/session"
	"content-studio/internal/textbatch"
)

// Analyzer runs one piece of text through a mode.
type Analyzer interface {
	Process(ctx context.Context, text string, mode content.Mode) (content.Result, error)
}

// Messenger is the subset of the Telegram client the handler talks to.
type Messenger interface {
	SendTyping(chatID int64)
	SendText(chatID int64, text string) error
	SendTextWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) (int, error)
	AnswerCallback(callbackID, text string, alert bool) error
	SendPhotos(chatID int64, dataURLs []string, caption string) error
}

type Options struct {
	Telegram Messenger
	Analyzer Analyzer
	Sessions *session.Store
	Logger   *slog.Logger
}

type Handler struct {
	tg       Messenger
	analyzer Analyzer
	sessions *session.Store
	logger   *slog.Logger
	batcher  *textbatch.Batcher
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewStore(session.Options{})
	}

	return &Handler{
		tg:       opts.Telegram,
		analyzer: opts.Analyzer,
		sessions: sessions,
		logger:   logger,
	}
}

// SetTextBatcher routes plain text through b instead of processing each message.
func (h *Handler) SetTextBatcher(b *textbatch.Batcher) {
	h.batcher = b
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	username := msg.From.UserName

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, username, msg)
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if h.batcher != nil {
		h.batcher.Add(textbatch.Item{
			ChatID:   chatID,
			UserID:   msg.From.ID,
			Username: username,
			Text:     text,
		})
		return nil
	}
	return h.processText(ctx, chatID, username, text)
}

func (h *Handler) HandleBatch(ctx context.Context, batch textbatch.Batch) {
	if batch.Parts > 1 {
		h.logger.Debug("merged split message", "chat_id", batch.ChatID, "parts", batch.Parts)
	}
	if err := h.processText(ctx, batch.ChatID, batch.Username, batch.Text); err != nil {
		h.logger.Error("batch processing failed", "chat_id", batch.ChatID, "err", err)
	}
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, username string, msg *tgbotapi.Message) error {
	cmd := strings.ToLower(msg.Command())
	args := strings.TrimSpace(msg.CommandArguments())

	switch cmd {
	case "start":
		h.sessions.Reset(chatID)
		return h.tg.SendText(chatID, helpText(h.sessions.Mode(chatID)))
	case "help":
		return h.tg.SendText(chatID, helpText(h.sessions.Mode(chatID)))
	case "modes":
		return h.showModes(chatID)
	case "mode":
		if args == "" {
			return h.showModes(chatID)
		}
		mode, ok := content.ParseMode(args)
		if !ok {
			return h.tg.SendText(chatID, "❌ 不支持的模式："+args+"\n可选："+modeKeys())
		}
		return h.switchMode(chatID, username, mode)
	case "sample":
		mode := h.sessions.Mode(chatID)
		return h.processText(ctx, chatID, username, content.Lookup(mode).SampleText)
	case "again":
		// text still waiting in the batcher is newer than the remembered one
		if h.batcher != nil && h.batcher.Flush(chatID) {
			return nil
		}
		last := h.sessions.LastText(chatID)
		if last == "" {
			return h.tg.SendText(chatID, "还没有可以重新处理的文本，请先发送一段文字。")
		}
		return h.processText(ctx, chatID, username, last)
	}

	if mode, ok := content.ParseMode(cmd); ok {
		if err := h.switchMode(chatID, username, mode); err != nil {
			return err
		}
		if args != "" {
			return h.processText(ctx, chatID, username, args)
		}
		return nil
	}

	return h.tg.SendText(chatID, "❌ 未知命令，请使用 /help 查看帮助。")
}

func (h *Handler) handleCallback(q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil {
		return nil
	}

	mode, ok := parseModeCallback(q.Data)
	if !ok {
		return h.tg.AnswerCallback(q.ID, "无效的选项", false)
	}

	username := ""
	if q.From != nil {
		username = q.From.UserName
	}
	chatID := q.Message.Chat.ID
	h.sessions.SetMode(chatID, username, mode)

	if err := h.tg.AnswerCallback(q.ID, "已切换："+content.Lookup(mode).Title, false); err != nil {
		h.logger.Warn("answer callback failed", "err", err)
	}
	return h.tg.SendText(chatID, switchedText(mode))
}

func (h *Handler) showModes(chatID int64) error {
	current := h.sessions.Mode(chatID)
	_, err := h.tg.SendTextWithKeyboard(chatID, "当前模式："+modeLabel(current)+"\n请选择处理模式：", modesKeyboard(current))
	return err
}

func (h *Handler) switchMode(chatID int64, username string, mode content.Mode) error {
	h.sessions.SetMode(chatID, username, mode)
	return h.tg.SendText(chatID, switchedText(mode))
}

func switchedText(mode content.Mode) string {
	p := content.Lookup(mode)
	return "✅ 已切换到「" + p.Title + "」\n" + p.Description + "\n\n请发送要处理的文本，或使用 /sample 试一试。"
}

func modeKeys() string {
	keys := make([]string, 0, len(content.Modes()))
	for _, p := range content.Modes() {
		keys = append(keys, strings.ToLower(string(p.Mode)))
	}
	return strings.Join(keys, ", ")
}

func (h *Handler) processText(ctx context.Context, chatID int64, username, text string) error {
	mode := h.sessions.Mode(chatID)
	if strings.TrimSpace(text) != "" {
		h.sessions.Remember(chatID, username, text)
	}

	h.tg.SendTyping(chatID)
	_ = h.tg.SendText(chatID, "⏳ 正在以「"+content.Lookup(mode).Title+"」模式处理，请稍候...")

	res, err := h.analyzer.Process(ctx, text, mode)
	if err != nil {
		if !errors.Is(err, analysis.ErrValidation) {
			h.logger.Error("process failed", "chat_id", chatID, "mode", mode, "err", err)
		}
		return h.tg.SendText(chatID, errorReply(err))
	}

	if err := h.tg.SendText(chatID, formatResult(mode, res)); err != nil {
		return err
	}
	if len(res.GeneratedImages) > 0 {
		return h.tg.SendPhotos(chatID, res.GeneratedImages, "🖼 配图")
	}
	return nil
}
