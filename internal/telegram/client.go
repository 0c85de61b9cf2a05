package telegram

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxMessageBytes = 4096
	maxCaptionBytes = 1024
)

type Options struct {
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Debug      bool
}

type Client struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

type Update = tgbotapi.Update

type UpdatesOptions struct {
	Timeout time.Duration
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if opts.HTTPClient == nil {
		return nil, errors.New("http client is nil")
	}

	bot, err := tgbotapi.NewBotAPIWithClient(opts.Token, tgbotapi.APIEndpoint, opts.HTTPClient)
	if err != nil {
		return nil, err
	}
	bot.Debug = opts.Debug

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{bot: bot, logger: logger}, nil
}

func (c *Client) Username() string {
	return c.bot.Self.UserName
}

func (c *Client) Updates(opts UpdatesOptions) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	if opts.Timeout > 0 {
		u.Timeout = int(opts.Timeout.Seconds())
	}
	return c.bot.GetUpdatesChan(u)
}

func (c *Client) StopUpdates() {
	c.bot.StopReceivingUpdates()
}

func (c *Client) SendTyping(chatID int64) {
	_, _ = c.bot.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}

// SendText sends text as one or more messages, cutting at line breaks where possible.
func (c *Client) SendText(chatID int64, text string) error {
	for _, chunk := range splitMessage(text, maxMessageBytes) {
		if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) SendTextWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, truncateByBytes(text, maxMessageBytes))
	msg.ReplyMarkup = kb
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) AnswerCallback(callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	_, err := c.bot.Request(cb)
	return err
}

// SendPhotos sends data-URL images in order; the caption goes on the first one.
// A broken image is logged and skipped.
func (c *Client) SendPhotos(chatID int64, dataURLs []string, caption string) error {
	sent := 0
	for i, dataURL := range dataURLs {
		sendCaption := ""
		if sent == 0 {
			sendCaption = caption
		}

		mimeType, data, err := decodeDataURL(dataURL)
		if err != nil {
			c.logger.Warn("skip undecodable image", "chat_id", chatID, "index", i, "err", err)
			continue
		}

		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
			Name:  fmt.Sprintf("illustration-%d%s", i+1, extensionFor(mimeType)),
			Bytes: data,
		})
		if sendCaption != "" {
			photo.Caption = truncateByBytes(sendCaption, maxCaptionBytes)
		}
		if _, err := c.bot.Send(photo); err != nil {
			return err
		}
		sent++
	}
	return nil
}

func decodeDataURL(value string) (string, []byte, error) {
	value = strings.TrimSpace(value)
	const prefix = "data:"
	if !strings.HasPrefix(value, prefix) {
		return "", nil, errors.New("not a data url")
	}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(value, prefix), ",")
	if !ok {
		return "", nil, errors.New("invalid data url")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, errors.New("data url is not base64")
	}

	mimeType := strings.TrimSpace(strings.TrimSuffix(meta, ";base64"))
	if mimeType == "" {
		mimeType = "image/png"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64: %w", err)
	}
	return mimeType, data, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
		return exts[0]
	}
	return ".png"
}

// splitMessage cuts text into chunks of at most maxBytes, preferring the last
// line break inside each window and never splitting a rune.
func splitMessage(text string, maxBytes int) []string {
	if len(text) <= maxBytes || maxBytes <= 0 {
		return []string{text}
	}

	var out []string
	for len(text) > maxBytes {
		window := truncateByBytes(text, maxBytes)
		cut := len(window)
		if nl := strings.LastIndexByte(window, '\n'); nl > 0 {
			cut = nl + 1
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

func truncateByBytes(text string, maxBytes int) string {
	if len(text) <= maxBytes || maxBytes <= 0 {
		return text
	}

	cut := 0
	for i, r := range text {
		size := utf8.RuneLen(r)
		if size < 0 {
			size = 1
		}
		if i+size > maxBytes {
			break
		}
		cut = i + size
	}
	return text[:cut]
}
