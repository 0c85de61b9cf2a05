package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"content-studio/internal/analysis"
	"content-studio/internal/content"
)

const modeCallbackPrefix = "md"

func helpText(current content.Mode) string {
	var b strings.Builder
	b.WriteString("✍️ 中文内容工作室\n\n")
	b.WriteString("发送一段文字，我会按当前模式处理。\n")
	fmt.Fprintf(&b, "当前模式：%s\n\n", modeLabel(current))
	b.WriteString("模式：\n")
	for _, p := range content.Modes() {
		fmt.Fprintf(&b, "/%s - %s\n", strings.ToLower(string(p.Mode)), p.Title)
	}
	b.WriteString("\n其他命令：\n")
	b.WriteString("/modes - 选择模式\n")
	b.WriteString("/mode <模式> - 切换模式，例如 /mode seo\n")
	b.WriteString("/sample - 用当前模式的示例文本试一试\n")
	b.WriteString("/again - 用当前模式重新处理上一段文本\n")
	b.WriteString("/help - 帮助")
	return b.String()
}

func modeLabel(m content.Mode) string {
	return fmt.Sprintf("%s（%s）", content.Lookup(m).Title, m)
}

func modesKeyboard(current content.Mode) tgbotapi.InlineKeyboardMarkup {
	profiles := content.Modes()
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(profiles)+1)/2)
	for i := 0; i < len(profiles); i += 2 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 2)
		for _, p := range profiles[i:min(i+2, len(profiles))] {
			label := p.Title
			if p.Mode == current {
				label = "✅ " + label
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, modeCallbackPrefix+":"+string(p.Mode)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// parseModeCallback reads "md:<MODE>" callback data.
func parseModeCallback(data string) (content.Mode, bool) {
	prefix, value, ok := strings.Cut(strings.TrimSpace(data), ":")
	if !ok || prefix != modeCallbackPrefix {
		return "", false
	}
	return content.ParseMode(value)
}

func scoreLabels(m content.Mode) (string, string) {
	if m == content.ModeDetect {
		return "AI 生成概率", "人类写作可信度"
	}
	return "原文评分", "优化后预估"
}

func levelMarker(l content.Level) string {
	switch l {
	case content.LevelHigh:
		return "🔴"
	case content.LevelElevated:
		return "🟠"
	case content.LevelModerate:
		return "🟡"
	default:
		return "🟢"
	}
}

// formatResult renders a result as a plain-text chat reply.
func formatResult(m content.Mode, res content.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 %s\n", content.Lookup(m).Title)
	before, after := scoreLabels(m)
	fmt.Fprintf(&b, "%s：%.0f\n%s：%.0f\n", before, res.OriginalScore, after, res.PredictionScore)

	if critique := strings.TrimSpace(res.Critique); critique != "" {
		fmt.Fprintf(&b, "\n📝 点评\n%s\n", critique)
	}

	if len(res.Suggestions) > 0 {
		b.WriteString("\n💡 建议\n")
		for i, s := range res.Suggestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}

	if len(res.Keywords) > 0 {
		fmt.Fprintf(&b, "\n🔑 关键词：%s\n", strings.Join(res.Keywords, "、"))
	}

	if len(res.SentenceAnalysis) > 0 {
		b.WriteString("\n🔍 逐句分析\n")
		for _, s := range res.SentenceAnalysis {
			text := strings.TrimSpace(s.Text)
			if text == "" {
				continue
			}
			fmt.Fprintf(&b, "%s %.0f%% %s\n", levelMarker(content.ProbabilityLevel(s.AIProbability)), s.AIProbability, text)
		}
	}

	if m != content.ModeDetect {
		if rewritten := strings.TrimSpace(res.RewrittenText); rewritten != "" {
			fmt.Fprintf(&b, "\n✨ 优化结果\n%s\n", rewritten)
		}
	}

	if want := len(res.ImagePrompts); want > 0 {
		switch got := len(res.GeneratedImages); {
		case got == 0:
			b.WriteString("\n⚠️ 配图生成失败，仅返回文字结果。\n")
		case got < want:
			fmt.Fprintf(&b, "\n⚠️ 部分配图生成失败（%d/%d）。\n", got, want)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func errorReply(err error) string {
	var e *analysis.Error
	switch {
	case errors.As(err, &e):
		return "❌ " + e.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "⏱ 处理超时，请稍后重试或缩短文本。"
	default:
		return "❌ 出现未知错误，请稍后重试。"
	}
}
