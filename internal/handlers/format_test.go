package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"content-studio/internal/analysis"
	"content-studio/internal/content"
)

func TestFormatResultDetect(t *testing.T) {
	res := content.Result{
		OriginalScore:   85,
		PredictionScore: 15,
		Critique:        "句式过于工整。",
		Suggestions:     []string{"加入口语"},
		RewrittenText:   "原文",
		SentenceAnalysis: []content.SentenceScore{
			{Text: "第一句。", AIProbability: 90},
			{Text: "第二句。", AIProbability: 30},
		},
	}

	got := formatResult(content.ModeDetect, res)
	for _, want := range []string{"AI 生成概率：85", "人类写作可信度：15", "句式过于工整", "1. 加入口语", "🔴 90% 第一句。", "🟢 30% 第二句。"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "优化结果") {
		t.Errorf("DETECT reply should not repeat the input as a rewrite")
	}
}

func TestFormatResultOptimize(t *testing.T) {
	res := content.Result{
		OriginalScore:   40,
		PredictionScore: 88,
		RewrittenText:   "新标题\n新正文",
		Keywords:        []string{"旅行", "美食"},
		ImagePrompts:    []string{"a", "b", "c"},
		GeneratedImages: []string{"x"},
	}

	got := formatResult(content.ModeSEO, res)
	for _, want := range []string{"原文评分：40", "优化后预估：88", "关键词：旅行、美食", "✨ 优化结果\n新标题\n新正文", "部分配图生成失败（1/3）"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatResultAllImagesFailed(t *testing.T) {
	got := formatResult(content.ModeWechat, content.Result{ImagePrompts: []string{"a"}})
	if !strings.Contains(got, "配图生成失败，仅返回文字结果") {
		t.Errorf("got:\n%s", got)
	}
}

func TestLevelMarker(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{95, "🔴"}, {65, "🟠"}, {45, "🟡"}, {5, "🟢"},
	}
	for _, tt := range tests {
		if got := levelMarker(content.ProbabilityLevel(tt.p)); got != tt.want {
			t.Errorf("levelMarker(%v) = %s, want %s", tt.p, got, tt.want)
		}
	}
}

func TestParseModeCallback(t *testing.T) {
	if m, ok := parseModeCallback("md:seo"); !ok || m != content.ModeSEO {
		t.Errorf("parse = %s %v", m, ok)
	}
	for _, bad := range []string{"", "md", "md:poem", "pv:SEO"} {
		if _, ok := parseModeCallback(bad); ok {
			t.Errorf("parseModeCallback(%q) accepted", bad)
		}
	}
}

func TestModesKeyboardMarksCurrent(t *testing.T) {
	kb := modesKeyboard(content.ModeSEO)
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d", len(kb.InlineKeyboard))
	}

	marked := 0
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if strings.HasPrefix(btn.Text, "✅") {
				marked++
				if btn.CallbackData == nil || *btn.CallbackData != "md:SEO" {
					t.Errorf("marked button data = %v", btn.CallbackData)
				}
			}
		}
	}
	if marked != 1 {
		t.Errorf("marked = %d", marked)
	}
}

func TestErrorReply(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "校验错误", err: &analysis.Error{Kind: analysis.KindValidation, Message: "内容不能为空"}, want: "❌ 内容不能为空"},
		{name: "超时", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: "⏱ 处理超时，请稍后重试或缩短文本。"},
		{name: "未知", err: errors.New("boom"), want: "❌ 出现未知错误，请稍后重试。"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorReply(tt.err); got != tt.want {
				t.Errorf("errorReply = %q, want %q", got, tt.want)
			}
		})
	}
}
