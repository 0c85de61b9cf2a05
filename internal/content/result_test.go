package content

import (
	"errors"
	"strings"
	"testing"
)

const validPayload = `{
  "originalScore": 82,
  "predictionScore": 35,
  "critique": "句式单一。",
  "suggestions": ["增加细节", "减少连接词", "变化句长"],
  "rewrittenText": "改写后的文本",
  "keywords": ["西瓜", " ", "健康"],
  "sentenceAnalysis": [
    {"text": "西瓜对健康有益。", "aiProbability": 90},
    {"text": "它们含有维生素和水分。", "aiProbability": 40}
  ],
  "imagePrompts": ["a watermelon on a table", "summer picnic"]
}`

func TestDecode(t *testing.T) {
	res, err := Decode(validPayload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.OriginalScore != 82 || res.PredictionScore != 35 {
		t.Errorf("scores = %v, %v", res.OriginalScore, res.PredictionScore)
	}
	if len(res.Suggestions) != 3 {
		t.Errorf("suggestions = %v", res.Suggestions)
	}
	if len(res.Keywords) != 2 {
		t.Errorf("blank keywords not dropped: %v", res.Keywords)
	}
	if len(res.SentenceAnalysis) != 2 || res.SentenceAnalysis[1].AIProbability != 40 {
		t.Errorf("sentenceAnalysis = %+v", res.SentenceAnalysis)
	}
}

func TestDecodeCodeFence(t *testing.T) {
	res, err := Decode("```json\n" + validPayload + "\n```")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Critique != "句式单一。" {
		t.Errorf("critique = %q", res.Critique)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
		detail  string
	}{
		{name: "空响应", raw: "  ", wantErr: ErrEmptyResponse},
		{name: "非JSON", raw: "抱歉，我无法处理", wantErr: ErrEmptyResponse, detail: "bad JSON"},
		{
			name:    "缺少必填字段",
			raw:     `{"originalScore": 10, "predictionScore": 20, "critique": "x"}`,
			wantErr: ErrSchemaViolation,
			detail:  "suggestions, rewrittenText",
		},
		{
			name:    "原始分数越界",
			raw:     `{"originalScore": 120, "predictionScore": 20, "critique": "x", "suggestions": [], "rewrittenText": "y"}`,
			wantErr: ErrSchemaViolation,
			detail:  "originalScore",
		},
		{
			name:    "预测分数为负",
			raw:     `{"originalScore": 10, "predictionScore": -1, "critique": "x", "suggestions": [], "rewrittenText": "y"}`,
			wantErr: ErrSchemaViolation,
			detail:  "predictionScore",
		},
		{
			name:    "句子概率越界",
			raw:     `{"originalScore": 10, "predictionScore": 1, "critique": "x", "suggestions": [], "rewrittenText": "y", "sentenceAnalysis": [{"text": "a", "aiProbability": 101}]}`,
			wantErr: ErrSchemaViolation,
			detail:  "sentenceAnalysis[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.detail != "" && !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("err %q does not mention %q", err, tt.detail)
			}
		})
	}
}

func TestDecodeEmptySuggestionsAllowed(t *testing.T) {
	res, err := Decode(`{"originalScore": 0, "predictionScore": 100, "critique": "", "suggestions": [], "rewrittenText": ""}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Suggestions == nil || len(res.Suggestions) != 0 {
		t.Errorf("suggestions = %#v", res.Suggestions)
	}
}

func TestShapeDetect(t *testing.T) {
	input := "西瓜对健康有益。它们含有维生素和水分。"
	res, err := Decode(validPayload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got := Shape(res, ModeDetect, input)
	if got.RewrittenText != input {
		t.Errorf("rewrittenText = %q, want input verbatim", got.RewrittenText)
	}
	if len(got.ImagePrompts) != 0 {
		t.Errorf("imagePrompts = %v, want none", got.ImagePrompts)
	}
	if len(got.SentenceAnalysis) != 2 {
		t.Fatalf("sentenceAnalysis = %+v", got.SentenceAnalysis)
	}
	if got.SentenceAnalysis[0].AIProbability != 90 {
		t.Errorf("model probability not kept: %+v", got.SentenceAnalysis[0])
	}
}

func TestShapeDetectKeepsParagraphBreaks(t *testing.T) {
	input := "第一段第一句。\n\n第二段第一句。"
	res := Result{
		OriginalScore: 50,
		SentenceAnalysis: []SentenceScore{
			{Text: "第一段第一句。", AIProbability: 85},
			{Text: "第二段第一句。", AIProbability: 15},
		},
	}

	got := Shape(res, ModeDetect, input)

	var joined strings.Builder
	for _, s := range got.SentenceAnalysis {
		joined.WriteString(s.Text)
	}
	if joined.String() != input {
		t.Fatalf("joined = %q, want %q", joined.String(), input)
	}
	if len(got.SentenceAnalysis) != 2 {
		t.Fatalf("sentenceAnalysis = %+v", got.SentenceAnalysis)
	}
	if got.SentenceAnalysis[0].AIProbability != 85 || got.SentenceAnalysis[1].AIProbability != 15 {
		t.Errorf("model probabilities not reused: %+v", got.SentenceAnalysis)
	}
}

func TestShapeDetectRealignsMissingSentence(t *testing.T) {
	input := "西瓜对健康有益。它们含有维生素和水分。你应该在夏天吃它们。"
	res := Result{
		OriginalScore: 55,
		SentenceAnalysis: []SentenceScore{
			{Text: "西瓜对健康有益。", AIProbability: 70},
			{Text: "你应该在夏天吃它们。", AIProbability: 20},
		},
	}

	got := Shape(res, ModeDetect, input)
	if len(got.SentenceAnalysis) != 3 {
		t.Fatalf("sentenceAnalysis = %+v", got.SentenceAnalysis)
	}

	var joined strings.Builder
	for _, s := range got.SentenceAnalysis {
		joined.WriteString(s.Text)
	}
	if joined.String() != input {
		t.Errorf("joined = %q, want %q", joined.String(), input)
	}

	wantProb := []float64{70, 55, 20}
	for i, s := range got.SentenceAnalysis {
		if s.AIProbability != wantProb[i] {
			t.Errorf("sentence %d probability = %v, want %v", i, s.AIProbability, wantProb[i])
		}
	}
}

func TestShapeNonDetect(t *testing.T) {
	res, err := Decode(validPayload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	tests := []struct {
		mode       Mode
		wantImages int
	}{
		{ModeHumanize, 2},
		{ModeToutiao, 2},
		{ModeWechat, 2},
		{ModeSEO, 0},
		{ModeAcademic, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := Shape(res, tt.mode, "原文")
			if got.RewrittenText != "改写后的文本" {
				t.Errorf("rewrittenText changed: %q", got.RewrittenText)
			}
			if got.SentenceAnalysis != nil {
				t.Errorf("sentenceAnalysis kept outside DETECT")
			}
			if len(got.ImagePrompts) != tt.wantImages {
				t.Errorf("imagePrompts = %v", got.ImagePrompts)
			}
		})
	}
}

func TestShapeCapsImagePrompts(t *testing.T) {
	res := Result{ImagePrompts: []string{"a", "b", "c", "d", "e", "f"}}
	got := Shape(res, ModeWechat, "x")
	if len(got.ImagePrompts) != MaxImagePrompt {
		t.Fatalf("imagePrompts = %v", got.ImagePrompts)
	}
	if got.ImagePrompts[3] != "d" {
		t.Errorf("order not kept: %v", got.ImagePrompts)
	}
}
