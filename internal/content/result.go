package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyResponse   = errors.New("model returned empty response")
	ErrSchemaViolation = errors.New("model response violates schema")
)

type SentenceScore struct {
	Text          string  `json:"text"`
	AIProbability float64 `json:"aiProbability"`
}

type Result struct {
	OriginalScore    float64         `json:"originalScore"`
	PredictionScore  float64         `json:"predictionScore"`
	Critique         string          `json:"critique"`
	Suggestions      []string        `json:"suggestions"`
	RewrittenText    string          `json:"rewrittenText"`
	Keywords         []string        `json:"keywords,omitempty"`
	SentenceAnalysis []SentenceScore `json:"sentenceAnalysis,omitempty"`
	ImagePrompts     []string        `json:"imagePrompts,omitempty"`
	// GeneratedImages holds data URIs in the order of the prompts that produced them.
	GeneratedImages []string `json:"generatedImages,omitempty"`
}

type wireSentence struct {
	Text          *string  `json:"text"`
	AIProbability *float64 `json:"aiProbability"`
}

type wireResult struct {
	OriginalScore    *float64       `json:"originalScore"`
	PredictionScore  *float64       `json:"predictionScore"`
	Critique         *string        `json:"critique"`
	Suggestions      []string       `json:"suggestions"`
	RewrittenText    *string        `json:"rewrittenText"`
	Keywords         []string       `json:"keywords"`
	SentenceAnalysis []wireSentence `json:"sentenceAnalysis"`
	ImagePrompts     []string       `json:"imagePrompts"`
}

// Decode parses the model's JSON answer and checks it against the schema
// contract: required fields present, scores within [0,100].
func Decode(raw string) (Result, error) {
	raw = StripCodeFences(strings.TrimSpace(raw))
	if raw == "" {
		return Result{}, ErrEmptyResponse
	}

	var w wireResult
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Result{}, fmt.Errorf("%w: bad JSON: %v", ErrEmptyResponse, err)
	}

	var missing []string
	if w.OriginalScore == nil {
		missing = append(missing, "originalScore")
	}
	if w.PredictionScore == nil {
		missing = append(missing, "predictionScore")
	}
	if w.Critique == nil {
		missing = append(missing, "critique")
	}
	if w.Suggestions == nil {
		missing = append(missing, "suggestions")
	}
	if w.RewrittenText == nil {
		missing = append(missing, "rewrittenText")
	}
	if len(missing) > 0 {
		return Result{}, fmt.Errorf("%w: missing %s", ErrSchemaViolation, strings.Join(missing, ", "))
	}

	if !inScoreRange(*w.OriginalScore) {
		return Result{}, fmt.Errorf("%w: originalScore %v out of range", ErrSchemaViolation, *w.OriginalScore)
	}
	if !inScoreRange(*w.PredictionScore) {
		return Result{}, fmt.Errorf("%w: predictionScore %v out of range", ErrSchemaViolation, *w.PredictionScore)
	}

	res := Result{
		OriginalScore:   *w.OriginalScore,
		PredictionScore: *w.PredictionScore,
		Critique:        *w.Critique,
		Suggestions:     w.Suggestions,
		RewrittenText:   *w.RewrittenText,
		Keywords:        nonEmpty(w.Keywords),
		ImagePrompts:    nonEmpty(w.ImagePrompts),
	}

	for i, s := range w.SentenceAnalysis {
		if s.Text == nil || s.AIProbability == nil {
			return Result{}, fmt.Errorf("%w: sentenceAnalysis[%d] incomplete", ErrSchemaViolation, i)
		}
		if !inScoreRange(*s.AIProbability) {
			return Result{}, fmt.Errorf("%w: sentenceAnalysis[%d].aiProbability %v out of range", ErrSchemaViolation, i, *s.AIProbability)
		}
		res.SentenceAnalysis = append(res.SentenceAnalysis, SentenceScore{
			Text:          *s.Text,
			AIProbability: *s.AIProbability,
		})
	}

	return res, nil
}

// Shape applies the per-mode guarantees the schema can only describe.
func Shape(res Result, m Mode, input string) Result {
	p := Lookup(m)

	if !p.WantsImages {
		res.ImagePrompts = nil
	} else if len(res.ImagePrompts) > MaxImagePrompt {
		res.ImagePrompts = res.ImagePrompts[:MaxImagePrompt]
	}

	if m != ModeDetect {
		res.SentenceAnalysis = nil
		return res
	}

	res.RewrittenText = input
	if !Covers(input, res.SentenceAnalysis) {
		res.SentenceAnalysis = Realign(input, res.SentenceAnalysis, res.OriginalScore)
	}
	return res
}

// StripCodeFences unwraps a ```json ... ``` block if the model added one.
func StripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func inScoreRange(v float64) bool {
	return v >= MinScore && v <= MaxScore
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
