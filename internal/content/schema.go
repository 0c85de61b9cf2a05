package content

import "github.com/google/generative-ai-go/genai"

// FieldOrder is the order the model is asked to emit the result fields in.
var FieldOrder = []string{
	"originalScore",
	"predictionScore",
	"critique",
	"suggestions",
	"rewrittenText",
	"keywords",
	"sentenceAnalysis",
	"imagePrompts",
}

var requiredFields = []string{
	"originalScore",
	"predictionScore",
	"critique",
	"suggestions",
	"rewrittenText",
}

const (
	MinScore       = 0
	MaxScore       = 100
	MaxImagePrompt = 4
)

// Schema returns the structured-output contract for the text call. The shape
// is the same for every mode; mode semantics live in the system instruction.
func Schema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"originalScore": {
				Type:        genai.TypeNumber,
				Description: "0-100 分。对于 DETECT，它是全文 AI 概率。对于其他模式，它是初始质量分数。",
			},
			"predictionScore": {
				Type:        genai.TypeNumber,
				Description: "0-100 的预测分数。对于 DETECT，它是人类可信度；对于其他模式，表示优化后内容的表现（爆款潜力、SEO 排名或拟人化程度）。",
			},
			"critique": {
				Type:        genai.TypeString,
				Description: "对原文问题的简要分析（使用中文）。",
			},
			"suggestions": {
				Type:        genai.TypeArray,
				Description: "3-5 条具体的修改或改进建议（使用中文）。",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"rewrittenText": {
				Type:        genai.TypeString,
				Description: "完整的优化或重写后的内容（使用中文）。如果是 DETECT 模式，请原样返回原文。",
			},
			"keywords": {
				Type:        genai.TypeArray,
				Description: "提取的关键词或标签（使用中文）。",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"sentenceAnalysis": {
				Type:        genai.TypeArray,
				Description: "仅在 DETECT 模式下返回。逐句覆盖全文的 AI 概率分析。",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"text": {
							Type:        genai.TypeString,
							Description: "句子原文。",
						},
						"aiProbability": {
							Type:        genai.TypeNumber,
							Description: "该句子由 AI 生成的概率 (0-100)。",
						},
					},
					Required: []string{"text", "aiProbability"},
				},
			},
			"imagePrompts": {
				Type:        genai.TypeArray,
				Description: "2-4 个用于生成配图的英文 Prompt。仅在 TOUTIAO、WECHAT、HUMANIZE 模式下返回。",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: append([]string(nil), requiredFields...),
	}
}
