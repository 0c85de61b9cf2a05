package content

import (
	"fmt"
	"strings"
)

const baseInstruction = "你是一名中文内容优化专家。"

const plainTextRule = "请仅输出纯文本，严禁使用任何 Markdown 格式（如加粗、标题、列表符号等），保持自然段落。"

const imageInstruction = `
此外，请为该文章构思 2-4 个生动、具体的**英文**画面描述（image prompts）。
这些描述将用于 AI 绘画模型生成配图，必须是英语，描述具体的场景、光影、风格（如写实摄影、极简插画等）。`

const noImageRule = "不需要生成图片提示词，imagePrompts 留空。"

const detectInstruction = `你是一名高级语言取证专家，精通中文语境。你的任务是分析文本中的“AI 伪影”。

请执行以下操作：
1. 分析全文的 AI 生成概率（originalScore），并给出修改后可达到的人类可信度（predictionScore）。
2. 将文本拆分为独立的句子，并针对每一句话分析其“AI 味道”（aiProbability）。高概率意味着该句子使用了典型的 AI 句式、连接词或缺乏人类的情感特征。
3. 必须在返回的 sentenceAnalysis 数组中包含完整的文本，逐句对应原文，不要遗漏任何句子，也不要改写或添加任何文字。
4. rewrittenText 必须原样返回输入文本。

注意：检测重点在于重复的句式、缺乏困惑度（perplexity）、过度使用的连接词（如“此外”、“综上所述”）以及通用的情感基调。`

const humanizeInstruction = baseInstruction + ` 你的目标是“去 AI 化”。重写文本，使其听起来自然、多变且引人入胜。使用成语、变化的句长和真实的情感细微差别。避免常见的 AI 触发词（如“揭示”、“深入探讨”、“格局”、“强调”等翻译腔）。使其能够通过 AI 检测工具。` + plainTextRule

const toutiaoInstruction = baseInstruction + ` 你是今日头条的爆款内容专家。优化内容以获得高点击率（CTR）和互动率。使用悬念、强烈的情感触发和紧迫的语言。重点关注前三行。生成一个吸引人的标题。` + plainTextRule

const wechatInstruction = baseInstruction + ` 你是顶级的微信公众号运营者。重写内容，使其具有对话性、故事驱动和高度的可分享性。使用亲切的“IP”人设。打断长段落。专注于情感共鸣和“金句”。` + plainTextRule

const seoInstruction = baseInstruction + ` 你是一名 SEO 专家。针对搜索引擎（百度/Google）优化内容。关注关键词密度、清晰的小标题结构、可读性和摘要优化。确保内容直接回答用户意图，并在 keywords 中给出核心关键词。`

const academicInstruction = baseInstruction + ` 你是一名资深学术编辑。针对学术发表优化文本。确保语气正式、精准、逻辑流畅且术语正确。去除口语化表达。提高清晰度和简洁性。`

const genericInstruction = "你是一个有用的中文写作助手。"

// SystemInstruction returns the system prompt for m. Image prompt requests are
// appended only for modes that want illustrations.
func SystemInstruction(m Mode) string {
	p := Lookup(m)
	if !m.Valid() {
		return p.Instruction
	}

	var sb strings.Builder
	sb.WriteString(p.Instruction)
	sb.WriteString("\n")
	if p.WantsImages {
		sb.WriteString(imageInstruction)
	} else {
		sb.WriteString(noImageRule)
	}
	sb.WriteString("\n按以下字段顺序输出 JSON：")
	sb.WriteString(strings.Join(FieldOrder, ", "))
	sb.WriteString("。")
	return sb.String()
}

// UserContent wraps the user's text in the instruction frame sent as the user turn.
func UserContent(text string) string {
	return fmt.Sprintf("请根据你的系统指令分析并处理以下文本。文本: \"%s\"", text)
}
