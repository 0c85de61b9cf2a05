package content

import "strings"

type Mode string

const (
	ModeDetect   Mode = "DETECT"
	ModeHumanize Mode = "HUMANIZE"
	ModeToutiao  Mode = "TOUTIAO"
	ModeWechat   Mode = "WECHAT"
	ModeSEO      Mode = "SEO"
	ModeAcademic Mode = "ACADEMIC"
)

const (
	temperaturePrecise  float32 = 0.2
	temperatureCreative float32 = 0.7
)

// Profile is everything a mode decides: prompt text, output expectations and UI copy.
type Profile struct {
	Mode        Mode
	Title       string
	Description string
	SampleText  string
	WantsImages bool
	Temperature float32
	Instruction string
}

var modeOrder = []Mode{
	ModeDetect,
	ModeHumanize,
	ModeToutiao,
	ModeWechat,
	ModeSEO,
	ModeAcademic,
}

var profiles = map[Mode]Profile{
	ModeDetect: {
		Mode:        ModeDetect,
		Title:       "AI 内容检测器",
		Description: "逐句分析文本模式，精确定位 AI 生成痕迹。",
		SampleText:  "随着人工智能技术的飞速发展，我们需要深入探讨生成式模型带来的多重影响。这项技术强调了范式的转变，不仅在技术层面，更在社会伦理层面引发了广泛的讨论...",
		Temperature: temperatureCreative,
		Instruction: detectInstruction,
	},
	ModeHumanize: {
		Mode:        ModeHumanize,
		Title:       "拟人化与去 AI 味",
		Description: "优化 AI 生成的文本，使其听起来自然且像人类写作。",
		SampleText:  "此外，该策略的实施利用了一个全面的框架。因此，必须考虑情况的各个方面，以确保实现最佳结果。这种方法旨在促进协同增效，解决所有潜在的差异。",
		WantsImages: true,
		Temperature: temperatureCreative,
		Instruction: humanizeInstruction,
	},
	ModeToutiao: {
		Mode:        ModeToutiao,
		Title:       "今日头条爆款优化",
		Description: "优化点击率、标题和互动性。",
		SampleText:  "西瓜对健康有益。它们含有维生素和水分。你应该在夏天吃它们。",
		WantsImages: true,
		Temperature: temperatureCreative,
		Instruction: toutiaoInstruction,
	},
	ModeWechat: {
		Mode:        ModeWechat,
		Title:       "微信公众号推文优化",
		Description: "增强故事性、排版和情感共鸣。",
		SampleText:  "我们公司今天发布了一款新产品。它非常好。它有很多功能。请购买它。",
		WantsImages: true,
		Temperature: temperatureCreative,
		Instruction: wechatInstruction,
	},
	ModeSEO: {
		Mode:        ModeSEO,
		Title:       "SEO 搜索引擎优化",
		Description: "优化关键词密度和搜索排名结构。",
		SampleText:  "2024年最好的咖啡机。咖啡是一种由烘焙咖啡豆制成的冲泡饮料。在这里购买咖啡机。",
		Temperature: temperatureCreative,
		Instruction: seoInstruction,
	},
	ModeAcademic: {
		Mode:        ModeAcademic,
		Title:       "学术论文润色",
		Description: "确保专业术语、逻辑严密和学术规范。",
		SampleText:  "我认为这个实验挺酷的，结果也很大。我们看到很多东西发生了变化，这表明我们的想法可能是对的。",
		Temperature: temperaturePrecise,
		Instruction: academicInstruction,
	},
}

// fallbackProfile covers a Mode value outside the closed set.
var fallbackProfile = Profile{
	Title:       "内容优化工具",
	Description: "优化内容以适应特定平台和目标。",
	Temperature: temperatureCreative,
	Instruction: genericInstruction,
}

func Modes() []Profile {
	out := make([]Profile, 0, len(modeOrder))
	for _, m := range modeOrder {
		out = append(out, profiles[m])
	}
	return out
}

func Lookup(m Mode) Profile {
	if p, ok := profiles[m]; ok {
		return p
	}
	p := fallbackProfile
	p.Mode = m
	return p
}

func ParseMode(value string) (Mode, bool) {
	m := Mode(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := profiles[m]; !ok {
		return "", false
	}
	return m, true
}

func (m Mode) Valid() bool {
	_, ok := profiles[m]
	return ok
}

func (m Mode) String() string { return string(m) }
