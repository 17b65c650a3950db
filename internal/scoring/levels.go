package scoring

import "math"

// Level is the ordinal classification assigned from the overall percentage.
type Level string

const (
	LevelExcellent        Level = "卓越"
	LevelGood             Level = "良好"
	LevelModerate         Level = "中等"
	LevelNeedsImprovement Level = "待提升"
	LevelNeedsAttention   Level = "需要关注"
)

// Band binds a percentage threshold to its level and feedback text.
type Band struct {
	Threshold   int
	Level       Level
	Description string
	Suggestions []string
}

// SuggestionList returns a copy of the band suggestions.
func (b Band) SuggestionList() []string {
	out := make([]string, len(b.Suggestions))
	copy(out, b.Suggestions)
	return out
}

// bands is evaluated top-down; the first band whose threshold is met wins.
// The last entry is the fallback and accepts every percentage.
var bands = []Band{
	{
		Threshold:   85,
		Level:       LevelExcellent,
		Description: "您的情商水平非常出色！您在自我意识、自我管理、社交意识和关系管理方面都表现优异。",
		Suggestions: []string{
			"继续保持您的情商优势",
			"可以考虑帮助他人提升情商",
			"在领导力方面进一步发展",
		},
	},
	{
		Threshold:   70,
		Level:       LevelGood,
		Description: "您的情商水平良好，在大多数情况下能够很好地管理情绪和人际关系。",
		Suggestions: []string{
			"关注相对薄弱的维度进行提升",
			"多进行自我反思和觉察练习",
			"学习更多情绪管理技巧",
		},
	},
	{
		Threshold:   55,
		Level:       LevelModerate,
		Description: "您的情商水平处于平均水平，有较大的提升空间。",
		Suggestions: []string{
			"加强自我情绪的觉察和识别",
			"学习压力管理和情绪调节技巧",
			"多练习同理心和倾听技巧",
			"参加情商培训课程",
		},
	},
	{
		Threshold:   40,
		Level:       LevelNeedsImprovement,
		Description: "您的情商水平有待提升，建议重点关注情绪管理和人际交往能力的培养。",
		Suggestions: []string{
			"每日进行情绪日记记录",
			"学习基础的情绪管理方法",
			"多观察他人的情绪表达",
			"寻求专业的情商辅导",
		},
	},
	{
		Threshold:   math.MinInt,
		Level:       LevelNeedsAttention,
		Description: "您的情商水平需要特别关注和提升，这可能影响您的生活质量和人际关系。",
		Suggestions: []string{
			"建议寻求专业心理辅导",
			"从基础的自我觉察开始练习",
			"阅读情商相关书籍",
			"参加情商提升工作坊",
			"练习冥想和正念",
		},
	},
}

// Classify returns the band for an overall percentage.
func Classify(percentage int) Band {
	for _, band := range bands {
		if percentage >= band.Threshold {
			return band
		}
	}
	return bands[len(bands)-1]
}

// BandForLevel looks up the band bound to a stored level label.
func BandForLevel(level Level) (Band, bool) {
	for _, band := range bands {
		if band.Level == level {
			return band, true
		}
	}
	return Band{}, false
}

// Bands returns the classification table in evaluation order.
func Bands() []Band {
	out := make([]Band, len(bands))
	for i, band := range bands {
		band.Suggestions = band.SuggestionList()
		out[i] = band
	}
	return out
}
