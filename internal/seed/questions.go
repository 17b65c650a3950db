// Package seed holds the default questionnaire installed into an empty catalog.
package seed

// Item is one default catalog question.
type Item struct {
	Category string
	Question string
	Options  []string
	Weights  []int
}

var frequency = []string{"从不", "偶尔", "经常", "总是"}

var agreement = []string{"完全不符合", "不太符合", "比较符合", "完全符合"}

var forward = []int{1, 2, 3, 4}

var reverse = []int{4, 3, 2, 1}

// DefaultQuestions returns the default emotional-intelligence questionnaire.
// Each call returns fresh slices.
func DefaultQuestions() []Item {
	items := []Item{
		// 自我意识
		{"自我意识", "当我情绪发生变化时，我能够清楚地意识到自己的感受。", frequency, forward},
		{"自我意识", "我能说出让自己感到焦虑或不安的具体原因。", frequency, forward},
		{"自我意识", "我常常在事后才发现自己当时其实很生气。", frequency, reverse},
		{"自我意识", "我了解自己的优点和不足。", agreement, forward},
		{"自我意识", "面对批评时，我能够分辨哪些意见是有道理的。", agreement, forward},

		// 自我管理
		{"自我管理", "在压力很大的情况下，我依然能够保持冷静。", frequency, forward},
		{"自我管理", "生气时，我会说出或做出让自己后悔的事情。", frequency, reverse},
		{"自我管理", "遇到挫折后，我能较快地调整状态重新投入。", frequency, forward},
		{"自我管理", "我能够为了长期目标而推迟眼前的满足。", agreement, forward},
		{"自我管理", "计划被打乱时，我会长时间陷入烦躁之中。", []string{"总是", "经常", "偶尔", "从不"}, []int{0, 1, 3, 4}},

		// 社交意识
		{"社交意识", "我能从别人的语气和表情中察觉他们的情绪。", frequency, forward},
		{"社交意识", "与人交谈时，我会认真倾听而不急于表达自己的观点。", frequency, forward},
		{"社交意识", "我很难理解别人为什么会对某些小事感到难过。", agreement, reverse},
		{"社交意识", "在团队中，我能感受到成员之间微妙的气氛变化。", frequency, forward},
		{"社交意识", "我会站在对方的角度思考问题。", frequency, forward},

		// 关系管理
		{"关系管理", "与他人发生分歧时，我能够寻找双方都能接受的解决办法。", frequency, forward},
		{"关系管理", "我能够以让人容易接受的方式表达不同意见。", frequency, forward},
		{"关系管理", "朋友情绪低落时，我知道如何安慰和支持他们。", agreement, forward},
		{"关系管理", "我倾向于回避可能引起冲突的对话。", frequency, reverse},
		{"关系管理", "我能与不同性格的人建立良好的合作关系。", agreement, forward},
	}

	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = Item{
			Category: item.Category,
			Question: item.Question,
			Options:  append([]string(nil), item.Options...),
			Weights:  append([]int(nil), item.Weights...),
		}
	}
	return out
}
