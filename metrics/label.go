package metrics

// 常见的标签
const (
	LabelOutcome = "outcome"
	LabelLevel   = "level"
	LabelSystem  = "system"
)

// 常见的结果
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Label 指标标签，为指标添加维度信息
//
// 标签值应相对稳定，避免高基数的值（如请求 ID、logger 名称）。
type Label struct {
	Key   string
	Value string
}

// L 便捷构造函数，创建一个 Label 实例
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// Outcome 根据 err 返回 OutcomeSuccess 或 OutcomeError 标签
func Outcome(err error) Label {
	if err != nil {
		return L(LabelOutcome, OutcomeError)
	}
	return L(LabelOutcome, OutcomeSuccess)
}
