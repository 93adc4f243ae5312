package request_status_enum

// 入群申请状态
// 申请一旦离开 PENDING 即为终态，不允许再次变更
const (
	PENDING  int8 = iota // 待处理
	APPROVED             // 已通过
	DECLINED             // 已拒绝
	EXPIRED              // 已超时（由定时清理任务关闭）
)

// labels 状态文本，用于日志、管理端展示和错误提示
var labels = map[int8]string{
	PENDING:  "pending",
	APPROVED: "approved",
	DECLINED: "declined",
	EXPIRED:  "expired",
}

// Label 返回状态的文本表示，未知状态返回 "unknown"
func Label(status int8) string {
	if label, ok := labels[status]; ok {
		return label
	}
	return "unknown"
}

// IsTerminal 判断状态是否为终态
func IsTerminal(status int8) bool {
	return status != PENDING
}
