// Package gateway 定义核心引擎与外部消息传输层之间的窄契约
// 核心只依赖该接口，不关心具体传输实现（由部署方注入）
package gateway

import "context"

// 决策操作标识，嵌入决策按钮并由传输层原样回传
const (
	ActionApprove = "approve" // 通过申请
	ActionDecline = "decline" // 拒绝申请
)

// Control 决策按钮
// 随管理员通知一起下发，按下后传输层回传 decision 事件
type Control struct {
	Label  string // 按钮文本
	Action string // ActionApprove / ActionDecline
	Target string // 申请人 ID
}

// Gateway 消息传输层契约
// 实现方的错误约定：
//   - 消息投递类失败（对端不可达/已屏蔽）返回 errorx.CodeDeliveryError，
//     引擎视为非致命，记日志后业务继续
//   - 成员操作类失败返回 errorx.CodeMembershipError，
//     引擎会放弃本次状态变更，保留重试机会
type Gateway interface {
	// SendDirect 向指定身份发送私聊消息，controls 可为空
	SendDirect(ctx context.Context, identity string, text string, controls []Control) error
	// Forward 将源会话中的一条消息原样转发给指定身份
	Forward(ctx context.Context, identity string, sourceChat string, sourceMessage string) error
	// ApproveMembership 通过指定身份的入群申请
	ApproveMembership(ctx context.Context, chatId string, identity string) error
	// DeclineMembership 拒绝指定身份的入群申请
	DeclineMembership(ctx context.Context, chatId string, identity string) error
	// UpdateMessage 更新先前发给指定身份的某条消息的文本（管理员侧界面刷新）
	UpdateMessage(ctx context.Context, identity string, messageRef string, newText string) error
}
