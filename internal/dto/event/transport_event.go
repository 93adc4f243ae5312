// Package event 定义传输层入站事件结构
// 事件以 JSON 形式从 Kafka（或 channel 模式的进程内通道）进入
package event

// 事件类型
const (
	TypeJoinRequest    = "join_request"    // 入群申请
	TypePrivateMessage = "private_message" // 申请人私聊回复
	TypeDecision       = "decision"        // 管理员按钮操作
)

// TransportEvent 传输层事件
// 单一结构承载三类事件，按 Type 取用对应字段
type TransportEvent struct {
	Type string `json:"type"`

	// 公共字段
	RequesterId string `json:"requesterId"`

	// join_request
	ChatId string `json:"chatId,omitempty"` // 申请加入的群组
	Label  string `json:"label,omitempty"`  // 申请人昵称/用户名

	// private_message
	Content         string `json:"content,omitempty"`         // 消息文本，非文本为空
	SourceChatId    string `json:"sourceChatId,omitempty"`    // 源会话，用于转发
	SourceMessageId string `json:"sourceMessageId,omitempty"` // 源消息，用于转发

	// decision
	ActorId    string `json:"actorId,omitempty"`    // 按钮操作者
	Action     string `json:"action,omitempty"`     // approve / decline
	MessageRef string `json:"messageRef,omitempty"` // 待刷新的管理员侧消息
}
