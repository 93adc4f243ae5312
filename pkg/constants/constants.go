package constants

import "time"

const (
	EVENT_CHANNEL_SIZE = 100              // channel 模式下入站事件通道大小
	NON_TEXT_CONTENT   = "<non-text message>" // 非文本消息入库时的占位内容
	PENDING_LIST_TTL   = 5 * time.Minute  // 管理端待处理列表缓存有效期
)
