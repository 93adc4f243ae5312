package respond

// JoinRequestRespond 管理端申请列表/详情响应
type JoinRequestRespond struct {
	RequesterId  string `json:"requesterId"`
	OriginChatId string `json:"originChatId"`
	DisplayLabel string `json:"displayLabel"`
	Status       string `json:"status"` // pending / approved / declined / expired
	Notified     bool   `json:"notified"`
	RequestedAt  string `json:"requestedAt"` // 格式 2006-01-02 15:04:05
}
