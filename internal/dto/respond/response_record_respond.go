package respond

// ResponseRecordRespond 管理端回复记录响应
type ResponseRecordRespond struct {
	Uuid        string `json:"uuid"`
	RequesterId string `json:"requesterId"`
	Content     string `json:"content"`
	ReceivedAt  string `json:"receivedAt"` // 格式 2006-01-02 15:04:05
}
