package service

import (
	"Campus/pkg/response"
)

// ensureOwnerOrAdmin 资源归属校验：本人或管理员放行。
// 帖子、回复、工单共用同一套规则
func ensureOwnerOrAdmin(ownerID, userID int64, isAdmin bool) error {
	if ownerID == userID || isAdmin {
		return nil
	}
	return response.Forbidden("无权操作该资源")
}

// truncatePreview 预览截断，按字符数不是字节数
func truncatePreview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

const previewLimit = 100
