package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 会话组卷相关常量
const (
	DefaultSessionSize = 15
	StreakWindow       = 30 // 连续打卡计算取最近 30 次会话
)

// 文件上传相关常量
const (
	MimeImage = "image/"
)

var (
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}
)
