package common

import (
	"time"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// Now 目前時間（UTC，截到毫秒，方便 JSON 來回比較）
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// GenerateOrderedID 生成依時間遞增的 UUIDv7，同一毫秒內仍保持順序
func GenerateOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return GenerateUUID()
	}
	return id.String()
}
