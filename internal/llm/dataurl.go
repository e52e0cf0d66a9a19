package llm

import (
	"encoding/base64"
	"fmt"
)

// EncodeDataURL packs raw file bytes into a base64 data URL suitable for a
// vision model request.
func EncodeDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
