// Package intake tags inbound lead messages with a detected language
// before they enter the conversation history, grounded on the teacher's
// detectLanguage message-intake step in its conversation ingestion
// service, which used the same whatlanggo library.
package intake

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DetectLanguage returns the ISO 639-1 code of the most likely language of
// content, or "" if the detector isn't confident enough to be useful (very
// short content, or a tie among unrelated scripts).
func DetectLanguage(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	info := whatlanggo.Detect(content)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
