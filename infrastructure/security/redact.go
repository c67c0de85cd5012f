package security

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Redacted replaces every masked value.
const Redacted = "[REDACTED]"

var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "authorization", "api_key", "apikey",
}

// inlineSecret matches key=value and key: value pairs inside a message.
var inlineSecret = regexp.MustCompile(`(?i)\b(password|passwd|secret|token|api_?key)(\s*[=:]\s*)("[^"]*"|\S+)`)

// IsSensitiveKey reports whether a field name looks like it holds a credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// MaskMessage replaces inline credential values in msg.
func MaskMessage(msg string) string {
	return inlineSecret.ReplaceAllString(msg, "${1}${2}"+Redacted)
}

// MaskMap returns a copy of m with sensitive values replaced.
func MaskMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if IsSensitiveKey(k) {
			v = Redacted
		}
		out[k] = v
	}
	return out
}

// RedactHook masks credential fields and inline credentials before an entry
// reaches any formatter.
type RedactHook struct{}

// NewRedactHook - creates the hook; add it with logger.AddHook
func NewRedactHook() *RedactHook {
	return &RedactHook{}
}

func (h *RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *RedactHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		if IsSensitiveKey(key) {
			entry.Data[key] = Redacted
			continue
		}
		if s, ok := value.(string); ok {
			entry.Data[key] = MaskMessage(s)
		}
	}
	entry.Message = MaskMessage(entry.Message)
	return nil
}

var _ logrus.Hook = (*RedactHook)(nil)
