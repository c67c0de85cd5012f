package browser

import (
	"fmt"
	"strings"

	"formpilot/domain/entities"
)

// cssQuote returns s as a double-quoted CSS string.
func cssQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func attrSelector(tag, attr, value string) entities.Selector {
	return entities.ByCSS(fmt.Sprintf(`%s[%s=%s]`, tag, attr, cssQuote(value)))
}
