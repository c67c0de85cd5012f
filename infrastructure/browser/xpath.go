package browser

import (
	"fmt"
	"strings"

	"formpilot/domain/entities"

	"github.com/tebeka/selenium"
)

// seleniumLocator translates a Selector into a WebDriver strategy and value.
func seleniumLocator(sel entities.Selector) (string, string) {
	switch sel.Kind {
	case entities.SelectorRole:
		return selenium.ByXPATH, roleXPath(sel.Role, sel.Name)
	case entities.SelectorLabel:
		return selenium.ByXPATH, labelXPath(sel.Value)
	case entities.SelectorText:
		return selenium.ByXPATH, textXPath(sel.Value)
	default:
		return selenium.ByCSSSelector, sel.Value
	}
}

// xpathLiteral quotes s for use in an XPath 1.0 expression, which has no
// escape syntax.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `'`) {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, `'`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// containsFold is a case-insensitive contains() over normalized text.
func containsFold(expr, needle string) string {
	const upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	const lower = "abcdefghijklmnopqrstuvwxyz"
	return fmt.Sprintf("contains(translate(normalize-space(%s), '%s', '%s'), %s)",
		expr, upper, lower, xpathLiteral(strings.ToLower(needle)))
}

func roleXPath(role, name string) string {
	var base []string
	switch role {
	case "button":
		base = []string{
			"//button",
			"//input[@type='submit' or @type='button' or @type='reset']",
			"//*[@role='button']",
		}
	case "link":
		base = []string{"//a[@href]", "//*[@role='link']"}
	case "textbox":
		base = []string{"//textarea", "//input[not(@type) or @type='text' or @type='email']", "//*[@role='textbox']"}
	case "checkbox", "radio":
		base = []string{fmt.Sprintf("//input[@type=%s]", xpathLiteral(role)), fmt.Sprintf("//*[@role=%s]", xpathLiteral(role))}
	case "combobox":
		base = []string{"//select", "//*[@role='combobox']"}
	default:
		base = []string{fmt.Sprintf("//*[@role=%s]", xpathLiteral(role))}
	}

	if name == "" {
		return strings.Join(base, " | ")
	}
	filter := fmt.Sprintf("[%s or %s or %s]", containsFold(".", name), containsFold("@value", name), containsFold("@aria-label", name))
	for i := range base {
		base[i] += filter
	}
	return strings.Join(base, " | ")
}

// labelXPath matches controls referenced by a <label for>, wrapped by a
// <label>, or carrying a matching aria-label.
func labelXPath(label string) string {
	lit := xpathLiteral(label)
	return strings.Join([]string{
		fmt.Sprintf("//*[@id=//label[normalize-space(.)=%s]/@for]", lit),
		fmt.Sprintf("//label[normalize-space(.)=%s]//*[self::input or self::select or self::textarea]", lit),
		fmt.Sprintf("//*[self::input or self::select or self::textarea][@aria-label=%s]", lit),
	}, " | ")
}

func textXPath(text string) string {
	return fmt.Sprintf("//*[not(self::script or self::style)][text()[%s]]", containsFold(".", text))
}
