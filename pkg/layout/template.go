package layout

import (
	"fmt"
	"strings"
)

const (
	templatePrefix  = "builtin_"
	templateDefault = "builtin_default"
)

// FromTemplate returns the layout for a builtin template id such as
// "builtin_hierarchy". "builtin_default" stands for defaultNodeStyle (itself
// a template id). known reports whether a style type exists; unknown or
// malformed ids fall back to defaultNodeStyle.
func FromTemplate(templateID, defaultNodeStyle string, known func(styleType string) bool) *Layout {
	l := New()
	l.OriginType = OriginDefaultTemplate

	id := templateID
	if id == templateDefault {
		id = defaultNodeStyle
	}
	styleType, ok := strings.CutPrefix(id, templatePrefix)
	if ok && known(styleType) {
		l.DefaultID = styleType
		l.OriginInfo = fmt.Sprintf("Default %s template", styleType)
		return l
	}

	fallback, _ := strings.CutPrefix(defaultNodeStyle, templatePrefix)
	if !known(fallback) {
		fallback = "force"
	}
	l.DefaultID = fallback
	l.OriginInfo = fmt.Sprintf("Fallback template (%s)", fallback)
	return l
}
