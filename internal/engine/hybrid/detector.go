// internal/engine/hybrid/detector.go
package hybrid

import (
	"strings"
)

// DetectJavaScriptFramework names the client framework that renders html,
// or returns "" when none is recognised
func DetectJavaScriptFramework(html string) string {
	lower := strings.ToLower(html)

	switch {
	case strings.Contains(lower, "__pws_root__"), strings.Contains(lower, "data-reactroot"), strings.Contains(lower, "__reactprops$"):
		return "React"
	case strings.Contains(lower, "__next_data__"):
		return "Next.js"
	case strings.Contains(lower, "data-v-app"), strings.Contains(lower, "__vue__"):
		return "Vue"
	case strings.Contains(lower, "ng-version"):
		return "Angular"
	}
	return ""
}

// LooksUnrendered reports whether html is a client-side shell whose board
// state only exists after scripts run
func LooksUnrendered(html string) bool {
	if DetectJavaScriptFramework(html) == "" {
		return false
	}
	lower := strings.ToLower(html)
	scripts := strings.Count(lower, "<script")
	return scripts > 0 && strings.Count(lower, "<div") < 40
}
