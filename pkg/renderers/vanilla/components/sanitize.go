package components

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helperPolicyOnce sync.Once
	helperPolicy     *bluemonday.Policy
)

// sanitizeHelperMarkup keeps inline emphasis and links in helper text and
// escapes everything else.
func sanitizeHelperMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(helperSanitizer().Sanitize(trimmed))
}

func helperSanitizer() *bluemonday.Policy {
	helperPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "b", "i", "code", "br", "span")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AllowAttrs("class").OnElements("span", "code")
		helperPolicy = policy
	})
	return helperPolicy
}
