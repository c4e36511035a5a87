// internal/service/template.go
package service

import "strings"

// renderTemplate substitutes the per-recipient placeholders a step template
// may carry. Unknown placeholders are left as-is.
func renderTemplate(template, email, campaignName string) string {
	result := template
	result = strings.ReplaceAll(result, "{email}", email)
	result = strings.ReplaceAll(result, "{campaign}", campaignName)
	return result
}
