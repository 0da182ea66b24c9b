package service

import "strings"

// likeEscape is the escape character used with every LIKE built by containsPattern
const likeEscape = `\`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern lowercases term and wraps it for a substring LIKE, escaping
// the wildcards so they match literally
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
