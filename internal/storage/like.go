package storage

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
