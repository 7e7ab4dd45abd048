package engine

import "strings"

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends an escaped reference token to a JSON Pointer. An empty
// base is the document root.
func JoinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}
