package patch

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var ErrInvalidPointer = errors.New("invalid JSON pointer")

var (
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
)

// resolvePointer rewrites the object members of an RFC 6901 pointer to the exact keys present
// in tree, matching case-insensitively when there is no exact key. Tokens below a member that
// does not exist are kept as given.
func resolvePointer(tree any, ptr string) (string, error) {
	if ptr == "" {
		return ptr, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return "", fmt.Errorf("%w: %q must start with /", ErrInvalidPointer, ptr)
	}

	tokens := strings.Split(ptr[1:], "/")
	node := tree
	for i, tok := range tokens {
		switch n := node.(type) {
		case map[string]any:
			key := memberKey(n, unescaper.Replace(tok))
			tokens[i] = escaper.Replace(key)
			node = n[key]
		case []any:
			ix, err := strconv.Atoi(tok)
			if err != nil || ix < 0 || ix >= len(n) {
				node = nil
				continue
			}
			node = n[ix]
		default:
			node = nil
		}
	}

	return "/" + strings.Join(tokens, "/"), nil
}

// memberKey picks the key of m matching token, exact match first, then ignoring case. token is
// returned unchanged when nothing matches.
func memberKey(m map[string]any, token string) string {
	if _, ok := m[token]; ok {
		return token
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if strings.EqualFold(k, token) {
			return k
		}
	}
	return token
}
