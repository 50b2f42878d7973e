package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownName is matched (errors.Is) by every *UnknownNameError.
var ErrUnknownName = errors.New("unknown name")

// UnknownNameError reports a name that does not belong to a closed set.
// Suggestion holds the closest known name, or "" when nothing is close enough.
type UnknownNameError struct {
	Kind       string
	Name       string
	Suggestion string
}

func (e *UnknownNameError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown %s %q (did you mean %q?)", e.Kind, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// Is makes errors.Is(err, ErrUnknownName) true.
func (e *UnknownNameError) Is(target error) bool {
	return target == ErrUnknownName
}

func newUnknownNameError(kind, name string, candidates []string) *UnknownNameError {
	return &UnknownNameError{Kind: kind, Name: name, Suggestion: Suggest(name, candidates)}
}

// Suggest returns the candidate closest to name by edit distance.
// Candidates further than a third of their length (min 2 edits) are ignored.
func Suggest(name string, candidates []string) string {
	token := strings.ToLower(strings.TrimSpace(name))
	if token == "" {
		return ""
	}

	best := ""
	bestDist := -1
	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		dist := levenshtein.ComputeDistance(token, cand)
		if dist > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

func suggestLimit(n int) int {
	limit := n / 3
	if limit < 2 {
		limit = 2
	}
	return limit
}
