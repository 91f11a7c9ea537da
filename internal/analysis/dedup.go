package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/prencipemarco/superquote-web/internal/models"
)

// DeduplicateEncounters removes rows that share (match date, home team, away
// team), keeping the first-seen record and preserving the incoming
// most-recent-first order. The repository may return the same fixture twice
// through join artifacts in the source dataset; without this, sample sizes
// double-count.
func DeduplicateEncounters(matches []*models.MatchRecord) []*models.MatchRecord {
	seen := make(map[string]struct{}, len(matches))
	out := make([]*models.MatchRecord, 0, len(matches))
	for _, m := range matches {
		key := fmt.Sprintf("%s|%s|%s",
			m.MatchDate.Format("2006-01-02"),
			strings.ToLower(strings.TrimSpace(m.HomeTeam)),
			strings.ToLower(strings.TrimSpace(m.AwayTeam)),
		)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

// DeduplicateByScore removes rows that share (match date, full-time score).
// Used for the descriptive statistics step, where the same fixture can appear
// under slightly different team spellings.
func DeduplicateByScore(matches []*models.MatchRecord) []*models.MatchRecord {
	seen := make(map[string]struct{}, len(matches))
	out := make([]*models.MatchRecord, 0, len(matches))
	for _, m := range matches {
		key := fmt.Sprintf("%s|%s", m.MatchDate.Format("2006-01-02"), m.Score())
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

// PreferTokenMatches guards against substring false positives: a search for
// "United" must not pull in every club whose name embeds the word differently
// than the one the user meant. For each searched fragment, if any row matches
// it as a whole token sequence, rows that match only by raw substring are
// dropped. When no token-exact row exists the substring matches are kept, so
// partial typing still works.
func PreferTokenMatches(matches []*models.MatchRecord, terms ...string) []*models.MatchRecord {
	out := matches
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		exact := make([]*models.MatchRecord, 0, len(out))
		for _, m := range out {
			if tokenMatch(m.HomeTeam, term) || tokenMatch(m.AwayTeam, term) {
				exact = append(exact, m)
			}
		}
		if len(exact) > 0 {
			out = exact
		}
	}
	return out
}

// tokenMatch reports whether term appears in name as a contiguous sequence of
// whole tokens, case-insensitively.
func tokenMatch(name, term string) bool {
	nameTokens := tokenize(name)
	termTokens := tokenize(term)
	if len(termTokens) == 0 || len(termTokens) > len(nameTokens) {
		return false
	}

	for i := 0; i+len(termTokens) <= len(nameTokens); i++ {
		matched := true
		for j, tok := range termTokens {
			if nameTokens[i+j] != tok {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
