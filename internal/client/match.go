package client

import (
	"sort"
	"strings"
	"unicode"

	"userdesk/internal/entity"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// rank orders how well a value matches a search term. Higher is better.
// Fuzzy matches score between rankMatches and rankAcronym.
const (
	rankNoMatch            = 0.0
	rankMatches            = 1.0
	rankAcronym            = 2.0
	rankContains           = 3.0
	rankWordStartsWith     = 4.0
	rankStartsWith         = 5.0
	rankEqual              = 6.0
	rankCaseSensitiveEqual = 7.0
)

// searchKeys are the user fields searched, in priority order.
var searchKeys = []func(u *entity.User) string{
	func(u *entity.User) string { return u.Name },
	func(u *entity.User) string { return u.Username },
}

type rankedUser struct {
	user     entity.User
	rank     float64
	keyIndex int
	value    string
}

// rankUsers keeps users whose name or username matches term and orders them
// by rank, then by which key matched, then alphabetically by the matched value.
func rankUsers(users []entity.User, term string) []entity.User {
	ranked := make([]rankedUser, 0, len(users))
	for idx := range users {
		r := rankedUser{user: users[idx], rank: rankNoMatch, keyIndex: -1}
		for keyIdx, key := range searchKeys {
			value := key(&users[idx])
			if score := matchRank(value, term); score > r.rank {
				r.rank = score
				r.keyIndex = keyIdx
				r.value = value
			}
		}
		if r.rank >= rankMatches {
			ranked = append(ranked, r)
		}
	}

	collator := collate.New(language.Und)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.rank != b.rank {
			return a.rank > b.rank
		}
		if a.keyIndex != b.keyIndex {
			return a.keyIndex < b.keyIndex
		}
		return collator.CompareString(a.value, b.value) < 0
	})

	out := make([]entity.User, len(ranked))
	for idx := range ranked {
		out[idx] = ranked[idx].user
	}
	return out
}

// matchRank scores how well candidate matches term.
func matchRank(candidate, term string) float64 {
	value := removeDiacritics(candidate)
	query := removeDiacritics(term)

	if runeLen(query) > runeLen(value) {
		return rankNoMatch
	}
	if value == query {
		return rankCaseSensitiveEqual
	}

	value = strings.ToLower(value)
	query = strings.ToLower(query)

	switch {
	case value == query:
		return rankEqual
	case strings.HasPrefix(value, query):
		return rankStartsWith
	case strings.Contains(value, " "+query):
		return rankWordStartsWith
	case strings.Contains(value, query):
		return rankContains
	case runeLen(query) == 1:
		return rankNoMatch
	case strings.Contains(acronym(value), query):
		return rankAcronym
	}
	return closenessRank(value, query)
}

// closenessRank finds the query characters in order inside value. Tighter
// spreads score closer to rankAcronym.
func closenessRank(value, query string) float64 {
	hay := []rune(value)
	needle := []rune(query)

	inOrder := 0
	pos := 0
	find := func(ch rune) int {
		for j := pos; j < len(hay); j++ {
			if hay[j] == ch {
				inOrder++
				return j + 1
			}
		}
		return -1
	}

	first := find(needle[0])
	if first < 0 {
		return rankNoMatch
	}
	pos = first
	for _, ch := range needle[1:] {
		pos = find(ch)
		if pos < 0 {
			return rankNoMatch
		}
	}

	spread := pos - first
	if spread <= 0 {
		spread = 1
	}
	inOrderRatio := float64(inOrder) / float64(len(needle))
	return rankMatches + inOrderRatio*(1/float64(spread))
}

// acronym takes the first letter of every space or hyphen separated word.
func acronym(value string) string {
	var b strings.Builder
	for _, word := range strings.Split(value, " ") {
		for _, part := range strings.Split(word, "-") {
			for _, r := range part {
				b.WriteRune(r)
				break
			}
		}
	}
	return b.String()
}

func removeDiacritics(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
