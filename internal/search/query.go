package search

import "strings"

// stopWords are dropped during tokenization, together with any term of
// length <= 2.
var stopWords = map[string]bool{
	"and": true, "or": true, "the": true, "is": true, "a": true,
	"an": true, "in": true, "to": true, "of": true, "for": true,
}

// summaryPhrases mark a query as asking for a file or project overview
// rather than specific content.
var summaryPhrases = []string{
	"summary",
	"overview",
	"describe",
	"what is this",
	"what does this do",
}

// tokenize lowercases the query and splits it into scoring terms,
// dropping stop words and very short tokens.
func tokenize(query string) []string {
	var terms []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}

// isSummarySeeking reports whether the query asks for summaries.
func isSummarySeeking(query string) bool {
	q := strings.ToLower(query)
	for _, phrase := range summaryPhrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}

// queryLabel classifies the query for display. Literal AND/OR operators
// only change the label; every term still scores independently, so an
// AND query does not require all terms to co-occur.
func queryLabel(query string) string {
	switch {
	case strings.Contains(query, " AND "):
		return "advanced AND search"
	case strings.Contains(query, " OR "):
		return "advanced OR search"
	default:
		return "standard search"
	}
}
