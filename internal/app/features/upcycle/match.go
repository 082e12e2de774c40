package upcycle

import (
	"sort"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// tokenize folds a free-text string and splits it into keywords, dropping
// anything shorter than three characters.
func tokenize(s string) map[string]struct{} {
	folded := text.Fold(s)
	folded = strings.NewReplacer("/", " ", ",", " ").Replace(folded)

	words := make(map[string]struct{})
	for _, w := range strings.Fields(folded) {
		if len(w) > 2 {
			words[w] = struct{}{}
		}
	}
	return words
}

// score counts keyword overlap between the query and an idea's title,
// summary, materials, and steps.
func score(query map[string]struct{}, idea Idea) int {
	if len(query) == 0 {
		return 0
	}

	parts := []string{idea.Title, idea.Summary,
		strings.Join(idea.Materials, " "), strings.Join(idea.Steps, " ")}
	ideaWords := tokenize(strings.Join(parts, " "))

	n := 0
	for w := range query {
		if _, ok := ideaWords[w]; ok {
			n++
		}
	}
	return n
}

// match ranks the knowledge base against a message and returns the top
// three ideas. Questions that match nothing get the first two catalog
// entries so the reply is never empty.
func match(message string) []Idea {
	query := tokenize(message)

	type ranked struct {
		idea  Idea
		score int
	}
	var hits []ranked
	for _, idea := range knowledgeBase {
		if s := score(query, idea); s > 0 {
			hits = append(hits, ranked{idea: idea, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if len(hits) == 0 {
		return append([]Idea(nil), knowledgeBase[:2]...)
	}
	if len(hits) > 3 {
		hits = hits[:3]
	}
	out := make([]Idea, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.idea)
	}
	return out
}

// composeReply builds the conversational text shown above the idea cards.
func composeReply(ideas []Idea) string {
	var b strings.Builder
	b.WriteString("Here are some upcycling / recycling ideas based on your question. ")
	b.WriteString("These projects use common waste items like plastic bottles, cardboard, and old clothes:\n\n")
	for i, idea := range ideas {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(idea.Title)
		b.WriteString(" - ")
		b.WriteString(idea.Summary)
	}
	return b.String()
}
