package nav

import (
	"math"
	"net/url"
	"sort"
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Whole-name match bonus
	ScoreExactNameBonus = 200.0
)

// LinkCandidate is a link of the document with its match score.
type LinkCandidate struct {
	Link     NavLink
	Category string
	Score    float64
}

// RankLinks scores every link of the document against a free-text query
// and returns the matches, best first. Ties keep document order.
func RankLinks(query string, doc *Document) []*LinkCandidate {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || doc == nil {
		return nil
	}

	var candidates []*LinkCandidate
	for _, cat := range doc.Categories {
		for _, link := range cat.Links {
			score := ScoreLink(query, link)
			if score == 0.0 {
				continue
			}
			candidates = append(candidates, &LinkCandidate{
				Link:     link,
				Category: cat.Title,
				Score:    score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// BestLink returns the best match for query, or false when nothing matches.
func BestLink(query string, doc *Document) (NavLink, bool) {
	candidates := RankLinks(query, doc)
	if len(candidates) == 0 {
		return NavLink{}, false
	}
	return candidates[0].Link, true
}

// ScoreLink scores a lower-cased query against the link's name and host.
func ScoreLink(query string, link NavLink) float64 {
	name := strings.ToLower(link.Name)
	if query == name {
		return ScoreExactMatch + ScoreExactNameBonus
	}

	best := 0.0
	for i, frag := range nameFragments(name) {
		if s := scoreFragment(query, frag, i); s > best {
			best = s
		}
	}
	for i, frag := range hostFragments(link.URL) {
		// host matches rank below name matches at the same quality
		if s := scoreFragment(query, frag, i+1) * 0.9; s > best {
			best = s
		}
	}
	return best
}

// scoreFragment scores a single query fragment against a target fragment
func scoreFragment(queryFrag, target string, position int) float64 {
	if queryFrag == "" || target == "" {
		return 0.0
	}

	if queryFrag == target {
		return ScoreExactMatch + calculatePositionBonus(position)
	}

	if strings.HasPrefix(target, queryFrag) {
		return ScorePrefixMatch + calculatePositionBonus(position)
	}

	if index := strings.Index(target, queryFrag); index >= 0 {
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(target)))
		return ScoreSubstringMatch + substringBonus
	}

	similarity := calculateSimilarity(queryFrag, target)
	if similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculatePositionBonus gives bonus for earlier positions
func calculatePositionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// calculateSimilarity is the ratio of query characters found in the target.
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}

	matches := 0
	total := 0
	for _, c := range s1 {
		total++
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}

	return float64(matches) / float64(total)
}

func nameFragments(name string) []string {
	frags := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.'
	})
	if len(frags) > 1 {
		frags = append([]string{strings.Join(frags, "")}, frags...)
	}
	return frags
}

// hostFragments splits "www.docs.example.com" into ["docs", "example"].
func hostFragments(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	parts := strings.Split(host, ".")
	if len(parts) > 1 {
		parts = parts[:len(parts)-1]
	}
	return parts
}
