package report

import (
	"fmt"
	"regexp"
	"strings"

	"speech-coach/api/internal/speech/types"
)

// Category is the headline shown next to the score gauge.
type Category struct {
	Title       string
	Description string
}

// CategoryOf buckets a score. The model's overall text, when present, replaces the
// generic description for every bucket except the top one.
func CategoryOf(score int, overall string) Category {
	overall = strings.TrimSpace(overall)
	pick := func(def string) string {
		if overall != "" {
			return overall
		}
		return def
	}
	switch {
	case score >= 85:
		return Category{"Excellent Performance!", "Your speech demonstrates excellent quality across all dimensions."}
	case score >= 70:
		return Category{"Good Performance!", pick("Your speech shows good overall quality with some areas for improvement.")}
	case score >= 50:
		return Category{"Fair Performance", pick("Your speech is understandable but needs significant improvement.")}
	default:
		return Category{"Needs Improvement", pick("Your speech requires substantial work in multiple areas.")}
	}
}

var (
	reBreak  = regexp.MustCompile(`(?i)<br\s*/?>`)
	reBullet = regexp.MustCompile(`^[-•*]\s*`)
)

// Text renders a result as a plain-text report.
func Text(r types.Result) string {
	var b strings.Builder
	cat := CategoryOf(r.Score, r.Overall)
	fmt.Fprintf(&b, "Score: %d/100 (%s)\n%s\n", r.Score, cat.Title, cat.Description)

	if len(r.PronunciationErrors) > 0 {
		b.WriteString("\nPronunciation errors:\n")
		for _, pe := range r.PronunciationErrors {
			fmt.Fprintf(&b, "✗ %q: %s\n  ✓ %s\n", pe.Word, pe.Error, pe.Correction)
		}
	}

	strengths, improvements := r.Strengths, r.Improvements
	if r.Fallback {
		strengths = ExtractListItems(r.DetailedFeedback, "strength")
		improvements = ExtractListItems(r.DetailedFeedback, "improve")
	}
	writeList(&b, "Strengths", strengths)
	writeList(&b, "Improvements", improvements)

	if fb := strings.TrimSpace(reBreak.ReplaceAllString(r.DetailedFeedback, "\n")); fb != "" {
		b.WriteString("\nDetailed feedback:\n")
		b.WriteString(fb)
		b.WriteString("\n")
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "• %s\n", it)
	}
}

// ExtractListItems is a best-effort heuristic for free text: bullet lines mentioning keyword,
// bullet stripped, at most three. Never empty.
func ExtractListItems(text, keyword string) []string {
	var items []string
	kw := strings.ToLower(keyword)
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(strings.ToLower(line), kw) {
			continue
		}
		if !strings.Contains(line, "-") && !strings.Contains(line, "•") {
			continue
		}
		if cleaned := strings.TrimSpace(reBullet.ReplaceAllString(strings.TrimSpace(line), "")); cleaned != "" {
			items = append(items, cleaned)
		}
		if len(items) == 3 {
			break
		}
	}
	if len(items) == 0 {
		return []string{fmt.Sprintf("Analysis of %s aspects", keyword)}
	}
	return items
}
