package adf

import "regexp"

// inlineMatchers are tried in priority order at every scan position. The
// leftmost match wins; a tie on position goes to the earlier matcher.
// Every pattern requires at least one non-delimiter character inside, so
// empty forms like "****" never match.
var inlineMatchers = []struct {
	re    *regexp.Regexp
	apply func(m []string) Inline
}{
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`), func(m []string) Inline {
		return Inline{Text: m[1], Marks: []Mark{{Type: MarkLink, Href: m[2]}}}
	}},
	{regexp.MustCompile("`([^`]+)`"), marked(MarkCode)},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), marked(MarkStrong)},
	{regexp.MustCompile(`__([^_]+)__`), marked(MarkStrong)},
	{regexp.MustCompile(`~~([^~]+)~~`), marked(MarkStrike)},
	{regexp.MustCompile(`\*([^*]+)\*`), marked(MarkEm)},
	{regexp.MustCompile(`_([^_]+)_`), marked(MarkEm)},
}

func marked(markType string) func(m []string) Inline {
	return func(m []string) Inline {
		return Inline{Text: m[1], Marks: []Mark{{Type: markType}}}
	}
}

// formatInline scans a single line left to right and splits it into
// inline runs. Text between matches comes out as unmarked runs; each
// match carries exactly one mark. The scan never backtracks into text
// already emitted, and the result is never empty.
func formatInline(line string) []Inline {
	var runs []Inline

	rest := line
	for rest != "" {
		best := -1
		var loc []int
		for i, m := range inlineMatchers {
			if l := m.re.FindStringIndex(rest); l != nil && (best == -1 || l[0] < loc[0]) {
				best, loc = i, l
			}
		}
		if best == -1 {
			runs = append(runs, Inline{Text: rest})
			break
		}
		if loc[0] > 0 {
			runs = append(runs, Inline{Text: rest[:loc[0]]})
		}
		span := rest[loc[0]:loc[1]]
		runs = append(runs, inlineMatchers[best].apply(inlineMatchers[best].re.FindStringSubmatch(span)))
		rest = rest[loc[1]:]
	}

	if len(runs) == 0 {
		runs = []Inline{{Text: line}}
	}
	return runs
}
