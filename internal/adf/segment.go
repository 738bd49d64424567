package adf

import (
	"regexp"
	"strings"
)

var (
	headingRe = regexp.MustCompile(`^(#{1,6}) (.*)$`)
	orderedRe = regexp.MustCompile(`^\d+\. (.*)$`)
)

// Convert parses text into an ADF document in a single forward pass over
// its lines. Block order matches input line order; consecutive bullet or
// ordered lines group into one list, and any intervening line (blank
// lines included) breaks the grouping.
func Convert(text string) *Document {
	var (
		blocks    []Block
		inFence   bool
		fenceLang string
		fenceBuf  []string
		listOpen  bool
	)

	flushFence := func() {
		blocks = append(blocks, &CodeBlock{Language: fenceLang, Text: strings.Join(fenceBuf, "\n")})
		inFence = false
		fenceLang = ""
		fenceBuf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				flushFence()
			} else {
				inFence = true
				fenceLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			}
			listOpen = false
			continue
		}
		if inFence {
			// Code content is kept verbatim, heading/list syntax included.
			fenceBuf = append(fenceBuf, line)
			continue
		}
		if trimmed == "" {
			// A blank line ends any open list; the next list line
			// starts a fresh one.
			listOpen = false
			continue
		}
		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			blocks = append(blocks, &Heading{Level: len(m[1]), Inline: formatInline(m[2])})
			listOpen = false
			continue
		}
		if rest, ok := bulletText(trimmed); ok {
			item := ListItem{Paragraph: Paragraph{Inline: formatInline(rest)}}
			if last, ok := lastBlock(blocks).(*BulletList); ok && listOpen {
				last.Items = append(last.Items, item)
			} else {
				blocks = append(blocks, &BulletList{Items: []ListItem{item}})
			}
			listOpen = true
			continue
		}
		if m := orderedRe.FindStringSubmatch(trimmed); m != nil {
			item := ListItem{Paragraph: Paragraph{Inline: formatInline(m[1])}}
			if last, ok := lastBlock(blocks).(*OrderedList); ok && listOpen {
				last.Items = append(last.Items, item)
			} else {
				blocks = append(blocks, &OrderedList{Items: []ListItem{item}})
			}
			listOpen = true
			continue
		}
		blocks = append(blocks, &Paragraph{Inline: formatInline(trimmed)})
		listOpen = false
	}

	// Unterminated fence: flush what was collected rather than drop it.
	if inFence {
		flushFence()
	}
	if len(blocks) == 0 {
		blocks = append(blocks, &Paragraph{})
	}
	return &Document{Blocks: blocks}
}

func bulletText(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return line[len(marker):], true
		}
	}
	return "", false
}

func lastBlock(blocks []Block) Block {
	if len(blocks) == 0 {
		return nil
	}
	return blocks[len(blocks)-1]
}
