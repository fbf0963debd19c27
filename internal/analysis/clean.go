package analysis

import (
	"regexp"
	"strings"
)

var headingPatterns = compileHeadings(append(append([]string(nil), reportTitles...), Dimensions...))

func compileHeadings(names []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(names))
	for _, n := range names {
		out = append(out, regexp.MustCompile(`(?i)^#+\s*(?:\d+[.)]\s*)?`+regexp.QuoteMeta(n)+`\s*$`))
	}
	return out
}

// headingKey returns the index of the fixed heading line matches, or -1.
func headingKey(line string) int {
	for i, re := range headingPatterns {
		if re.MatchString(line) {
			return i
		}
	}
	return -1
}

// CleanDuplicates removes repeated fixed headings and repeated paragraphs
// from streamed model output. First occurrences keep their position.
func CleanDuplicates(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	seenLines := make(map[string]struct{})
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && headingKey(trimmed) >= 0 {
			if _, ok := seenLines[trimmed]; ok {
				continue
			}
			seenLines[trimmed] = struct{}{}
		}
		kept = append(kept, line)
	}

	paragraphs := strings.Split(strings.Join(kept, "\n"), "\n\n")
	out := make([]string, 0, len(paragraphs))
	seenParas := make(map[string]struct{})
	seenHeadings := make(map[int]struct{})
	for _, p := range paragraphs {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if _, ok := seenParas[trimmed]; ok {
			continue
		}

		keys := paragraphHeadings(trimmed)
		repeated := false
		for _, k := range keys {
			if _, ok := seenHeadings[k]; ok {
				repeated = true
				break
			}
		}
		if repeated {
			continue
		}

		seenParas[trimmed] = struct{}{}
		for _, k := range keys {
			seenHeadings[k] = struct{}{}
		}
		out = append(out, p)
	}
	return strings.Join(out, "\n\n")
}

func paragraphHeadings(p string) []int {
	var keys []int
	for _, line := range strings.Split(p, "\n") {
		if k := headingKey(strings.TrimSpace(line)); k >= 0 {
			keys = append(keys, k)
		}
	}
	return keys
}
