package library

import (
	"strconv"
	"strings"
)

// DefaultDescription is used when a folder has no README paragraph to summarize.
const DefaultDescription = "No description available."

type prefixRange struct {
	lo, hi int
	value  string
}

var categoryRanges = []prefixRange{
	{1, 10, "Introduction and Fundamentals"},
	{11, 20, "Advanced Strategies"},
	{21, 30, "Professional Development"},
	{31, 40, "Tools and Resources"},
	{41, 50, "Advanced Topics"},
}

var difficultyRanges = []prefixRange{
	{1, 5, Beginner},
	{6, 15, Intermediate},
	{16, 30, Advanced},
	{31, 50, Expert},
}

func lookupRange(ranges []prefixRange, sectionID string) string {
	n, err := strconv.Atoi(sectionID)
	if err != nil {
		return ""
	}
	for _, r := range ranges {
		if n >= r.lo && n <= r.hi {
			return r.value
		}
	}
	return ""
}

// CategoryFor returns the range-derived category of a section id, or "".
func CategoryFor(sectionID string) string { return lookupRange(categoryRanges, sectionID) }

// DifficultyFor returns the range-derived difficulty of a section id, or "".
func DifficultyFor(sectionID string) string { return lookupRange(difficultyRanges, sectionID) }

// Section is the input to Derive for one corpus folder.
type Section struct {
	ID     string // section id, e.g. "07"
	Readme []byte // README source with frontmatter removed; nil when absent
}

// Derive builds a default table for sections given in corpus order.
// Related sections are the immediate neighbours in that order.
func Derive(sections []Section) Table {
	table := make(Table, len(sections))
	for i, s := range sections {
		related := make([]string, 0, 2)
		if i > 0 {
			related = append(related, sections[i-1].ID)
		}
		if i+1 < len(sections) {
			related = append(related, sections[i+1].ID)
		}
		table[s.ID] = Entry{
			Category:        CategoryFor(s.ID),
			Difficulty:      DifficultyFor(s.ID),
			RelatedSections: related,
			Description:     Summary(s.Readme),
		}
	}
	return table
}

// Summary returns the first non-heading paragraph of a markdown body,
// joined onto one line.
func Summary(body []byte) string {
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	for para := range strings.SplitSeq(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") || strings.HasPrefix(para, "@include(") {
			continue
		}
		return strings.Join(strings.Fields(para), " ")
	}
	return DefaultDescription
}
