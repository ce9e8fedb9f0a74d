package scheme

import "strings"

// Link joins two slots of the same rhyme group.
type Link struct {
	Group  rune
	From   int
	To     int
	Active bool
}

// Links returns every pair of slots that share a group, ordered by group
// appearance and then by slot. A link is active when either of its verses
// has text.
func (s Scheme) Links(verses []string) []Link {
	groups := s.Groups()
	var links []Link

	for _, key := range s.GroupOrder() {
		slots := groups[key]
		for i := 0; i < len(slots); i++ {
			for j := i + 1; j < len(slots); j++ {
				links = append(links, Link{
					Group:  key,
					From:   slots[i],
					To:     slots[j],
					Active: hasText(verses, slots[i]) || hasText(verses, slots[j]),
				})
			}
		}
	}
	return links
}

func hasText(verses []string, i int) bool {
	return i >= 0 && i < len(verses) && strings.TrimSpace(verses[i]) != ""
}
