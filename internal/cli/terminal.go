package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/decimaserve/pkg/decima"
	"github.com/bastiangx/decimaserve/pkg/meter"
	"github.com/bastiangx/decimaserve/pkg/scheme"
	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to print analyses. Styles come from a
// renderer bound to the output, so pipes and test buffers get plain text.
type palette struct {
	word   lipgloss.Style
	letter lipgloss.Style
	dim    lipgloss.Style
	status map[meter.Status]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		word:   r.NewStyle().Foreground(lipgloss.Color("75")),
		letter: r.NewStyle().Bold(true),
		dim:    r.NewStyle().Faint(true),
		status: map[meter.Status]lipgloss.Style{
			meter.Empty: r.NewStyle().Faint(true),
			meter.Short: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}),
			meter.Exact: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
			meter.Long:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#ea9d34", Dark: "#f6c177"}),
		},
	}
}

// renderLine prints one slot as "3 B  8/8 exact  texto".
func (p palette) renderLine(line decima.Line, target int, active bool) string {
	marker := " "
	if active {
		marker = ">"
	}
	count := fmt.Sprintf("%2d/%d", line.Syllables, target)
	text := line.Text
	if strings.TrimSpace(text) == "" {
		text = p.dim.Render("...")
	}
	return fmt.Sprintf("%s%2d %s  %s %-5s  %s",
		marker,
		line.Index+1,
		p.letter.Render(string(line.Letter)),
		p.status[line.Status].Render(count),
		line.Status,
		text)
}

// renderWords numbers a suggestion list on one line.
func (p palette) renderWords(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%d.%s", i+1, p.word.Render(w))
	}
	return strings.Join(parts, "  ")
}

// renderGroups prints the group suggestions in scheme order.
func (p palette) renderGroups(sc scheme.Scheme, groups map[rune][]string) []string {
	var out []string
	for _, g := range sc.GroupOrder() {
		words, ok := groups[g]
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", p.letter.Render(string(g)), p.renderWords(words)))
	}
	return out
}

// renderLinks prints the rhyme links, showing inactive ones dimmed.
func (p palette) renderLinks(links []scheme.Link) string {
	parts := make([]string, len(links))
	for i, l := range links {
		s := fmt.Sprintf("%c:%d-%d", l.Group, l.From+1, l.To+1)
		if !l.Active {
			s = p.dim.Render(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
