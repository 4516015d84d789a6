package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/termfolio/internal/content"
	"github.com/san-kum/termfolio/internal/panels"
	"github.com/san-kum/termfolio/internal/viz"
)

// line is one row of the scrolling document. panel is the disclosure id the
// row belongs to, empty for rows outside any panel.
type line struct {
	text  string
	panel string
}

type page struct {
	lines    []line
	sections map[string]int
}

func (p *page) add(text, panel string) {
	p.lines = append(p.lines, line{text: text, panel: panel})
}

func (p *page) blank() { p.add("", "") }

// block splits a rendered multi-line string into rows of the same panel.
func (p *page) block(text, panel string) {
	for _, l := range strings.Split(text, "\n") {
		p.add(l, panel)
	}
}

func (p *page) mark(name string) { p.sections[name] = len(p.lines) }

// wrap word-wraps text to width and styles it.
func wrap(st lipgloss.Style, width int, text string) string {
	if width < 1 {
		width = 1
	}
	return st.Width(width).Render(text)
}

// buildPage lays the document out at width columns. focus marks the panel
// the keyboard cursor is on.
func buildPage(doc *content.Document, set *panels.Set, s viz.Styles, width int, focus string) page {
	p := page{sections: make(map[string]int)}

	p.mark("top")
	for _, h := range doc.Profile.Headline {
		p.block(wrap(s.Title, width, strings.ToUpper(h)), "")
	}
	p.blank()
	if doc.Profile.Summary != "" {
		p.block(wrap(s.Muted, width, doc.Profile.Summary), "")
	}
	if doc.Profile.Status != "" {
		p.add(s.Accent.Render("● ")+s.Faint.Render(strings.ToUpper(doc.Profile.Status)), "")
	}
	p.blank()

	if len(doc.Experience) > 0 {
		p.mark("history")
		p.block(viz.SectionHeader(1, "History", "Experience", s), "")
		p.blank()
		for _, e := range doc.Experience {
			experience(&p, e, set, s, width, focus == e.ID)
		}
	}

	if len(doc.Skills) > 0 {
		p.mark("modules")
		p.block(viz.SectionHeader(2, "Modules", "Technical", s), "")
		p.blank()
		for _, g := range doc.Skills {
			p.add(s.Accent.Render("// "+strings.ToUpper(g.Label)), "")
			p.block(wrap(s.Text, width, strings.Join(g.Items, " · ")), "")
			p.blank()
		}
	}

	if len(doc.Education) > 0 {
		p.mark("archives")
		p.block(viz.SectionHeader(3, "Archives", "Education", s), "")
		p.blank()
		for _, e := range doc.Education {
			p.add(s.Faint.Render(e.Period)+"  "+s.Muted.Render(strings.ToUpper(e.Kind)), "")
			p.block(wrap(s.Title, width, e.Institution), "")
			p.block(wrap(s.Muted, width, e.Degree), "")
			p.blank()
		}
	}

	if len(doc.Awards) > 0 {
		p.mark("recognition")
		p.block(viz.SectionHeader(4, "Recognition", "Awards", s), "")
		p.blank()
		for _, a := range doc.Awards {
			p.block(wrap(s.Text, width, "◆ "+a), "")
		}
		p.blank()
	}

	p.add(viz.Separator(width, s.Faint), "")
	for _, l := range doc.Links {
		p.add(s.Muted.Render(fmt.Sprintf("%-10s", strings.ToUpper(l.Label)))+s.Text.Render(l.URL), "")
	}
	if doc.Footer.Status != "" {
		p.add(s.Faint.Render(doc.Footer.Status), "")
	}
	if doc.Footer.Copyright != "" {
		p.add(s.Faint.Render(doc.Footer.Copyright), "")
	}
	return p
}

func experience(p *page, e content.Experience, set *panels.Set, s viz.Styles, width int, focused bool) {
	open := set.Expanded(e.ID)

	marker := "▸ "
	if open {
		marker = "▾ "
	}
	head := s.Muted.Render(marker)
	if focused {
		head = s.Selected.Render(marker)
	}
	company := strings.ToUpper(e.Company)
	if open || focused {
		company = s.Selected.Render(company)
	} else {
		company = s.Title.Render(company)
	}
	p.add(head+company+"  "+s.Faint.Render(e.Period), e.ID)
	p.block(wrap(s.Accent, width, e.Role), e.ID)
	if e.Desc != "" {
		p.block(wrap(s.Muted, width, e.Desc), e.ID)
	}
	if len(e.Tags) > 0 {
		tags := make([]string, len(e.Tags))
		for i, t := range e.Tags {
			tags[i] = "[" + t + "]"
		}
		p.block(wrap(s.Faint, width, strings.Join(tags, " ")), e.ID)
	}
	if open {
		for _, h := range e.History {
			p.block(wrap(s.Text, width, "  - "+h), e.ID)
		}
	} else if len(e.History) > 0 {
		p.add(s.KeyHint.Render(fmt.Sprintf("  +%d entries", len(e.History))), e.ID)
	}
	p.blank()
}
