package gui

import (
	"fmt"
	"strings"

	"github.com/san-kum/termfolio/internal/content"
	"github.com/san-kum/termfolio/internal/panels"
)

type tone int

const (
	toneText tone = iota
	toneTitle
	toneAccent
	toneMuted
	toneFaint
)

// textRow is one line of the side panel. panel is the disclosure id the row
// belongs to.
type textRow struct {
	text  string
	size  int
	tone  tone
	panel string
}

const (
	sizeBody  = 16
	sizeTitle = 24
	sizeHead  = 14
)

// wrapText breaks s into lines of at most cols runes on word boundaries.
func wrapText(s string, cols int) []string {
	if cols < 1 {
		cols = 1
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var out []string
	cur := ""
	for _, w := range words {
		for len([]rune(w)) > cols {
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			r := []rune(w)
			out = append(out, string(r[:cols]))
			w = string(r[cols:])
		}
		switch {
		case cur == "":
			cur = w
		case len([]rune(cur))+1+len([]rune(w)) <= cols:
			cur += " " + w
		default:
			out = append(out, cur)
			cur = w
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

type sheet struct {
	rows []textRow
	cols int
}

func (s *sheet) add(text string, size int, t tone, panel string) {
	s.rows = append(s.rows, textRow{text: text, size: size, tone: t, panel: panel})
}

func (s *sheet) para(text string, size int, t tone, panel string) {
	cols := s.cols
	if size > sizeBody {
		cols = s.cols * sizeBody / size
	}
	for _, l := range wrapText(text, cols) {
		s.add(l, size, t, panel)
	}
}

func (s *sheet) gap() { s.add("", sizeBody/2, toneText, "") }

// layoutDocument flattens the document into panel rows at cols characters
// of body text per line.
func layoutDocument(doc *content.Document, set *panels.Set, cols int) []textRow {
	s := &sheet{cols: cols}

	for _, h := range doc.Profile.Headline {
		s.para(strings.ToUpper(h), sizeTitle, toneTitle, "")
	}
	s.gap()
	s.para(doc.Profile.Summary, sizeBody, toneMuted, "")
	s.gap()

	section := func(i int, label, title string) {
		s.gap()
		s.add(fmt.Sprintf("[%02d] %s", i, strings.ToUpper(label)), sizeHead, toneAccent, "")
		s.add(strings.ToUpper(title), sizeTitle, toneTitle, "")
		s.gap()
	}

	if len(doc.Experience) > 0 {
		section(1, "History", "Experience")
		for _, e := range doc.Experience {
			open := set.Expanded(e.ID)
			marker := "+ "
			if open {
				marker = "- "
			}
			s.add(marker+strings.ToUpper(e.Company)+"  "+e.Period, sizeBody, toneTitle, e.ID)
			s.para(e.Role, sizeBody, toneAccent, e.ID)
			s.para(e.Desc, sizeBody, toneMuted, e.ID)
			if len(e.Tags) > 0 {
				s.para("["+strings.Join(e.Tags, "] [")+"]", sizeHead, toneFaint, e.ID)
			}
			if open {
				for _, h := range e.History {
					s.para("> "+h, sizeBody, toneText, e.ID)
				}
			}
			s.gap()
		}
	}

	if len(doc.Skills) > 0 {
		section(2, "Modules", "Technical")
		for _, g := range doc.Skills {
			s.add("// "+strings.ToUpper(g.Label), sizeHead, toneAccent, "")
			s.para(strings.Join(g.Items, " · "), sizeBody, toneText, "")
		}
	}

	if len(doc.Education) > 0 {
		section(3, "Archives", "Education")
		for _, e := range doc.Education {
			s.add(e.Period+"  "+strings.ToUpper(e.Kind), sizeHead, toneFaint, "")
			s.para(e.Institution, sizeBody, toneTitle, "")
			s.para(e.Degree, sizeBody, toneMuted, "")
		}
	}

	if len(doc.Awards) > 0 {
		section(4, "Recognition", "Awards")
		for _, a := range doc.Awards {
			s.para("* "+a, sizeBody, toneText, "")
		}
	}

	s.gap()
	for _, l := range doc.Links {
		s.add(strings.ToUpper(l.Label)+"  "+l.URL, sizeHead, toneMuted, "")
	}
	if doc.Footer.Copyright != "" {
		s.add(doc.Footer.Copyright, sizeHead, toneFaint, "")
	}
	return s.rows
}

// rowHeight is the vertical advance of a row in pixels.
func rowHeight(r textRow) int { return r.size + r.size/2 }

func sheetHeight(rows []textRow) int {
	h := 0
	for _, r := range rows {
		h += rowHeight(r)
	}
	return h
}

// panelAt returns the panel under y, where y is measured from the top of
// the sheet.
func panelAt(rows []textRow, y int) string {
	if y < 0 {
		return ""
	}
	top := 0
	for _, r := range rows {
		h := rowHeight(r)
		if y < top+h {
			return r.panel
		}
		top += h
	}
	return ""
}
