package content

import (
	"fmt"
	"io"
	"strings"
)

// RenderPlain writes the document as a plain-text résumé.
func RenderPlain(w io.Writer, d *Document) error {
	p := &printer{w: w}

	p.line(strings.ToUpper(d.Profile.Name))
	p.line(strings.Repeat("=", len([]rune(d.Profile.Name))))
	if len(d.Profile.Headline) > 0 {
		p.line(strings.ToUpper(strings.Join(d.Profile.Headline, " ")))
	}
	if d.Profile.Summary != "" {
		p.blank()
		p.line(d.Profile.Summary)
	}
	var contact []string
	for _, c := range []string{d.Profile.Email, d.Profile.Phone} {
		if c != "" {
			contact = append(contact, c)
		}
	}
	if len(contact) > 0 {
		p.line(strings.Join(contact, " | "))
	}

	if len(d.Experience) > 0 {
		p.section(1, "Experience")
		for _, e := range d.Experience {
			p.line(fmt.Sprintf("%s  %s", e.Period, e.Company))
			p.line("  " + e.Role)
			if e.Desc != "" {
				p.line("  " + e.Desc)
			}
			if len(e.Tags) > 0 {
				p.line("  [" + strings.Join(e.Tags, "] [") + "]")
			}
			for _, h := range e.History {
				p.line("  - " + h)
			}
			p.blank()
		}
	}

	if len(d.Skills) > 0 {
		p.section(2, "Technical")
		for _, g := range d.Skills {
			p.line(fmt.Sprintf("%-18s %s", g.Label, strings.Join(g.Items, ", ")))
		}
	}

	if len(d.Education) > 0 {
		p.section(3, "Archives")
		for _, e := range d.Education {
			p.line(fmt.Sprintf("%s  %s", e.Period, e.Institution))
			p.line("  " + e.Degree)
		}
	}

	if len(d.Awards) > 0 {
		p.section(4, "Recognition")
		for _, a := range d.Awards {
			p.line("* " + a)
		}
	}

	if len(d.Links) > 0 || d.Footer.Copyright != "" {
		p.blank()
		p.line(strings.Repeat("-", 40))
		for _, l := range d.Links {
			p.line(fmt.Sprintf("%-10s %s", l.Label, l.URL))
		}
		if d.Footer.Status != "" {
			p.line(d.Footer.Status)
		}
		if d.Footer.Copyright != "" {
			p.line(d.Footer.Copyright)
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) blank() { p.line("") }

func (p *printer) section(i int, title string) {
	p.blank()
	p.line(fmt.Sprintf("[%02d] %s", i, strings.ToUpper(title)))
	p.blank()
}
