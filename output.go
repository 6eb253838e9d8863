package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	ansicolor "github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// formatSum renders the final sum. Hex wins over comma grouping.
func formatSum(s Sum, hex, comma bool) string {
	switch {
	case hex:
		return s.Text(16)
	case comma && s.IsFloat():
		return humanize.Commaf(s.Float64())
	case comma:
		return humanize.BigComma(s.Int().Big())
	default:
		return s.Text(10)
	}
}

type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

func parseColorMode(s string) (colorMode, error) {
	switch m := colorMode(s); m {
	case colorAuto, colorAlways, colorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q: must be one of auto, always, never", s)
}

// verbosePrinter writes one line per processed input line, followed by a
// separator before the final sum.
type verbosePrinter struct {
	w   io.Writer
	hex bool

	label    *ansicolor.Color
	value    *ansicolor.Color
	err      *ansicolor.Color
	errValue *ansicolor.Color
}

func newVerbosePrinter(w io.Writer, hex bool, mode colorMode) *verbosePrinter {
	vp := &verbosePrinter{
		w:        w,
		hex:      hex,
		label:    ansicolor.New(ansicolor.FgCyan),
		value:    ansicolor.New(ansicolor.FgCyan, ansicolor.Bold),
		err:      ansicolor.New(ansicolor.FgRed),
		errValue: ansicolor.New(ansicolor.FgRed, ansicolor.Bold),
	}
	for _, c := range []*ansicolor.Color{vp.label, vp.value, vp.err, vp.errValue} {
		switch mode {
		case colorAlways:
			c.EnableColor()
		case colorNever:
			c.DisableColor()
		}
	}
	return vp
}

func item(name, value string, nc, vc *ansicolor.Color) string {
	return nc.Sprint(name+"=") + vc.Sprint(value)
}

func (vp *verbosePrinter) line(res Result, sum Sum, count int) {
	items := []string{
		vp.label.Sprint("#"),
		item("n", res.Value.GoString(), vp.label, vp.value),
		item("sum", sum.GoString(), vp.label, vp.value),
		item("cnt", strconv.Itoa(count), vp.label, vp.value),
		item("radix", strconv.Itoa(res.Radix), vp.label, vp.value),
		item("raw_str", strconv.Quote(res.Raw), vp.label, vp.value),
	}
	if res.Err != nil {
		items = append(items, item("err", strconv.Quote(res.Err.Error()), vp.err, vp.errValue))
	}

	base := 10
	if vp.hex {
		base = 16
	}
	fmt.Fprintf(vp.w, "%s\t %s\n", res.Value.Text(base), strings.Join(items, " "))
}

func (vp *verbosePrinter) separator() {
	fmt.Fprintln(vp.w, vp.label.Sprint("=="))
}

// writeReport renders a summary of the run as a table.
func writeReport(w io.Writer, p *Processor, files int, hex bool) {
	lines, empty := p.Stats()
	unparsed := lines - empty - p.Count()

	kind := "integer"
	if p.Sum().IsFloat() {
		kind = "float"
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"files", "lines", "blank", "parsed", "unparsed", "kind", "sum"})
	table.SetAutoFormatHeaders(false)
	table.Append([]string{
		humanize.Comma(int64(files)),
		humanize.Comma(int64(lines)),
		humanize.Comma(int64(empty)),
		humanize.Comma(int64(p.Count())),
		humanize.Comma(int64(unparsed)),
		kind,
		formatSum(p.Sum(), hex, !hex),
	})
	table.Render()
}
