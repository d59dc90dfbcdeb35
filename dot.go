package procmesh

import (
	"fmt"
	"sort"
	"strings"
)

// DotOptions configures dotfile rendering. The zero value is a usable
// default.
type DotOptions struct {
	// GraphName overrides the emitted graph's name (default "session" /
	// "program").
	GraphName string
}

func (o DotOptions) graphName(fallback string) string {
	if o.GraphName == "" {
		return fallback
	}
	return o.GraphName
}

// Dotfile renders def as a Graphviz directed graph (spec.md §4.7):
// process nodes (shape by kind), channel nodes (shape by topology), and
// edges from producer processes to a channel and from a channel to its
// consumer processes. Output is deterministic: processes and channels
// are emitted in declared id order.
func Dotfile(def *Def, opts ...DotOptions) string {
	var o DotOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", dotQuote(o.graphName("session")))
	b.WriteString("  rankdir=LR;\n")

	for _, p := range def.processes {
		fmt.Fprintf(&b, "  p%d [label=%s, shape=%s];\n", p.ID, dotHTMLLabel(processLabel(p)), processShape(p.Kind))
	}
	for _, c := range def.channels {
		fmt.Fprintf(&b, "  c%d [label=%s, shape=%s];\n", c.ID, dotHTMLLabel(channelLabel(c)), channelShape(c.Topology))
	}

	for _, c := range def.channels {
		producers := append([]ProcessID(nil), c.Producers...)
		sort.Slice(producers, func(i, j int) bool { return producers[i] < producers[j] })
		for _, pid := range producers {
			fmt.Fprintf(&b, "  p%d -> c%d;\n", pid, c.ID)
		}
		consumers := append([]ProcessID(nil), c.Consumers...)
		sort.Slice(consumers, func(i, j int) bool { return consumers[i] < consumers[j] })
		for _, pid := range consumers {
			fmt.Fprintf(&b, "  c%d -> p%d;\n", c.ID, pid)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// DotfileProgram renders a program's mode-transition graph: nodes are
// modes, edges are transitions labeled by event id.
func DotfileProgram(pd *ProgramDef, opts ...DotOptions) string {
	var o DotOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	modeIDs := make([]ModeID, 0, len(pd.modes))
	for id := range pd.modes {
		modeIDs = append(modeIDs, id)
	}
	sort.Slice(modeIDs, func(i, j int) bool { return modeIDs[i] < modeIDs[j] })

	eventIDs := make([]EventID, 0, len(pd.transitions))
	for id := range pd.transitions {
		eventIDs = append(eventIDs, id)
	}
	sort.Slice(eventIDs, func(i, j int) bool { return eventIDs[i] < eventIDs[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", dotQuote(o.graphName("program")))
	b.WriteString("  rankdir=LR;\n")

	for _, id := range modeIDs {
		m := pd.modes[id]
		shape := "ellipse"
		if id == pd.initial {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "  m%d [label=%s, shape=%s];\n", id, dotHTMLLabel(m.Name), shape)
	}
	for _, id := range eventIDs {
		t := pd.transitions[id]
		fmt.Fprintf(&b, "  m%d -> m%d [label=%s];\n", t.From, t.To, dotHTMLLabel(fmt.Sprintf("event %d", t.Event)))
	}

	b.WriteString("}\n")
	return b.String()
}

func processLabel(p ProcessDesc) string {
	if p.Name != "" {
		return fmt.Sprintf("%s\n(%s)", p.Name, p.Kind)
	}
	return fmt.Sprintf("process %d\n(%s)", p.ID, p.Kind)
}

func channelLabel(c ChannelDesc) string {
	if c.Name != "" {
		return fmt.Sprintf("%s\n(%s)", c.Name, c.Topology)
	}
	return fmt.Sprintf("channel %d\n(%s)", c.ID, c.Topology)
}

func processShape(k Kind) string {
	switch k {
	case Isochronous, Mesochronous:
		return "box"
	case Anisochronous:
		return "hexagon"
	case Asynchronous:
		return "ellipse"
	default:
		return "box"
	}
}

func channelShape(t Topology) string {
	switch t {
	case Simplex:
		return "diamond"
	case Sink:
		return "invtriangle"
	case Source:
		return "triangle"
	default:
		return "diamond"
	}
}

// dotQuote produces a double-quoted Graphviz ID, escaping the characters
// that would otherwise terminate the quoted string.
func dotQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// dotHTMLLabel renders s as a Graphviz HTML-like label (`<...>`
// delimited rather than quoted), escaping the five characters HTML
// labels are sensitive to and turning newlines into <BR/> so multi-line
// labels render as separate lines rather than literal "\n".
func dotHTMLLabel(s string) string {
	var b strings.Builder
	b.WriteByte('<')
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("<BR/>")
		}
		b.WriteString(htmlEscape(line))
	}
	b.WriteByte('>')
	return b.String()
}

func htmlEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
