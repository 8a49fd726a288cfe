package parser

import (
	"strings"

	"github.com/samepage-network/obsidian-samepage/lexer"
)

const maxStackDepth = 16

// expectations shows the line of tok and describes what the scannable states of col were waiting for,
// each expected terminal is followed by the chain of rules that predicted it.
func expectations(tok *lexer.Token, col *column) string {
	var b strings.Builder
	if src := tok.Source(); src != nil {
		b.WriteString("    " + src.LineText(tok.Line()) + "\n")
		b.WriteString("    " + strings.Repeat(" ", tok.Col()-1) + "^\n")
	}
	b.WriteString("Instead, one of the following was expected:")
	seen := make(map[string]bool)
	for _, st := range col.scannable {
		sym := st.expecting()
		stack := ruleStack(st)
		key := sym.Name + "\n" + strings.Join(stack, "\n")
		if seen[key] {
			continue
		}
		seen[key] = true

		b.WriteString("\n\nA " + sym.Name + " token based on:")
		for _, line := range stack {
			b.WriteString("\n    " + line)
		}
	}
	return b.String()
}

// ruleStack follows the first waiting state upwards from st.
func ruleStack(st *state) []string {
	var result []string
	visited := make(map[*state]bool)
	for st != nil && !visited[st] && len(result) < maxStackDepth {
		visited[st] = true
		line := st.String()
		if st.ctx.Flags.Len() > 0 {
			line += " " + st.ctx.Flags.String()
		}
		result = append(result, line)
		if st.wantedBy == nil || len(st.wantedBy.states) == 0 {
			break
		}
		st = st.wantedBy.states[0]
	}
	return result
}
