package capgen

import (
	"fmt"
	"strings"

	"github.com/pdxtools/capgen/internal/graph"
	"github.com/pdxtools/capgen/rules"
)

// CheckRules reports rules that read a key derived by a later rule, and
// groups of rules that read each other's output. Rules always run in
// declared order, so such inputs are absent after a reset.
func CheckRules(set rules.Set) []Diagnostic {
	producer := make(map[string]int, len(set))
	for i, r := range set {
		producer[r.Produces] = i
	}

	g := graph.New()
	var diags []Diagnostic
	for i, r := range set {
		g.AddNode(r.Produces)
		for _, in := range r.Inputs {
			j, derived := producer[in]
			if !derived {
				continue
			}
			g.AddEdge(r.Produces, in)
			if j > i {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     DiagRuleOrder,
					Message: fmt.Sprintf("Rule for %s reads %s, which is derived by a later rule",
						r.Produces, in),
				})
			}
		}
	}

	_, cycles := g.Order()
	for _, cycle := range cycles {
		msg := fmt.Sprintf("Rules for %s read each other's output", strings.Join(cycle, ", "))
		if len(cycle) == 1 {
			msg = fmt.Sprintf("Rule for %s reads its own output", cycle[0])
		}
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     DiagRuleCycle,
			Message:  msg,
		})
	}
	return diags
}
