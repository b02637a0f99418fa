// Package explain renders a materialized plan.Plan tree into the
// EXPLAIN-adjacent debugging form spec.md §1 calls out as consumed by "the
// EXPLAIN facility": a YAML document plus a fast fingerprint for log/trace
// correlation. Neither is behavior-affecting — the Open Question in
// spec.md §9 about set_difference identity semantics is untouched by
// anything here, since Fingerprint is never used to decide plan equality,
// only to tag one in a log line.
package explain

import (
	"github.com/cespare/xxhash"
	"gopkg.in/yaml.v2"

	"github.com/relplan/planmat/plan"
)

// Node is the YAML-serializable shape of one Plan node: enough of its
// identity and cost estimate to read an EXPLAIN-style tree at a glance,
// plus whatever per-variant fields distinguish it.
type Node struct {
	Type        string   `yaml:"type"`
	ScanRelID   int      `yaml:"scan_relid,omitempty"`
	IndexNames  []string `yaml:"index_names,omitempty"`
	JoinType    int     `yaml:"join_type,omitempty"`
	KeyCount    int     `yaml:"key_count,omitempty"`
	Strategy    string  `yaml:"strategy,omitempty"`
	Cmd         string  `yaml:"cmd,omitempty"`
	StartupCost float64 `yaml:"startup_cost"`
	TotalCost   float64 `yaml:"total_cost"`
	PlanRows    float64 `yaml:"plan_rows"`
	PlanWidth   int     `yaml:"plan_width"`
	TargetCount int     `yaml:"target_count"`
	QualCount   int     `yaml:"qual_count,omitempty"`

	Children []*Node `yaml:"children,omitempty"`
}

// Describe walks p and builds its Node tree. A nil p describes as nil.
func Describe(p plan.Plan) *Node {
	if p == nil {
		return nil
	}
	h := p.Head()
	n := &Node{
		Type:        typeName(p),
		StartupCost: h.StartupCost,
		TotalCost:   h.TotalCost,
		PlanRows:    h.PlanRows,
		PlanWidth:   h.PlanWidth,
		TargetCount: len(h.TargetList),
		QualCount:   len(h.Qual),
	}

	switch v := p.(type) {
	case *plan.SeqScan:
		n.ScanRelID = v.ScanRelID
	case *plan.IndexScan:
		n.ScanRelID = v.ScanRelID
		n.IndexNames = v.IndexNames
	case *plan.TidScan:
		n.ScanRelID = v.ScanRelID
	case *plan.FunctionScan:
		n.ScanRelID = v.ScanRelID
	case *plan.SubqueryScan:
		n.ScanRelID = v.ScanRelID
		n.Children = append(n.Children, Describe(v.Subplan))
	case *plan.NestLoop:
		n.JoinType = v.JoinType
	case *plan.MergeJoin:
		n.JoinType = v.JoinType
	case *plan.HashJoin:
		n.JoinType = v.JoinType
	case *plan.Sort:
		n.KeyCount = v.KeyCount
	case *plan.Agg:
		n.Strategy = v.Strategy
	case *plan.SetOp:
		n.Cmd = v.Cmd
	case *plan.Append:
		for _, sp := range v.Subplans {
			n.Children = append(n.Children, Describe(sp))
		}
		return n
	}

	if h.Left != nil {
		n.Children = append(n.Children, Describe(h.Left))
	}
	if h.Right != nil {
		n.Children = append(n.Children, Describe(h.Right))
	}
	return n
}

func typeName(p plan.Plan) string {
	switch p.(type) {
	case *plan.SeqScan:
		return "SeqScan"
	case *plan.IndexScan:
		return "IndexScan"
	case *plan.TidScan:
		return "TidScan"
	case *plan.SubqueryScan:
		return "SubqueryScan"
	case *plan.FunctionScan:
		return "FunctionScan"
	case *plan.NestLoop:
		return "NestLoop"
	case *plan.MergeJoin:
		return "MergeJoin"
	case *plan.HashJoin:
		return "HashJoin"
	case *plan.Hash:
		return "Hash"
	case *plan.Append:
		return "Append"
	case *plan.Result:
		return "Result"
	case *plan.Material:
		return "Material"
	case *plan.Sort:
		return "Sort"
	case *plan.Agg:
		return "Agg"
	case *plan.Group:
		return "Group"
	case *plan.Unique:
		return "Unique"
	case *plan.SetOp:
		return "SetOp"
	case *plan.Limit:
		return "Limit"
	default:
		return "Unknown"
	}
}

// Dump renders p as an indented YAML document.
func Dump(p plan.Plan) (string, error) {
	out, err := yaml.Marshal(Describe(p))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Fingerprint returns a fast, stable hash of p's YAML rendering, suitable
// for tagging a log or trace entry so two plans can be told apart at a
// glance. It is not a substitute for structural equality: two distinct
// Fingerprint values definitely differ, but collisions are possible and
// nothing in this module relies on their absence.
func Fingerprint(p plan.Plan) (uint64, error) {
	out, err := yaml.Marshal(Describe(p))
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(out), nil
}
