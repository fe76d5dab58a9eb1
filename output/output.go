// Package output implements the output model (component H): the four
// output shapes (flag, basic, detailed, verbose) described in spec.md §4.8
// and their JSON serialization per the JSON Schema 2020-12 output spec
// (§6 "Output JSON shape").
package output

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Structure selects which of the four output shapes an evaluation produces.
type Structure int

const (
	// Flag reports only top-level validity.
	Flag Structure = iota
	// Basic reports a flat list of annotation/error nodes.
	Basic
	// Detailed reports a hierarchy with redundant successful nodes pruned.
	Detailed
	// Verbose reports the full hierarchy, every node retained.
	Verbose
)

// String implements fmt.Stringer.
func (s Structure) String() string {
	switch s {
	case Flag:
		return "flag"
	case Basic:
		return "basic"
	case Detailed:
		return "detailed"
	case Verbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// ParseStructure maps a name ("flag", "basic", "detailed", "verbose") to a
// Structure, defaulting to Basic for an unrecognized name.
func ParseStructure(name string) Structure {
	switch name {
	case "flag":
		return Flag
	case "detailed":
		return Detailed
	case "verbose":
		return Verbose
	default:
		return Basic
	}
}

// Node is an output tree node (§3 "Output node"): an instance location, a
// keyword location, an optional absolute keyword location, a valid/invalid
// flag, an error description or annotation value, and children.
//
// A Node marked Transient is a container emitted during evaluation whose
// children should splice into the parent's Children on Append, rather than
// the node itself appearing in the final tree (§3 glossary, §4.8).
type Node struct {
	InstanceLocation        string
	KeywordLocation         string
	AbsoluteKeywordLocation string
	Valid                   bool
	Error                   string
	Annotation              any
	hasAnnotation           bool
	Children                []*Node
	Transient               bool
}

// NewAnnotation builds a valid leaf node carrying an annotation value.
func NewAnnotation(instanceLoc, keywordLoc, absKeywordLoc string, value any) *Node {
	return &Node{
		InstanceLocation:        instanceLoc,
		KeywordLocation:         keywordLoc,
		AbsoluteKeywordLocation: absKeywordLoc,
		Valid:                   true,
		Annotation:              value,
		hasAnnotation:           true,
	}
}

// NewError builds an invalid leaf node carrying an error message.
func NewError(instanceLoc, keywordLoc, absKeywordLoc, message string) *Node {
	return &Node{
		InstanceLocation:        instanceLoc,
		KeywordLocation:         keywordLoc,
		AbsoluteKeywordLocation: absKeywordLoc,
		Valid:                   false,
		Error:                   message,
	}
}

// NewContainer builds a node (valid by default) meant to hold children. Pass
// transient=true for a node whose children should be flattened into its
// parent rather than appearing itself (§4.7 step 3, "transient").
func NewContainer(instanceLoc, keywordLoc, absKeywordLoc string, transient bool) *Node {
	return &Node{
		InstanceLocation:        instanceLoc,
		KeywordLocation:         keywordLoc,
		AbsoluteKeywordLocation: absKeywordLoc,
		Valid:                   true,
		Transient:               transient,
	}
}

// Append adds child to n. If child is Transient, its own children are
// spliced into n.Children instead of child itself, and its validity is
// folded into n's (any invalid transient child invalidates n).
func (n *Node) Append(child *Node) {
	if child == nil {
		return
	}
	if child.Transient {
		if !child.Valid {
			n.Valid = false
		}
		n.Children = append(n.Children, child.Children...)
		return
	}
	if !child.Valid {
		n.Valid = false
	}
	n.Children = append(n.Children, child)
}

// Invalidate marks n invalid, e.g. when a keyword fails directly rather
// than via a child.
func (n *Node) Invalidate() { n.Valid = false }

// Prune removes successful children recursively, implementing the
// "detailed" structure's redundant-node pruning (§4.7 step 4).
func (n *Node) Prune() {
	if n.Valid {
		n.Children = nil
		return
	}
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.Valid {
			continue
		}
		c.Prune()
		kept = append(kept, c)
	}
	n.Children = kept
}

// wireNode is the JSON Schema 2020-12 output-spec wire shape (§6).
type wireNode struct {
	Valid                   bool              `json:"valid"`
	KeywordLocation         string            `json:"keywordLocation"`
	AbsoluteKeywordLocation string            `json:"absoluteKeywordLocation,omitempty"`
	InstanceLocation        string            `json:"instanceLocation"`
	Errors                  []wireNode        `json:"errors,omitempty"`
	Annotations             []wireNode        `json:"annotations,omitempty"`
	Error                   string            `json:"error,omitempty"`
	AnnotationValue         json.RawValue     `json:"annotation,omitempty"`
	rawChildren             map[string]string `json:"-"`
}

// Collect renders n (already shaped per Structure) into the JSON wire
// value. Transient nodes never serialize (§6); by the time Collect runs,
// Build has already flattened them away.
func (n *Node) Collect() ([]byte, error) {
	return json.Marshal(n.toWire())
}

// CollectIndent renders n the same way Collect does, but pretty-printed with
// a two-space indent, for CLI/log output (cmd/interrogate's evaluate
// command).
func (n *Node) CollectIndent() ([]byte, error) {
	return json.Marshal(n.toWire(), jsontext.WithIndent("  "))
}

func (n *Node) toWire() wireNode {
	w := wireNode{
		Valid:                   n.Valid,
		KeywordLocation:         n.KeywordLocation,
		AbsoluteKeywordLocation: n.AbsoluteKeywordLocation,
		InstanceLocation:        n.InstanceLocation,
		Error:                   n.Error,
	}
	if n.hasAnnotation {
		if raw, err := json.Marshal(n.Annotation); err == nil {
			w.AnnotationValue = raw
		}
	}
	var errs, anns []wireNode
	for _, c := range n.Children {
		cw := c.toWire()
		if c.Valid {
			anns = append(anns, cw)
		} else {
			errs = append(errs, cw)
		}
	}
	if !n.Valid {
		w.Errors = errs
	} else {
		w.Annotations = anns
	}
	return w
}

// Build assembles the root Node of an evaluation into the shape dictated by
// structure (§4.7 step 4): flag drops children entirely, basic flattens the
// hierarchy, detailed prunes successful nodes, verbose keeps everything.
func Build(root *Node, structure Structure) *Node {
	switch structure {
	case Flag:
		return &Node{Valid: root.Valid}
	case Basic:
		flat := &Node{
			InstanceLocation: root.InstanceLocation,
			KeywordLocation:  root.KeywordLocation,
			Valid:            root.Valid,
		}
		flattenInto(flat, root, true)
		return flat
	case Detailed:
		cp := cloneTree(root)
		cp.Prune()
		return cp
	default: // Verbose
		return root
	}
}

func flattenInto(flat *Node, n *Node, isRoot bool) {
	if !isRoot {
		leaf := *n
		leaf.Children = nil
		flat.Children = append(flat.Children, &leaf)
	}
	for _, c := range n.Children {
		flattenInto(flat, c, false)
	}
}

func cloneTree(n *Node) *Node {
	cp := *n
	cp.Children = make([]*Node, len(n.Children))
	for i, c := range n.Children {
		cp.Children[i] = cloneTree(c)
	}
	return &cp
}

// Shape is the deserialized discriminant returned by Detect.
type Shape int

const (
	ShapeFlag Shape = iota
	ShapeBasic
	ShapeDetailed
	ShapeVerbose
)

// detectionNode mirrors wireNode loosely enough to sniff shape from
// arbitrary JSON without committing to strict field presence.
type detectionNode struct {
	Fmt         string           `json:"fmt,omitempty"`
	Valid       bool             `json:"valid"`
	Errors      []detectionNode  `json:"errors,omitempty"`
	Annotations []detectionNode  `json:"annotations,omitempty"`
}

// Detect inspects raw output JSON and determines its Structure per §4.8: an
// explicit "fmt" discriminant wins; otherwise a hierarchical tree mixing
// error and annotation branches is verbose, hierarchical without mixing is
// detailed, a flat list with nodes is basic, and no nodes at all is flag.
func Detect(data []byte) (Shape, error) {
	var n detectionNode
	if err := json.Unmarshal(data, &n); err != nil {
		return ShapeFlag, err
	}
	if n.Fmt != "" {
		switch n.Fmt {
		case "basic":
			return ShapeBasic, nil
		case "detailed":
			return ShapeDetailed, nil
		case "verbose":
			return ShapeVerbose, nil
		default:
			return ShapeFlag, nil
		}
	}
	if len(n.Errors) == 0 && len(n.Annotations) == 0 {
		return ShapeFlag, nil
	}
	if hasNestedNodes(n.Errors) || hasNestedNodes(n.Annotations) {
		if hasMixedBranches(n) {
			return ShapeVerbose, nil
		}
		return ShapeDetailed, nil
	}
	return ShapeBasic, nil
}

func hasNestedNodes(nodes []detectionNode) bool {
	for _, n := range nodes {
		if len(n.Errors) > 0 || len(n.Annotations) > 0 {
			return true
		}
	}
	return false
}

func hasMixedBranches(n detectionNode) bool {
	for _, c := range append(append([]detectionNode{}, n.Errors...), n.Annotations...) {
		if len(c.Errors) > 0 && len(c.Annotations) > 0 {
			return true
		}
		if hasMixedBranches(c) {
			return true
		}
	}
	return false
}
