// Package ast contains the in-memory representation of a parsed, validated
// Soy file as consumed by the code generation backend.  The parser and type
// checker that produce it are external to this module.
package ast

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/gosoy/soyjs/soytype"
)

// Node represents any singular piece of a soy template.  For example, a
// sequence of raw text or a print tag.
type Node interface {
	String() string // String returns the soy source representation of this node.
	Position() Pos  // byte position of start of node in full original input string
}

// ParentNode is any Node that has descendent nodes.
type ParentNode interface {
	Node
	Children() []Node
}

// TypedNode is an expression node annotated with its resolved semantic type.
// Untyped nodes are treated as unknown.
type TypedNode interface {
	Node
	Type() soytype.Type
}

// Pos represents a byte position in the original input text from which this
// template was parsed.  It is useful to construct helpful error messages.
type Pos int

// Position returns this position.  It is implemented as a method so that Nodes
// may embed a Pos and fulfill this part of the Node interface for free.
func (p Pos) Position() Pos {
	return p
}

// Typ is embedded by expression nodes to carry their resolved type.
type Typ struct {
	T soytype.Type
}

// Type returns the resolved semantic type of this node.
func (t Typ) Type() soytype.Type {
	return t.T
}

// SoyFileNode represents a soy file.
type SoyFileNode struct {
	Name string
	Text string
	Body []Node
}

func (n SoyFileNode) Position() Pos {
	return 0
}

func (n SoyFileNode) Children() []Node {
	return n.Body
}

func (n SoyFileNode) String() string {
	var b bytes.Buffer
	for _, n := range n.Body {
		fmt.Fprint(&b, n)
	}
	return b.String()
}

// ListNode holds a sequence of nodes.
type ListNode struct {
	Pos
	Nodes []Node // The element nodes in lexical order.
}

func (l *ListNode) String() string {
	b := new(bytes.Buffer)
	for _, n := range l.Nodes {
		fmt.Fprint(b, n)
	}
	return b.String()
}

func (l *ListNode) Children() []Node {
	return l.Nodes
}

type RawTextNode struct {
	Pos
	Text []byte // The text; may span newlines.
}

func (t *RawTextNode) String() string {
	return string(t.Text)
}

// NamespaceNode registers the namespace of the soy file.
type NamespaceNode struct {
	Pos
	Name       string
	Autoescape string
}

func (c *NamespaceNode) String() string {
	return "{namespace " + c.Name + attrs("autoescape", c.Autoescape) + "}"
}

// ParamNode declares a template parameter with its resolved type.
type ParamNode struct {
	Pos
	Name     string // without the leading $
	Optional bool
	T        soytype.Type
}

func (n *ParamNode) String() string {
	var expr = "{@param"
	if n.Optional {
		expr += "?"
	}
	return expr + " " + n.Name + ": " + n.T.String() + "}"
}

// TemplateNode holds a template body.
type TemplateNode struct {
	Pos
	Name       string // fully qualified, e.g. "test.sayHello"
	Params     []*ParamNode
	Body       *ListNode
	Autoescape string
	Kind       string // content kind, e.g. "html"; empty means string
}

func (n *TemplateNode) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "{template %s%s}\n", n.Name, attrs("autoescape", n.Autoescape, "kind", n.Kind))
	for _, p := range n.Params {
		fmt.Fprintln(&b, p)
	}
	fmt.Fprintf(&b, "%s\n{/template}\n", n.Body)
	return b.String()
}

func (n *TemplateNode) Children() []Node {
	return []Node{n.Body}
}

func attrs(args ...string) string {
	var r string
	for i := 0; i < len(args)-1; i += 2 {
		if args[i+1] != "" {
			r += " " + args[i] + "=" + strconv.Quote(args[i+1])
		}
	}
	return r
}

type PrintNode struct {
	Pos
	Arg        Node
	Directives []*PrintDirectiveNode
}

func (n *PrintNode) String() string {
	var expr = "{" + n.Arg.String()
	for _, d := range n.Directives {
		expr += d.String()
	}
	return expr + "}"
}

func (n *PrintNode) Children() []Node {
	var nodes = []Node{n.Arg}
	for _, child := range n.Directives {
		nodes = append(nodes, child)
	}
	return nodes
}

type PrintDirectiveNode struct {
	Pos
	Name string
	Args []Node
}

func (n *PrintDirectiveNode) String() string {
	if len(n.Args) == 0 {
		return "|" + n.Name
	}
	var expr = "|" + n.Name + ":"
	for i, arg := range n.Args {
		if i > 0 {
			expr += ","
		}
		expr += arg.String()
	}
	return expr
}

func (n *PrintDirectiveNode) Children() []Node {
	return n.Args
}

type LogNode struct {
	Pos
	Body Node
}

func (n *LogNode) String() string {
	return "{log}" + n.Body.String() + "{/log}"
}

func (n *LogNode) Children() []Node {
	return []Node{n.Body}
}

type DebuggerNode struct {
	Pos
}

func (n *DebuggerNode) String() string {
	return "{debugger}"
}

type LetValueNode struct {
	Pos
	Name string
	Expr Node
}

func (n *LetValueNode) String() string {
	return fmt.Sprintf("{let $%s: %s /}", n.Name, n.Expr)
}

func (n *LetValueNode) Children() []Node {
	return []Node{n.Expr}
}

type LetContentNode struct {
	Pos
	Name string
	Kind string
	Body Node
}

func (n *LetContentNode) String() string {
	return fmt.Sprintf("{let $%s%s}%s{/let}", n.Name, attrs("kind", n.Kind), n.Body)
}

func (n *LetContentNode) Children() []Node {
	return []Node{n.Body}
}

// Messages ----------

// MsgNode is a translatable message.  Body may contain RawTextNodes,
// MsgPlaceholderNodes, and at most one MsgPluralNode or MsgSelectNode.
type MsgNode struct {
	Pos
	ID      uint64 // content-based id, set by soymsg.SetPlaceholdersAndID
	Meaning string
	Desc    string
	Body    []Node
}

func (n *MsgNode) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "{msg%s desc=%q}", attrs("meaning", n.Meaning), n.Desc)
	for _, child := range n.Body {
		fmt.Fprint(&b, child)
	}
	b.WriteString("{/msg}")
	return b.String()
}

func (n *MsgNode) Children() []Node {
	return n.Body
}

// PlaceholderString returns a string representation of the message containing
// braced placeholders for variables, e.g. "Hello {NAME}".
func (n *MsgNode) PlaceholderString() string {
	var buf bytes.Buffer
	writePlaceholderString(&buf, n.Body)
	return buf.String()
}

func writePlaceholderString(buf *bytes.Buffer, parts []Node) {
	for _, part := range parts {
		switch part := part.(type) {
		case *RawTextNode:
			buf.Write(part.Text)
		case *MsgPlaceholderNode:
			buf.WriteString("{" + part.Name + "}")
		case *MsgPluralNode:
			fmt.Fprintf(buf, "{%s,plural", part.Name)
			if part.Offset != 0 {
				fmt.Fprintf(buf, ",offset:%d", part.Offset)
			}
			buf.WriteString(",")
			for _, c := range part.Cases {
				fmt.Fprintf(buf, "=%d{", c.Value)
				writePlaceholderString(buf, c.Body)
				buf.WriteString("}")
			}
			buf.WriteString("other{")
			writePlaceholderString(buf, part.Default)
			buf.WriteString("}}")
		case *MsgSelectNode:
			fmt.Fprintf(buf, "{%s,select,", part.Name)
			for _, c := range part.Cases {
				fmt.Fprintf(buf, "%s{", c.Value)
				writePlaceholderString(buf, c.Body)
				buf.WriteString("}")
			}
			buf.WriteString("other{")
			writePlaceholderString(buf, part.Default)
			buf.WriteString("}}")
		}
	}
}

// MsgDefNode is the definition of a message variable, produced by the message
// extraction pass and hoisted to the earliest point where all of the
// message's placeholder dependencies are in scope.
type MsgDefNode struct {
	Pos
	Var string // generated variable name, e.g. MSG_EXTERNAL_123
	Msg *MsgNode
}

func (n *MsgDefNode) String() string {
	return fmt.Sprintf("{msgdef %s}%s", n.Var, n.Msg)
}

func (n *MsgDefNode) Children() []Node {
	return []Node{n.Msg}
}

// MsgRefNode renders a previously defined message variable at the message's
// original position.
type MsgRefNode struct {
	Pos
	Var string
	Def *MsgDefNode
}

func (n *MsgRefNode) String() string {
	return "{msgref " + n.Var + "}"
}

// MsgPlaceholderNode is a placeholder for dynamic content within a message.
// Name is assigned during message extraction.
type MsgPlaceholderNode struct {
	Pos
	Name string
	Body Node // a PrintNode or arbitrary content standing in for the slot
}

func (n *MsgPlaceholderNode) String() string {
	return n.Body.String()
}

func (n *MsgPlaceholderNode) Children() []Node {
	return []Node{n.Body}
}

// MsgPluralNode is a message part with multiple forms keyed on a number.
type MsgPluralNode struct {
	Pos
	VarName string // source name of the plural variable, for diagnostics
	Name    string // canonical selector name, assigned during extraction
	Value   Node   // the expression the plural is keyed on
	Offset  int
	Cases   []*MsgPluralCaseNode
	Default []Node // the "other" case
}

func (n *MsgPluralNode) String() string {
	return fmt.Sprintf("{plural $%s offset=%d}...{/plural}", n.VarName, n.Offset)
}

func (n *MsgPluralNode) Children() []Node {
	var nodes = []Node{n.Value}
	for _, c := range n.Cases {
		nodes = append(nodes, c.Body...)
	}
	nodes = append(nodes, n.Default...)
	return nodes
}

type MsgPluralCaseNode struct {
	Pos
	Value int
	Body  []Node
}

func (n *MsgPluralCaseNode) String() string {
	return fmt.Sprintf("{case %d}", n.Value)
}

// MsgSelectNode is a message part with multiple forms keyed on a string.
type MsgSelectNode struct {
	Pos
	VarName string
	Name    string // canonical selector name, assigned during extraction
	Value   Node
	Cases   []*MsgSelectCaseNode
	Default []Node
}

func (n *MsgSelectNode) String() string {
	return fmt.Sprintf("{select $%s}...{/select}", n.VarName)
}

func (n *MsgSelectNode) Children() []Node {
	var nodes = []Node{n.Value}
	for _, c := range n.Cases {
		nodes = append(nodes, c.Body...)
	}
	nodes = append(nodes, n.Default...)
	return nodes
}

type MsgSelectCaseNode struct {
	Pos
	Value string
	Body  []Node
}

func (n *MsgSelectCaseNode) String() string {
	return fmt.Sprintf("{case %q}", n.Value)
}

// Calls ----------

type CallNode struct {
	Pos
	Name    string
	AllData bool
	Data    Node
	Params  []Node
	Kind    string // content kind of the callee, e.g. "html"
}

func (n *CallNode) String() string {
	var expr = fmt.Sprintf("{call %s", n.Name)
	if n.AllData {
		expr += ` data="all"`
	} else if n.Data != nil {
		expr += fmt.Sprintf(` data="%s"`, n.Data.String())
	}
	if n.Params == nil {
		return expr + "/}"
	}
	expr += "}"
	for _, param := range n.Params {
		expr += param.String()
	}
	return expr + "{/call}"
}

func (n *CallNode) Children() []Node {
	var nodes []Node
	if n.Data != nil {
		nodes = append(nodes, n.Data)
	}
	for _, child := range n.Params {
		nodes = append(nodes, child)
	}
	return nodes
}

type CallParamValueNode struct {
	Pos
	Key   string
	Value Node
}

func (n *CallParamValueNode) String() string {
	return fmt.Sprintf("{param %s: %s/}", n.Key, n.Value.String())
}

func (n *CallParamValueNode) Children() []Node {
	return []Node{n.Value}
}

type CallParamContentNode struct {
	Pos
	Key     string
	Kind    string
	Content Node
}

func (n *CallParamContentNode) String() string {
	return fmt.Sprintf("{param %s%s}%s{/param}", n.Key, attrs("kind", n.Kind), n.Content.String())
}

func (n *CallParamContentNode) Children() []Node {
	return []Node{n.Content}
}

// Control flow ----------

type IfNode struct {
	Pos
	Conds []*IfCondNode
}

func (n *IfNode) String() string {
	var expr string
	for i, cond := range n.Conds {
		if i == 0 {
			expr += "{if "
		} else if cond.Cond == nil {
			expr += "{else}"
		} else {
			expr += "{elseif "
		}
		expr += cond.String()
	}
	return expr + "{/if}"
}

func (n *IfNode) Children() []Node {
	var nodes []Node
	for _, child := range n.Conds {
		nodes = append(nodes, child)
	}
	return nodes
}

type IfCondNode struct {
	Pos
	Cond Node // nil if "else"
	Body Node
}

func (n *IfCondNode) String() string {
	var expr string
	if n.Cond != nil {
		expr = n.Cond.String() + "}"
	}
	return expr + n.Body.String()
}

func (n *IfCondNode) Children() []Node {
	if n.Cond == nil {
		return []Node{n.Body}
	}
	return []Node{n.Cond, n.Body}
}

type SwitchNode struct {
	Pos
	Value Node
	Cases []*SwitchCaseNode
}

func (n *SwitchNode) String() string {
	var expr = "{switch " + n.Value.String() + "}"
	for _, caseNode := range n.Cases {
		expr += caseNode.String()
	}
	return expr + "{/switch}"
}

func (n *SwitchNode) Children() []Node {
	var nodes = []Node{n.Value}
	for _, child := range n.Cases {
		nodes = append(nodes, child)
	}
	return nodes
}

type SwitchCaseNode struct {
	Pos
	Values []Node // len(Values) == 0 => default case
	Body   Node
}

func (n *SwitchCaseNode) String() string {
	if len(n.Values) == 0 {
		return "{default}" + n.Body.String()
	}
	var expr = "{case "
	for i, val := range n.Values {
		if i > 0 {
			expr += ","
		}
		expr += val.String()
	}
	return expr + "}" + n.Body.String()
}

func (n *SwitchCaseNode) Children() []Node {
	var nodes = []Node{n.Body}
	for _, child := range n.Values {
		nodes = append(nodes, child)
	}
	return nodes
}

// ForNode represents both {for} (List is a range() call) and {foreach}
// (List is a data reference).
type ForNode struct {
	Pos
	Var     string // without the leading $
	List    Node
	Body    Node
	IfEmpty Node
}

func (n *ForNode) String() string {
	var _, isForeach = n.List.(*DataRefNode)
	var name = "for"
	if isForeach {
		name = "foreach"
	}

	var expr = "{" + name + " "
	expr += "$" + n.Var + " in " + n.List.String() + "}" + n.Body.String()
	if n.IfEmpty != nil {
		expr += "{ifempty}" + n.IfEmpty.String()
	}
	return expr + "{/" + name + "}"
}

func (n *ForNode) Children() []Node {
	var children = make([]Node, 2, 3)
	children[0] = n.List
	children[1] = n.Body
	if n.IfEmpty != nil {
		children = append(children, n.IfEmpty)
	}
	return children
}

// Values ----------

type NullNode struct {
	Pos
}

func (s *NullNode) String() string {
	return "null"
}

func (s *NullNode) Type() soytype.Type {
	return soytype.Of(soytype.Null)
}

type BoolNode struct {
	Pos
	True bool
}

func (b *BoolNode) String() string {
	if b.True {
		return "true"
	}
	return "false"
}

func (b *BoolNode) Type() soytype.Type {
	return soytype.Of(soytype.Bool)
}

type IntNode struct {
	Pos
	Value int64
}

func (n *IntNode) String() string {
	return strconv.FormatInt(n.Value, 10)
}

func (n *IntNode) Type() soytype.Type {
	return soytype.Of(soytype.Int)
}

type FloatNode struct {
	Pos
	Value float64
}

func (n *FloatNode) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *FloatNode) Type() soytype.Type {
	return soytype.Of(soytype.Float)
}

type StringNode struct {
	Pos
	Value string
}

func (s *StringNode) String() string {
	return "'" + s.Value + "'"
}

func (s *StringNode) Type() soytype.Type {
	return soytype.Of(soytype.String)
}

// GlobalNode is a reference to a compile-time global.  The resolver pass binds
// Value to the literal it resolves to; an unbound global is a compile error at
// code generation time.
type GlobalNode struct {
	Pos
	Name  string
	Value Node // a literal node, or nil if unresolved
}

func (n *GlobalNode) String() string {
	return n.Name
}

type FunctionNode struct {
	Pos
	Typ
	Name string
	Args []Node
}

func (n *FunctionNode) String() string {
	var expr = n.Name + "("
	for i, arg := range n.Args {
		if i > 0 {
			expr += ","
		}
		expr += arg.String()
	}
	return expr + ")"
}

func (n *FunctionNode) Children() []Node {
	return n.Args
}

type ListLiteralNode struct {
	Pos
	Items []Node
}

func (n *ListLiteralNode) String() string {
	var expr = "["
	for i, item := range n.Items {
		if i > 0 {
			expr += ", "
		}
		expr += item.String()
	}
	return expr + "]"
}

func (n *ListLiteralNode) Children() []Node {
	return n.Items
}

// MapLiteralNode is a map or record literal.  Keys and Values are parallel
// slices in source order; source order is preserved through code generation.
type MapLiteralNode struct {
	Pos
	Keys   []string
	Values []Node
}

func (n *MapLiteralNode) String() string {
	if len(n.Keys) == 0 {
		return "[:]"
	}
	var expr = "["
	for i, k := range n.Keys {
		if i > 0 {
			expr += ", "
		}
		expr += fmt.Sprintf("'%s': %s", k, n.Values[i].String())
	}
	return expr + "]"
}

func (n *MapLiteralNode) Children() []Node {
	return n.Values
}

// Data References ----------

// DataRefNode is a reference to a template parameter, local, or injected
// value, followed by a chain of access steps.
type DataRefNode struct {
	Pos
	Typ
	Key    string
	Access []Node
}

func (n *DataRefNode) String() string {
	var expr = "$" + n.Key
	for _, access := range n.Access {
		expr += access.String()
	}
	return expr
}

func (n *DataRefNode) Children() []Node {
	return n.Access
}

type DataRefIndexNode struct {
	Pos
	NullSafe bool
	Index    int
}

func (n *DataRefIndexNode) String() string {
	var expr = "."
	if n.NullSafe {
		expr = "?" + expr
	}
	return expr + strconv.Itoa(n.Index)
}

type DataRefExprNode struct {
	Pos
	NullSafe bool
	Arg      Node
}

func (n *DataRefExprNode) String() string {
	var expr = "["
	if n.NullSafe {
		expr = "?" + expr
	}
	return expr + n.Arg.String() + "]"
}

func (n *DataRefExprNode) Children() []Node {
	return []Node{n.Arg}
}

type DataRefKeyNode struct {
	Pos
	NullSafe bool
	Key      string
}

func (n *DataRefKeyNode) String() string {
	var expr = "."
	if n.NullSafe {
		expr = "?" + expr
	}
	return expr + n.Key
}

// DataRefCallNode is a method call access step, e.g. $map?.get(key).
type DataRefCallNode struct {
	Pos
	NullSafe bool
	Name     string
	Args     []Node
}

func (n *DataRefCallNode) String() string {
	var expr = "."
	if n.NullSafe {
		expr = "?" + expr
	}
	expr += n.Name + "("
	for i, arg := range n.Args {
		if i > 0 {
			expr += ","
		}
		expr += arg.String()
	}
	return expr + ")"
}

func (n *DataRefCallNode) Children() []Node {
	return n.Args
}

// Operators ----------

type NotNode struct {
	Pos
	Arg Node
}

func (n *NotNode) String() string {
	return "not " + n.Arg.String()
}

func (n *NotNode) Children() []Node {
	return []Node{n.Arg}
}

type NegateNode struct {
	Pos
	Arg Node
}

func (n *NegateNode) String() string {
	return "-" + n.Arg.String()
}

func (n *NegateNode) Children() []Node {
	return []Node{n.Arg}
}

type BinaryOpNode struct {
	Name string
	Pos
	Arg1, Arg2 Node
}

func (n *BinaryOpNode) String() string {
	return n.Arg1.String() + " " + n.Name + " " + n.Arg2.String()
}

func (n *BinaryOpNode) Children() []Node {
	return []Node{n.Arg1, n.Arg2}
}

type (
	MulNode   struct{ BinaryOpNode }
	DivNode   struct{ BinaryOpNode }
	ModNode   struct{ BinaryOpNode }
	AddNode   struct{ BinaryOpNode }
	SubNode   struct{ BinaryOpNode }
	EqNode    struct{ BinaryOpNode }
	NotEqNode struct{ BinaryOpNode }
	GtNode    struct{ BinaryOpNode }
	GteNode   struct{ BinaryOpNode }
	LtNode    struct{ BinaryOpNode }
	LteNode   struct{ BinaryOpNode }
	OrNode    struct{ BinaryOpNode }
	AndNode   struct{ BinaryOpNode }
	ElvisNode struct{ BinaryOpNode }
)

type TernNode struct {
	Pos
	Arg1, Arg2, Arg3 Node
}

func (n *TernNode) String() string {
	return n.Arg1.String() + "?" + n.Arg2.String() + ":" + n.Arg3.String()
}

func (n *TernNode) Children() []Node {
	return []Node{n.Arg1, n.Arg2, n.Arg3}
}
