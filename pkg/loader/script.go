package loader

import (
	"context"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/twconfig/pkg/domain"
	"github.com/specvital/twconfig/pkg/loader/tspool"
)

// DefaultThemeModule is the module whose bindings become default-theme references.
const DefaultThemeModule = "tailwindcss/defaultTheme"

const maxEvalDepth = 256

const moduleExportsQuery = `(assignment_expression
  left: (member_expression
    object: (identifier) @object
    property: (property_identifier) @property)
  right: (_) @value)`

// scriptEval turns the exported object literal of a JS/TS config into a Value.
// It never executes code: unknown expressions are kept as opaque source text.
type scriptEval struct {
	source []byte
	format domain.Format

	// bindings maps top-level const/let/var names to their initializer.
	bindings map[string]*sitter.Node
	// themeRefs maps names bound to the default theme (or a part of it) to the path they point at.
	themeRefs map[string][]string
	// modules maps names bound to other required or imported modules.
	modules map[string]string

	resolving map[string]bool
}

func parseScript(ctx context.Context, format domain.Format, source []byte) (*domain.Value, error) {
	tree, err := tspool.Parse(ctx, format, source)
	if err != nil {
		return nil, &domain.ConfigShapeError{Msg: "cannot parse config source", Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if bad := findFirstError(root); bad != nil {
		pos := bad.StartPoint()
		return nil, domain.NewShapeError("", "syntax error at line %d, column %d", pos.Row+1, pos.Column+1)
	}

	ev := &scriptEval{
		source:    source,
		format:    format,
		bindings:  make(map[string]*sitter.Node),
		themeRefs: make(map[string][]string),
		modules:   make(map[string]string),
		resolving: make(map[string]bool),
	}
	ev.collectBindings(root)

	exported, err := ev.findExport(root)
	if err != nil {
		return nil, err
	}
	return ev.eval(ev.unwrapExport(exported), "", 0)
}

func (ev *scriptEval) text(n *sitter.Node) string {
	return getNodeText(n, ev.source)
}

func (ev *scriptEval) collectBindings(root *sitter.Node) {
	for _, stmt := range namedChildren(root) {
		switch stmt.Type() {
		case "lexical_declaration", "variable_declaration":
			ev.collectDeclarators(stmt)
		case "import_statement":
			ev.collectImport(stmt)
		case "export_statement":
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				switch decl.Type() {
				case "lexical_declaration", "variable_declaration":
					ev.collectDeclarators(decl)
				}
			}
		}
	}
}

func (ev *scriptEval) collectDeclarators(decl *sitter.Node) {
	for _, d := range namedChildren(decl) {
		if d.Type() != "variable_declarator" {
			continue
		}
		name := d.ChildByFieldName("name")
		value := d.ChildByFieldName("value")
		if name == nil || value == nil {
			continue
		}

		module := ev.requireModule(value)
		switch name.Type() {
		case "identifier":
			switch {
			case isDefaultTheme(module):
				ev.themeRefs[ev.text(name)] = nil
			case module != "":
				ev.modules[ev.text(name)] = module
			default:
				ev.bindings[ev.text(name)] = value
			}
		case "object_pattern":
			if isDefaultTheme(module) {
				ev.collectThemePattern(name)
			}
		}
	}
}

// collectThemePattern handles const { fontFamily, screens: bp } = require('tailwindcss/defaultTheme').
func (ev *scriptEval) collectThemePattern(pattern *sitter.Node) {
	for _, p := range namedChildren(pattern) {
		switch p.Type() {
		case "shorthand_property_identifier_pattern":
			name := ev.text(p)
			ev.themeRefs[name] = []string{name}
		case "pair_pattern":
			key := p.ChildByFieldName("key")
			value := p.ChildByFieldName("value")
			if key != nil && value != nil && value.Type() == "identifier" {
				ev.themeRefs[ev.text(value)] = []string{ev.propertyName(key)}
			}
		}
	}
}

func (ev *scriptEval) collectImport(stmt *sitter.Node) {
	src := stmt.ChildByFieldName("source")
	if src == nil {
		return
	}
	module := ev.stringValue(src)

	for _, child := range namedChildren(stmt) {
		if child.Type() != "import_clause" {
			continue
		}
		for _, part := range namedChildren(child) {
			switch part.Type() {
			case "identifier":
				ev.bindImport(ev.text(part), module, nil)
			case "namespace_import":
				for _, id := range namedChildren(part) {
					if id.Type() == "identifier" {
						ev.bindImport(ev.text(id), module, nil)
					}
				}
			case "named_imports":
				for _, spec := range namedChildren(part) {
					if spec.Type() != "import_specifier" {
						continue
					}
					name := spec.ChildByFieldName("name")
					if name == nil {
						continue
					}
					local := name
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = alias
					}
					ev.bindImport(ev.text(local), module, []string{ev.text(name)})
				}
			}
		}
	}
}

func (ev *scriptEval) bindImport(local, module string, themePath []string) {
	if isDefaultTheme(module) {
		ev.themeRefs[local] = themePath
		return
	}
	ev.modules[local] = module
}

func isDefaultTheme(module string) bool {
	return strings.TrimSuffix(module, ".js") == DefaultThemeModule
}

// requireModule returns the module of a require('x') call, or "".
func (ev *scriptEval) requireModule(n *sitter.Node) string {
	if n == nil || n.Type() != "call_expression" {
		return ""
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || ev.text(fn) != "require" {
		return ""
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	named := namedChildren(args)
	if len(named) != 1 || named[0].Type() != "string" {
		return ""
	}
	return ev.stringValue(named[0])
}

// findExport locates module.exports = … or export default ….
func (ev *scriptEval) findExport(root *sitter.Node) (*sitter.Node, error) {
	results, err := tspool.QueryWithCache(root, ev.format, moduleExportsQuery)
	if err != nil {
		return nil, &domain.ConfigShapeError{Msg: "cannot inspect config source", Err: err}
	}

	var exported *sitter.Node
	for _, r := range results {
		if ev.text(r.Captures["object"]) == "module" && ev.text(r.Captures["property"]) == "exports" {
			exported = r.Captures["value"]
		}
	}
	if exported != nil {
		return exported, nil
	}

	for _, stmt := range namedChildren(root) {
		if stmt.Type() != "export_statement" || !hasChildType(stmt, "default") {
			continue
		}
		if value := stmt.ChildByFieldName("value"); value != nil {
			exported = value
		} else if decl := stmt.ChildByFieldName("declaration"); decl != nil {
			exported = decl
		}
	}
	if exported == nil {
		return nil, domain.NewShapeError("", "no exported configuration (expected module.exports = {…} or export default {…})")
	}
	return exported, nil
}

func hasChildType(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == typ {
			return true
		}
	}
	return false
}

// unwrapExport peels wrappers around the exported object: parentheses, TS
// satisfies/as casts and helper calls such as defineConfig({…}).
func (ev *scriptEval) unwrapExport(n *sitter.Node) *sitter.Node {
	for depth := 0; n != nil && depth < maxEvalDepth; depth++ {
		switch n.Type() {
		case "parenthesized_expression", "satisfies_expression", "as_expression", "non_null_expression":
			children := namedChildren(n)
			if len(children) == 0 {
				return n
			}
			n = children[0]
		case "call_expression":
			if ev.requireModule(n) != "" {
				return n
			}
			args := n.ChildByFieldName("arguments")
			if args == nil {
				return n
			}
			named := namedChildren(args)
			if len(named) == 0 {
				return n
			}
			n = named[0]
		case "identifier":
			name := ev.text(n)
			bound, ok := ev.bindings[name]
			if !ok || ev.resolving[name] {
				return n
			}
			n = bound
		default:
			return n
		}
	}
	return n
}

func (ev *scriptEval) eval(n *sitter.Node, path string, depth int) (*domain.Value, error) {
	if depth > maxEvalDepth {
		return nil, domain.NewShapeError(path, "nesting exceeds %d levels", maxEvalDepth)
	}

	switch n.Type() {
	case "object":
		return ev.evalObject(n, path, depth)
	case "array":
		return ev.evalArray(n, path, depth)
	case "string":
		return domain.String(ev.stringValue(n)), nil
	case "template_string":
		if hasChildType(n, "template_substitution") {
			return domain.Opaque(ev.text(n)), nil
		}
		raw := ev.text(n)
		return domain.String(strings.TrimSuffix(strings.TrimPrefix(raw, "`"), "`")), nil
	case "number":
		return domain.Number(ev.text(n)), nil
	case "unary_expression":
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		if op != nil && arg != nil && arg.Type() == "number" && (ev.text(op) == "-" || ev.text(op) == "+") {
			return domain.Number(strings.TrimPrefix(ev.text(op), "+") + ev.text(arg)), nil
		}
		return domain.Opaque(ev.text(n)), nil
	case "true":
		return domain.Bool(true), nil
	case "false":
		return domain.Bool(false), nil
	case "null", "undefined":
		return domain.Null(), nil
	case "identifier":
		return ev.evalIdentifier(ev.text(n), path, depth)
	case "member_expression", "subscript_expression":
		return ev.evalMember(n, path, depth)
	case "parenthesized_expression", "satisfies_expression", "as_expression", "non_null_expression":
		children := namedChildren(n)
		if len(children) == 0 {
			return domain.Opaque(ev.text(n)), nil
		}
		return ev.eval(children[0], path, depth+1)
	case "call_expression":
		return ev.evalCall(n), nil
	default:
		return domain.Opaque(ev.text(n)), nil
	}
}

func (ev *scriptEval) evalObject(n *sitter.Node, path string, depth int) (*domain.Value, error) {
	m := domain.Map()
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "pair":
			keyNode := child.ChildByFieldName("key")
			valueNode := child.ChildByFieldName("value")
			if keyNode == nil || valueNode == nil {
				continue
			}
			if keyNode.Type() == "computed_property_name" {
				return nil, domain.NewShapeError(path, "computed key %s is not supported", ev.text(keyNode))
			}
			key := ev.propertyName(keyNode)
			v, err := ev.eval(valueNode, domain.JoinPath(path, key), depth+1)
			if err != nil {
				return nil, err
			}
			m.Fields = append(m.Fields, domain.F(key, v))

		case "shorthand_property_identifier":
			key := ev.text(child)
			v, err := ev.evalIdentifier(key, domain.JoinPath(path, key), depth+1)
			if err != nil {
				return nil, err
			}
			m.Fields = append(m.Fields, domain.F(key, v))

		case "spread_element":
			v, err := ev.evalSpread(child, path, depth)
			if err != nil {
				return nil, err
			}
			if v.Kind == domain.ValueMap {
				m.Fields = append(m.Fields, v.Fields...)
				continue
			}
			m.Fields = append(m.Fields, domain.Field{Spread: true, Value: v})

		case "method_definition":
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			m.Fields = append(m.Fields, domain.F(ev.propertyName(name), domain.Opaque(ev.text(child))))
		}
	}
	return m, nil
}

func (ev *scriptEval) evalArray(n *sitter.Node, path string, depth int) (*domain.Value, error) {
	list := domain.List()
	for _, child := range namedChildren(n) {
		if child.Type() == "spread_element" {
			v, err := ev.evalSpread(child, domain.IndexPath(path, len(list.Items)), depth)
			if err != nil {
				return nil, err
			}
			if v.Kind == domain.ValueList {
				list.Items = append(list.Items, v.Items...)
				continue
			}
			v.Spread = true
			list.Items = append(list.Items, v)
			continue
		}

		v, err := ev.eval(child, domain.IndexPath(path, len(list.Items)), depth+1)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, v)
	}
	return list, nil
}

func (ev *scriptEval) evalSpread(n *sitter.Node, path string, depth int) (*domain.Value, error) {
	children := namedChildren(n)
	if len(children) == 0 {
		return domain.Opaque(ev.text(n)), nil
	}
	return ev.eval(children[0], path, depth+1)
}

func (ev *scriptEval) evalIdentifier(name, path string, depth int) (*domain.Value, error) {
	if name == "undefined" {
		return domain.Null(), nil
	}
	if ref, ok := ev.themeRefs[name]; ok {
		return domain.Ref(ref...), nil
	}
	if module, ok := ev.modules[name]; ok {
		v := domain.Opaque(name)
		v.Module = module
		return v, nil
	}
	if bound, ok := ev.bindings[name]; ok && !ev.resolving[name] {
		ev.resolving[name] = true
		defer delete(ev.resolving, name)
		return ev.eval(bound, path, depth+1)
	}
	return domain.Opaque(name), nil
}

// evalMember turns defaultTheme.a.b chains into references and walks into
// local object bindings. Anything else stays opaque.
func (ev *scriptEval) evalMember(n *sitter.Node, path string, depth int) (*domain.Value, error) {
	var props []string
	cur := n
	for cur != nil {
		switch cur.Type() {
		case "member_expression":
			prop := cur.ChildByFieldName("property")
			if prop == nil {
				return domain.Opaque(ev.text(n)), nil
			}
			props = append([]string{ev.text(prop)}, props...)
			cur = cur.ChildByFieldName("object")
			continue
		case "subscript_expression":
			index := cur.ChildByFieldName("index")
			if index == nil {
				return domain.Opaque(ev.text(n)), nil
			}
			switch index.Type() {
			case "string":
				props = append([]string{ev.stringValue(index)}, props...)
			case "number":
				props = append([]string{ev.text(index)}, props...)
			default:
				return domain.Opaque(ev.text(n)), nil
			}
			cur = cur.ChildByFieldName("object")
			continue
		}
		break
	}
	if cur == nil {
		return domain.Opaque(ev.text(n)), nil
	}

	if isDefaultTheme(ev.requireModule(cur)) {
		return domain.Ref(props...), nil
	}
	if cur.Type() != "identifier" {
		return domain.Opaque(ev.text(n)), nil
	}

	name := ev.text(cur)
	if ref, ok := ev.themeRefs[name]; ok {
		full := append(append([]string{}, ref...), props...)
		return domain.Ref(full...), nil
	}
	if _, ok := ev.bindings[name]; ok {
		base, err := ev.evalIdentifier(name, path, depth+1)
		if err != nil {
			return nil, err
		}
		for _, p := range props {
			next, ok := base.Get(p)
			if !ok {
				return domain.Opaque(ev.text(n)), nil
			}
			base = next
		}
		return base, nil
	}
	return domain.Opaque(ev.text(n)), nil
}

// evalCall keeps calls opaque, recording the module for require('x'),
// require('x')(opts) and calls of imported bindings.
func (ev *scriptEval) evalCall(n *sitter.Node) *domain.Value {
	v := domain.Opaque(ev.text(n))
	if module := ev.requireModule(n); module != "" {
		v.Module = module
		return v
	}
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return v
	}
	if module := ev.requireModule(fn); module != "" {
		v.Module = module
		return v
	}
	if fn.Type() == "identifier" {
		v.Module = ev.modules[ev.text(fn)]
	}
	return v
}

func (ev *scriptEval) propertyName(n *sitter.Node) string {
	switch n.Type() {
	case "string":
		return ev.stringValue(n)
	default:
		return ev.text(n)
	}
}

// stringValue decodes a string literal node.
func (ev *scriptEval) stringValue(n *sitter.Node) string {
	var b strings.Builder
	parts := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "string_fragment":
			b.WriteString(ev.text(child))
			parts++
		case "escape_sequence":
			b.WriteString(decodeEscape(ev.text(child)))
			parts++
		}
	}
	if parts > 0 {
		return b.String()
	}

	raw := ev.text(n)
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return ""
}

func decodeEscape(esc string) string {
	if s, err := strconv.Unquote(`"` + esc + `"`); err == nil {
		return s
	}
	if len(esc) == 2 {
		return esc[1:]
	}
	return esc
}
