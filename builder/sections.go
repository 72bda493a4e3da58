package builder

import (
	"strconv"

	"github.com/uvl-tools/uvlsem/ast"
	"github.com/uvl-tools/uvlsem/syntax"
	"github.com/uvl-tools/uvlsem/text"
)

// optName reads the current node as a name. Parser-fabricated names
// translate with a placeholder so the surrounding construct keeps its shape.
func (st *state) optName() (ast.Ident, bool) {
	if st.w.Kind() != "name" {
		return ast.Ident{}, false
	}
	n := st.w.Node()
	if n.IsMissing() {
		return ast.Ident{Name: missingName, Span: n.Span()}, true
	}
	return ast.Ident{Name: st.w.Slice(n), Span: n.Span()}, true
}

// optPath reads the current node as a dotted path: either a bare name or a
// "path" node whose children are the segments.
func (st *state) optPath() *ast.Path {
	switch st.w.Kind() {
	case "name":
		id, ok := st.optName()
		if !ok {
			return nil
		}
		return &ast.Path{Names: []string{id.Name}, Spans: []text.Span{id.Span}}
	case "path":
		if st.w.ChildByField("tail") != nil {
			st.w.Error(10, "trailing dot not supported")
		}
		return visitChildren(st, func(st *state) *ast.Path {
			p := &ast.Path{}
			for {
				if id, ok := st.optName(); ok {
					p.Push(id)
				}
				if !st.w.GotoNextSibling() {
					break
				}
			}
			return p
		})
	default:
		return nil
	}
}

// visitNamespace keeps the first valid namespace path and diagnoses later
// declarations.
func (st *state) visitNamespace() {
	for {
		st.checkSimpleBlk("namespace")
		if st.w.Kind() == "namespace" {
			childScope(st, func(st *state) {
				if !st.w.GotoField("name") {
					return
				}
				if p := st.optPath(); p != nil {
					if !st.model.SetNamespace(*p) {
						st.w.Error(30, "duplicate namespace declaration")
					}
				}
			})
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

func minor(m ast.LevelMinor) *ast.LevelMinor { return &m }

func (st *state) optSMTMinor() *ast.LevelMinor {
	switch st.w.Kind() {
	case "*":
		return minor(ast.MinorAny)
	case "feature-cardinality":
		return minor(ast.MinorFeatureCardinality)
	case "aggregate-function":
		return minor(ast.MinorAggregate)
	case "group-cardinality":
		st.w.Error(30, "not allowed under SMT")
		return nil
	default:
		st.w.Error(30, "unknown SMT level")
		return nil
	}
}

func (st *state) optSATMinor() *ast.LevelMinor {
	switch st.w.Kind() {
	case "*":
		return minor(ast.MinorAny)
	case "group-cardinality":
		return minor(ast.MinorGroupCardinality)
	case "feature-cardinality", "aggregate-function":
		st.w.Error(30, "not allowed under SAT")
		return nil
	default:
		st.w.Error(30, "unknown SAT level")
		return nil
	}
}

func (st *state) optMajorLevel() *ast.LanguageLevel {
	switch st.w.Kind() {
	case "SMT-level":
		return &ast.LanguageLevel{Major: ast.LevelSMT}
	case "SAT-level":
		return &ast.LanguageLevel{Major: ast.LevelSAT}
	default:
		st.w.Error(30, "unknown major language level")
		return nil
	}
}

// optLangLevel reads one language-level declaration. A declaration is
// dropped entirely on any rejected component: cross-combined minors,
// duplicate majors, or a minor preceding the major.
func (st *state) optLangLevel() *ast.LanguageLevel {
	var out *ast.LanguageLevel
	for {
		switch st.w.Kind() {
		case "major_lvl":
			if out != nil {
				st.w.Error(30, "duplicate major level, please pick a minor level")
				return nil
			}
			out = visitChildren(st, (*state).optMajorLevel)
			if out == nil {
				return nil
			}
		case "minor_lvl":
			if out == nil {
				st.w.Error(30, "missing major level, please specify SMT or SAT level")
				return nil
			}
			opt := (*state).optSATMinor
			if out.Major == ast.LevelSMT {
				opt = (*state).optSMTMinor
			}
			m := visitChildren(st, opt)
			if m == nil {
				return nil
			}
			out.Minors = append(out.Minors, *m)
		case "name":
			st.w.Error(30, "unknown language level")
			return nil
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
	return out
}

func (st *state) visitLangLevel() {
	for {
		st.checkSimpleBlk("language level")
		if st.w.Kind() == "lang_lvl" {
			span := st.w.Node().Span()
			if lvl := visitChildren(st, (*state).optLangLevel); lvl != nil {
				st.model.AddInclude(ast.LangLevelDecl{Level: *lvl, Span: span})
			}
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

func (st *state) visitInclude() {
	for {
		st.checkNoExtraBlk("include")
		if st.w.Kind() == "blk" {
			switch headerKind(st.header()) {
			case "lang_lvl":
				childScope(st, (*state).visitLangLevel)
			case "ref":
				st.errorBlk(30, "unknown language level, start with SMT-level or SAT-level")
			default:
				st.errorBlk(40, "expected a language level")
			}
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

// headerKind returns the kind of a possibly absent header node.
func headerKind(h syntax.Node) string {
	if h == nil {
		return ""
	}
	return h.Kind()
}

func (st *state) visitImportDecl() {
	for {
		st.checkSimpleBlk("import")
		if p := st.optPath(); p != nil {
			st.model.AddImport(ast.Import{Path: *p})
		} else if st.w.Kind() == "ref" {
			childScope(st, func(st *state) {
				if !st.w.GotoField("path") {
					return
				}
				p := st.optPath()
				if p == nil {
					return
				}
				var alias *ast.Ident
				if st.w.GotoField("alias") {
					if id, ok := st.optName(); ok {
						alias = &id
					}
				}
				st.model.AddImport(ast.Import{Path: *p, Alias: alias})
			})
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

func (st *state) visitImports() {
	for {
		st.checkNoExtraBlk("imports")
		if st.w.Kind() == "blk" {
			switch headerKind(st.header()) {
			case "name", "ref":
				childScope(st, (*state).visitImportDecl)
			case "incomplete_ref":
				st.errorBlk(40, "incomplete import, please specify an alias")
			default:
				st.errorBlk(40, "expected an import declaration")
			}
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

func (st *state) optInt(n syntax.Node) (int, bool) {
	v, err := strconv.Atoi(st.w.Slice(n))
	if err != nil {
		st.w.ErrorNode(n, 20, "cannot parse integer")
		return 0, false
	}
	return v, true
}

// optCardinality reads a cardinality node with optional "begin"/"end"
// fields; an unreadable bound drops the cardinality.
func (st *state) optCardinality(n syntax.Node) (ast.Cardinality, bool) {
	begin := n.ChildByField("begin")
	end := n.ChildByField("end")
	endKind := ""
	if end != nil {
		endKind = end.Kind()
	}
	switch {
	case begin != nil && endKind == "int":
		b, ok := st.optInt(begin)
		if !ok {
			return ast.Cardinality{}, false
		}
		e, ok := st.optInt(end)
		if !ok {
			return ast.Cardinality{}, false
		}
		return ast.Cardinality{Kind: ast.CardRange, Min: b, Max: e}, true
	case begin != nil && endKind == "*":
		b, ok := st.optInt(begin)
		if !ok {
			return ast.Cardinality{}, false
		}
		return ast.Cardinality{Kind: ast.CardFrom, Min: b}, true
	case begin == nil && endKind == "int":
		e, ok := st.optInt(end)
		if !ok {
			return ast.Cardinality{}, false
		}
		return ast.Cardinality{Kind: ast.CardMax, Max: e}, true
	default:
		return ast.Cardinality{Kind: ast.CardAny}, true
	}
}

func (st *state) optNumber() (float64, bool) {
	v, err := strconv.ParseFloat(st.w.Slice(st.w.Node()), 64)
	if err != nil {
		st.w.Error(40, "failed to parse number")
		return 0, false
	}
	return v, true
}

func (st *state) optBool() bool {
	return st.w.Kind() == "true"
}

func (st *state) optString() (string, bool) {
	if st.w.Kind() != "string" {
		return "", false
	}
	res := visitChildren(st, func(st *state) *string {
		if !st.w.GotoKind("string_content") {
			return nil
		}
		s := st.w.Slice(st.w.Node())
		return &s
	})
	if res == nil {
		return "", false
	}
	return *res, true
}

// visitFeature stores a feature declared by the current block and descends
// into its attributes and child blocks. Sibling features without an
// intervening group are diagnosed but both stay valid.
func (st *state) visitFeature(parent ast.Symbol, name ast.Ident, ty ast.Type) {
	if parent.Kind == ast.KindFeature {
		st.w.Error(40, "features have to be separated by groups")
	}
	var card *ast.Cardinality
	if p := st.w.Node().Parent(); p != nil {
		if cn := p.ChildByField("cardinality"); cn != nil {
			if c, ok := st.optCardinality(cn); ok {
				card = &c
			}
		}
	}
	sym := st.model.AddFeature(ast.Feature{Name: name, Type: ty, Cardinality: card})
	st.model.Link(parent, sym)
	for {
		switch st.w.Kind() {
		case "attributes":
			childScopeArg(st, sym, (*state).visitAttributes)
		case "blk":
			childScopeArg(st, sym, (*state).visitBlkDecl)
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

// visitRef stores a feature reference block.
func (st *state) visitRef(parent ast.Symbol, path ast.Path) {
	if parent.Kind == ast.KindFeature {
		st.w.Error(40, "features have to be separated by groups")
	}
	st.addRef(path, parent)
	for {
		st.checkSimpleBlk("references")
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

// visitGroup stores a group and descends into its child blocks. Groups
// belong directly under a feature; misplacement is diagnosed but the group
// is kept with best-effort structure.
func (st *state) visitGroup(parent ast.Symbol, g ast.Group) {
	switch parent.Kind {
	case ast.KindGroup:
		st.w.Error(40, "groups have to be separated by features")
	case ast.KindRoot:
		st.w.Error(40, "groups have to be contained by features")
	}
	g.Span = st.w.Node().Span()
	sym := st.model.AddGroup(g)
	st.model.Link(parent, sym)
	for {
		st.checkNoExtraBlk("group")
		if st.w.Kind() == "blk" {
			childScopeArg(st, sym, (*state).visitBlkDecl)
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

// featureHeader is the parsed header of a typed feature block.
type featureHeader struct {
	name ast.Ident
	ty   ast.Type
	ok   bool
}

// visitBlkDecl dispatches one block inside the features section by its
// header: plain or typed feature, feature reference, group mode, or group
// cardinality.
func (st *state) visitBlkDecl(parent ast.Symbol) {
	if !st.w.GotoField("header") {
		return
	}
	switch st.w.Kind() {
	case "name":
		name, ok := st.optName()
		if !ok {
			return
		}
		st.visitFeature(parent, name, ast.TypeBool)
	case "typed_feature":
		h := visitChildren(st, func(st *state) featureHeader {
			if !st.w.GotoField("type") {
				return featureHeader{}
			}
			var ty ast.Type
			switch st.w.Slice(st.w.Node()) {
			case "Integer", "Real":
				ty = ast.TypeReal
			case "String":
				ty = ast.TypeString
			case "Boolean":
				ty = ast.TypeBool
			default:
				st.w.Error(30, "unknown type, interpreting as boolean")
				ty = ast.TypeBool
			}
			if !st.w.GotoField("name") {
				return featureHeader{}
			}
			name, ok := st.optName()
			return featureHeader{name: name, ty: ty, ok: ok}
		})
		if h.ok {
			st.visitFeature(parent, h.name, h.ty)
		}
	case "ref":
		path := visitChildren(st, func(st *state) *ast.Path {
			if !st.w.GotoField("path") {
				return nil
			}
			p := st.optPath()
			if st.w.GotoField("alias") {
				st.w.Error(30, "imported features may not have an alias")
			}
			return p
		})
		if path != nil {
			st.visitRef(parent, *path)
		}
	case "group_mode":
		mode := ast.GroupMandatory
		if c := st.w.Node().Child(0); c != nil {
			switch c.Kind() {
			case "mandatory":
				mode = ast.GroupMandatory
			case "or":
				mode = ast.GroupOr
			case "optional":
				mode = ast.GroupOptional
			case "alternative":
				mode = ast.GroupAlternative
			}
		}
		st.visitGroup(parent, ast.Group{Mode: mode})
	case "cardinality":
		card, ok := st.optCardinality(st.w.Node())
		if !ok {
			card = ast.Cardinality{Kind: ast.CardAny}
		}
		st.visitGroup(parent, ast.Group{Mode: ast.GroupCardinality, Card: card})
	default:
		st.w.Error(40, "expected a feature or group declaration")
	}
}

func (st *state) visitFeatures() {
	for {
		st.checkNoExtraBlk("features")
		if st.w.Kind() == "blk" {
			childScopeArg(st, ast.Root, (*state).visitBlkDecl)
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

// visitAttributes walks one attribute list: plain name/value attributes,
// nested attribute blocks, and attribute-level constraints attached to the
// owning scope.
func (st *state) visitAttributes(parent ast.Symbol) {
	for {
		switch st.w.Kind() {
		case "attribute_constraints":
			if st.w.ChildByField("tail") != nil {
				st.w.Error(10, "trailing comma not supported")
			}
			childScopeArg(st, parent, (*state).visitConstraintList)
		case "attribute_constraint":
			childScope(st, func(st *state) {
				if st.w.GotoKind("constraint") {
					childScopeArg(st, parent, (*state).visitConstraint)
				}
			})
		case "attribute_value":
			childScopeArg(st, parent, (*state).visitAttributeValue)
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

func (st *state) visitConstraintList(parent ast.Symbol) {
	for {
		if st.w.Kind() == "constraint" {
			childScopeArg(st, parent, (*state).visitConstraint)
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
}

// visitAttributeValue stores one attribute; an Attributes value recurses
// into the nested list with the new attribute as parent.
func (st *state) visitAttributeValue(parent ast.Symbol) {
	if !st.w.GotoField("name") {
		return
	}
	name, ok := st.optName()
	if !ok {
		return
	}
	st.w.GotoField("value")
	value := st.optValue()
	sym := st.model.AddAttribute(ast.Attribute{
		Name:  name,
		Value: ast.ValueDecl{Value: value, Span: st.w.Node().Span()},
	})
	st.model.Link(parent, sym)
	if value.Kind == ast.ValueAttributes {
		childScopeArg(st, sym, (*state).visitAttributes)
	}
}

// optValue reads an attribute value. Vectors are kept unparsed.
func (st *state) optValue() ast.Value {
	switch st.w.Kind() {
	case "vector":
		return ast.Value{Kind: ast.ValueVector}
	case "attributes":
		return ast.Value{Kind: ast.ValueAttributes}
	case "attrib_expr":
		if v := visitChildren(st, (*state).optAttribExpr); v != nil {
			return *v
		}
		return ast.Value{}
	default:
		return ast.Value{}
	}
}

// optAttribExpr reads a literal attribute value. References and composite
// expressions are rejected; the value degrades to Void.
func (st *state) optAttribExpr() *ast.Value {
	st.w.GotoNamed()
	switch st.w.Kind() {
	case "number":
		n, ok := st.optNumber()
		if !ok {
			return nil
		}
		return &ast.Value{Kind: ast.ValueNumber, Number: n}
	case "bool":
		b := visitChildren(st, (*state).optBool)
		return &ast.Value{Kind: ast.ValueBool, Bool: b}
	case "string":
		s, ok := st.optString()
		if !ok {
			return nil
		}
		return &ast.Value{Kind: ast.ValueString, Str: s}
	case "path":
		st.w.Error(30, "attribute references are not supported")
		return nil
	case "binary_expr", "nested_expr", "aggregate", "unary_expr":
		st.w.Error(30, "composite attribute values are not supported")
		return nil
	default:
		return nil
	}
}
