package builder

import "github.com/uvl-tools/uvlsem/ast"

// resolve runs the post-pass over the populated model: it materializes the
// import directory tree, fills the name index for features and attributes
// and reports root-level name collisions.
func (st *state) resolve() {
	st.connectImports()
	st.buildNameIndex()
	st.checkRootCollisions()
}

// duplicate reports a name clash at both definitions.
func (st *state) duplicate(sym, old ast.Symbol, msg string) {
	st.errorAt(sym, 20, msg)
	st.errorAt(old, 20, msg)
}

// connectImports builds the directory tree under Root from the effective
// import prefixes. Shared path segments reuse the same Dir entity, so
// imports a.b and a.c hang off one directory a.
func (st *state) connectImports() {
	for _, im := range st.model.AllImports() {
		prefix := st.model.ImportPrefix(im)
		if len(prefix) == 0 {
			continue
		}
		node := ast.Root
		for k := 0; k < len(prefix)-1; k++ {
			if dir, ok := st.model.IndexGet(node, prefix[k], ast.KindDir); ok {
				node = dir
				continue
			}
			sym := st.model.AddDir(ast.Dir{Name: prefix[k], Depth: k + 1})
			st.model.Link(node, sym)
			st.model.IndexInsert(node, prefix[k], ast.KindDir, sym)
			node = sym
		}
		st.model.Link(node, im)
		if old, dup := st.model.IndexInsert(node, prefix[len(prefix)-1], ast.KindImport, im); dup {
			st.duplicate(im, old, "duplicate import")
		}
	}
}

// buildNameIndex indexes every feature under Root and every attribute under
// its nearest named ancestor. Attribute depth counts nesting below the
// owning feature.
func (st *state) buildNameIndex() {
	type frame struct {
		node  ast.Symbol
		scope ast.Symbol
		depth int
	}
	stack := []frame{{node: ast.Root, scope: ast.Root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		scope := top.scope
		childDepth := top.depth
		if name, ok := st.model.Name(top.node); ok {
			switch top.node.Kind {
			case ast.KindFeature:
				if old, dup := st.model.IndexInsert(ast.Root, name, ast.KindFeature, top.node); dup {
					st.duplicate(top.node, old, "duplicate feature")
				}
				scope = top.node
				childDepth = 1
			case ast.KindAttribute:
				if old, dup := st.model.IndexInsert(top.scope, name, ast.KindAttribute, top.node); dup {
					st.duplicate(top.node, old, "duplicate attribute")
				}
				st.model.SetAttributeDepth(top.node.Index, top.depth)
				scope = top.node
				childDepth = top.depth + 1
			}
		}
		for _, c := range st.model.Children(top.node) {
			stack = append(stack, frame{node: c, scope: scope, depth: childDepth})
		}
	}
}

// checkRootCollisions reports root features whose name shadows an import
// directory or an import.
func (st *state) checkRootCollisions() {
	for _, c := range st.model.Children(ast.Root) {
		if c.Kind != ast.KindFeature {
			continue
		}
		name, ok := st.model.Name(c)
		if !ok {
			continue
		}
		if _, found := st.model.IndexGet(ast.Root, name, ast.KindDir); found {
			st.errorAt(c, 20, "name already defined as import directory")
		}
		if _, found := st.model.IndexGet(ast.Root, name, ast.KindImport); found {
			st.errorAt(c, 20, "name already defined as import")
		}
	}
}
