package modelstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvl-tools/uvlsem/builder"
	"github.com/uvl-tools/uvlsem/syntax"
)

// exportFixture translates a model with an import, one feature carrying an
// attribute, and a constraint referring to the feature, then exports it.
func exportFixture(t *testing.T, store Store) {
	t.Helper()
	root := syntax.NewNode("source_file",
		syntax.NewNode("blk",
			syntax.Token("imports", "imports").Field("header"),
			syntax.NewNode("blk",
				syntax.NewNode("ref",
					syntax.NewNode("path",
						syntax.Token("name", "lib"),
						syntax.Anon("."),
						syntax.Token("name", "base"),
					).Field("path"),
				).Field("header"),
			).Field("child"),
		),
		syntax.NewNode("blk",
			syntax.Token("features", "features").Field("header"),
			syntax.NewNode("blk",
				syntax.Token("name", "A").Field("header"),
				syntax.NewNode("attributes",
					syntax.NewNode("attribute_value",
						syntax.Token("name", "weight").Field("name"),
						syntax.NewNode("attrib_expr", syntax.Token("number", "2")).Field("value"),
					),
				).Field("attribs"),
			).Field("child"),
		),
		syntax.NewNode("blk",
			syntax.Token("constraints", "constraints").Field("header"),
			syntax.NewNode("blk",
				syntax.NewNode("constraint",
					syntax.NewNode("path", syntax.Token("name", "A")),
				).Field("header"),
			).Field("child"),
		),
	)
	tree, src := syntax.Build(root)
	doc := builder.Translate(tree, src, "file:///store/m.uvl", time.Now())
	require.Empty(t, doc.Diagnostics())
	require.NoError(t, Export(context.Background(), store, doc))
}

func TestExportToMemStore(t *testing.T) {
	store := NewMemStore()
	defer store.Close()
	require.NoError(t, store.InitSchema(context.Background()))

	exportFixture(t, store)

	ctx := context.Background()
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	// Root, dir lib, import base, feature A, attribute weight, the
	// constraint and its reference to A.
	assert.Equal(t, 7, stats.SymbolCount)

	features, err := store.SymbolsByKind(ctx, "feature")
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "A", features[0].Name)
	assert.Equal(t, "A", features[0].Path)
	assert.Equal(t, "file:///store/m.uvl", features[0].URI)

	attrs, err := store.SymbolsByKind(ctx, "attribute")
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "A.weight", attrs[0].Path)

	edges, err := store.Edges(ctx)
	require.NoError(t, err)

	byKind := map[EdgeKind]int{}
	for _, e := range edges {
		byKind[e.Kind]++
	}
	// Root->dir, dir->import, Root->feature, feature->attribute,
	// Root->constraint.
	assert.Equal(t, 5, byKind[EdgeKindChild])
	assert.Equal(t, 1, byKind[EdgeKindImports])
	assert.Equal(t, 1, byKind[EdgeKindRefers])

	refs, err := store.SymbolsByKind(ctx, "reference")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	for _, e := range edges {
		if e.Kind == EdgeKindRefers {
			assert.Equal(t, refs[0].ID, e.SourceID)
			assert.Equal(t, features[0].ID, e.TargetID)
		}
	}
}

func TestMemStoreSymbolsByKindEmptyKind(t *testing.T) {
	store := NewMemStore()
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.AddSymbol(ctx, SymbolRow{ID: "1", Kind: "feature"}))
	require.NoError(t, store.AddSymbol(ctx, SymbolRow{ID: "2", Kind: "import"}))

	all, err := store.SymbolsByKind(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemStoreReplacesByID(t *testing.T) {
	store := NewMemStore()
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.AddSymbol(ctx, SymbolRow{ID: "1", Name: "old"}))
	require.NoError(t, store.AddSymbol(ctx, SymbolRow{ID: "1", Name: "new"}))

	rows, err := store.SymbolsByKind(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "new", rows[0].Name)
}
