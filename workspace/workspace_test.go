package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvl-tools/uvlsem/builder"
	"github.com/uvl-tools/uvlsem/modelstore"
	"github.com/uvl-tools/uvlsem/syntax"
)

func fixture(featureName string) (*syntax.M, string) {
	root := syntax.NewNode("source_file",
		syntax.NewNode("blk",
			syntax.Token("features", "features").Field("header"),
			syntax.NewNode("blk",
				syntax.Token("name", featureName).Field("header"),
			).Field("child"),
		),
	)
	return root, "file:///ws/" + featureName + ".uvl"
}

func TestPublishKeepsNewestVersion(t *testing.T) {
	ws := New(zerolog.Nop(), 1)
	proto, uri := fixture("A")
	tree, src := syntax.Build(proto)

	older := time.Now()
	newer := older.Add(time.Second)

	require.True(t, ws.Publish(builder.Translate(tree, src, uri, newer)))
	assert.False(t, ws.Publish(builder.Translate(tree, src, uri, older)),
		"stale version must be rejected")

	doc, ok := ws.Document(uri)
	require.True(t, ok)
	assert.Equal(t, newer, doc.Timestamp())
	assert.Equal(t, 1, ws.Len())
}

func TestPublishReplacesWithNewer(t *testing.T) {
	ws := New(zerolog.Nop(), 1)
	proto, uri := fixture("A")
	tree, src := syntax.Build(proto)

	first := time.Now()
	require.True(t, ws.Publish(builder.Translate(tree, src, uri, first)))
	require.True(t, ws.Publish(builder.Translate(tree, src, uri, first.Add(time.Minute))))
	assert.Equal(t, 1, ws.Len())
}

func TestDocumentMissing(t *testing.T) {
	ws := New(zerolog.Nop(), 0)
	_, ok := ws.Document("file:///nope.uvl")
	assert.False(t, ok)
}

func TestTranslateAll(t *testing.T) {
	ws := New(zerolog.Nop(), 4)

	var inputs []Input
	for i := 0; i < 16; i++ {
		proto, uri := fixture(fmt.Sprintf("F%d", i))
		tree, src := syntax.Build(proto)
		inputs = append(inputs, Input{
			Tree:      tree,
			Source:    src,
			URI:       uri,
			Timestamp: time.Now(),
		})
	}

	require.NoError(t, ws.TranslateAll(context.Background(), inputs))
	assert.Equal(t, 16, ws.Len())
	for i := 0; i < 16; i++ {
		doc, ok := ws.Document(fmt.Sprintf("file:///ws/F%d.uvl", i))
		require.True(t, ok)
		assert.Len(t, doc.AllFeatures(), 1)
	}
	assert.Len(t, ws.Documents(), 16)
}

// noisyFixture translates with two diagnostics: ungrouped sibling features
// (weight 40) and an unknown top-level section (weight 60).
func noisyFixture() (*syntax.M, string) {
	root := syntax.NewNode("source_file",
		syntax.NewNode("blk",
			syntax.Token("features", "features").Field("header"),
			syntax.NewNode("blk",
				syntax.Token("name", "A").Field("header"),
				syntax.NewNode("blk",
					syntax.Token("name", "B").Field("header"),
				).Field("child"),
			).Field("child"),
		),
		syntax.NewNode("blk",
			syntax.Token("name", "junk").Field("header"),
		),
	)
	return root, "file:///ws/noisy.uvl"
}

func TestNewFromDirAppliesConfig(t *testing.T) {
	dir := t.TempDir()
	data := []byte("workers: 2\nminDiagnosticWeight: 50\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uvlsem.yml"), data, 0o644))

	ws, err := NewFromDir(zerolog.Nop(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, ws.workers)

	proto, uri := noisyFixture()
	tree, src := syntax.Build(proto)
	require.True(t, ws.Publish(builder.Translate(tree, src, uri, time.Now())))

	doc, ok := ws.Document(uri)
	require.True(t, ok)
	require.Len(t, doc.Diagnostics(), 2)

	diags, ok := ws.Diagnostics(uri)
	require.True(t, ok)
	require.Len(t, diags, 1)
	assert.Equal(t, 60, diags[0].Weight)

	_, ok = ws.Diagnostics("file:///ws/other.uvl")
	assert.False(t, ok)
}

func TestNewFromDirWithoutConfig(t *testing.T) {
	ws, err := NewFromDir(zerolog.Nop(), t.TempDir())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ws.workers, 1)

	proto, uri := noisyFixture()
	tree, src := syntax.Build(proto)
	require.True(t, ws.Publish(builder.Translate(tree, src, uri, time.Now())))

	// The zero minimum weight surfaces everything.
	diags, ok := ws.Diagnostics(uri)
	require.True(t, ok)
	assert.Len(t, diags, 2)
}

func TestOpenStoreDefaultsToMemory(t *testing.T) {
	ws := New(zerolog.Nop(), 1)
	store, err := ws.OpenStore()
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &modelstore.MemStore{}, store)
}

func TestTranslateAllCanceled(t *testing.T) {
	ws := New(zerolog.Nop(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proto, uri := fixture("A")
	tree, src := syntax.Build(proto)
	err := ws.TranslateAll(ctx, []Input{{Tree: tree, Source: src, URI: uri, Timestamp: time.Now()}})
	assert.ErrorIs(t, err, context.Canceled)
}
