package web

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	b := NewBuilder(newTestQuizzes(testChapter(), emptyChapter()), newTestRenderer(t), nil, "quizForm")

	results, err := b.Build(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	ok, failed := results[0], results[1]
	if ok.Err != nil {
		ok, failed = failed, ok
	}
	require.NoError(t, ok.Err)
	assert.Equal(t, "hematology", ok.Chapter)
	assert.Equal(t, filepath.Join(dir, "hematology.html"), ok.Path)
	require.NotNil(t, ok.Session)
	assert.Len(t, ok.Session.Questions, 2)

	assert.Error(t, failed.Err)
	assert.Nil(t, failed.Session)

	page, err := os.ReadFile(ok.Path)
	require.NoError(t, err)
	assert.Contains(t, string(page), `<a href="index.html">All chapters</a>`)

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `href="hematology.html"`)
	assert.NotContains(t, string(index), "empty.html")

	_, err = os.Stat(filepath.Join(dir, "empty.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuilderNothingBuilt(t *testing.T) {
	b := NewBuilder(newTestQuizzes(emptyChapter()), newTestRenderer(t), nil, "quizForm")

	results, err := b.Build(context.Background(), t.TempDir())
	assert.EqualError(t, err, "no chapter could be built")
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestBuilderRefusesUnsafeSlug(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "public")
	escaping := testChapter()
	escaping.Slug = "../escape"

	b := NewBuilder(newTestQuizzes(escaping, testChapter()), newTestRenderer(t), nil, "quizForm")

	results, err := b.Build(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, ErrUnsafeSlug)
	assert.Empty(t, results[0].Path)
	assert.NoError(t, results[1].Err)

	_, err = os.Stat(filepath.Join(root, "escape.html"))
	assert.True(t, os.IsNotExist(err))
}
