package wordlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "trims whitespace and folds case",
			input: []string{"  Foo ", "foo", "bar", ""},
			want:  []string{"bar", "foo"},
		},
		{
			name:  "drops whitespace-only entries",
			input: []string{"   ", "\t", "spam"},
			want:  []string{"spam"},
		},
		{
			name:  "order and duplicates are discarded",
			input: []string{"b", "a", "b", "A"},
			want:  []string{"a", "b"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestManagerReplaceNormalizes(t *testing.T) {
	ctx := context.Background()
	m, err := NewManagerWithStore(ctx, NewMemoryStore(), testLogger())
	require.NoError(t, err)

	words, err := m.Replace(ctx, "  Foo , foo,bar, ")
	require.NoError(t, err)
	assert.Equal(t, []string{"bar", "foo"}, words)
	assert.Equal(t, []string{"bar", "foo"}, m.Words())
}

func TestManagerReplaceEmptySubmissionDisablesFilter(t *testing.T) {
	ctx := context.Background()
	m, err := NewManagerWithStore(ctx, NewMemoryStore(), testLogger())
	require.NoError(t, err)

	_, err = m.Replace(ctx, "spam")
	require.NoError(t, err)

	// An empty submission is a valid update, not an error.
	words, err := m.Replace(ctx, " , ,")
	require.NoError(t, err)
	assert.Empty(t, words)
	assert.Empty(t, m.Words())
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bot_data.json")

	m, err := NewManagerWithStore(ctx, NewFileStore(path), testLogger())
	require.NoError(t, err)

	_, err = m.Replace(ctx, "Spam, scam , spam")
	require.NoError(t, err)

	// A fresh manager over the same file sees the normalized set.
	reloaded, err := NewManagerWithStore(ctx, NewFileStore(path), testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"scam", "spam"}, reloaded.Words())
}

func TestFileStoreAbsentFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missing.json")

	m, err := NewManagerWithStore(ctx, NewFileStore(path), testLogger())
	require.NoError(t, err)
	assert.Empty(t, m.Words())
}

func TestFileStoreIgnoresLegacyKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bot_data.json")
	legacy := []byte(`{"filter": ["spam"], "admins": [1, 2]}`)
	require.NoError(t, os.WriteFile(path, legacy, 0644))

	m, err := NewManagerWithStore(ctx, NewFileStore(path), testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"spam"}, m.Words())
}

type failingStore struct{}

func (failingStore) Load(ctx context.Context) ([]string, error) { return nil, nil }
func (failingStore) Save(ctx context.Context, words []string) error {
	return errors.New("disk full")
}

func TestManagerKeepsOldSetOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	m := &Manager{
		words:  []string{"spam"},
		store:  failingStore{},
		logger: testLogger(),
	}

	_, err := m.Replace(ctx, "scam")
	require.Error(t, err)
	assert.Equal(t, []string{"spam"}, m.Words())
}
