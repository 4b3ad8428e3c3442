package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		title, want string
	}{
		{"Tales_of_Unrest", "Tales_of_Unrest"},
		{"Tales of Unrest/Karain", "Tales_of_Unrest_Karain"},
		{"Les Misérables (1862)", "Les_Misérables_(1862)"},
		{"What? Why: <now>", "What__Why___now"},
		{"../..", "book"},
		{"", "book"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.title))
		})
	}
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("Tales of Unrest/Karain", []byte("book"), ".epub")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Tales_of_Unrest_Karain.epub"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "book", string(data))
}
