package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystemSecurity(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "base")
	require.NoError(t, os.MkdirAll(base, 0755))

	outsideFile := filepath.Join(root, "outside.txt")
	require.NoError(t, os.WriteFile(outsideFile, []byte("secret"), 0644))

	fs := NewFileSystem(base)
	ctx := context.Background()

	t.Run("Save prevents directory traversal", func(t *testing.T) {
		tests := []struct {
			name string
			path string
			want bool
		}{
			{"normal path", "test.txt", true},
			{"subdirectory", "subdir/test.txt", true},
			{"parent traversal", "../test.txt", false},
			{"complex traversal", "subdir/../../test.txt", false},
			{"absolute path", "/etc/passwd", false},
			{"hidden traversal", "subdir/../../../etc/passwd", false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := fs.Save(ctx, tt.path, []byte("test"))
				if tt.want {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, ErrInvalidPath)
				}
			})
		}
	})

	t.Run("Load prevents directory traversal", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(base, "valid.txt"), []byte("valid"), 0644))

		tests := []struct {
			name string
			path string
			want bool
		}{
			{"normal path", "valid.txt", true},
			{"parent traversal", "../outside.txt", false},
			{"absolute path", outsideFile, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := fs.Load(ctx, tt.path)
				if tt.want {
					assert.NoError(t, err)
				} else {
					assert.Error(t, err)
				}
			})
		}
	})

	t.Run("List prevents directory traversal", func(t *testing.T) {
		tests := []struct {
			name    string
			pattern string
			want    bool
		}{
			{"normal pattern", "*.txt", true},
			{"subdirectory pattern", "subdir/*.txt", true},
			{"recursive pattern", "**/*.txt", true},
			{"parent traversal", "../*", false},
			{"absolute pattern", "/etc/*", false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := fs.List(ctx, tt.pattern)
				if tt.want {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, ErrInvalidPath)
				}
			})
		}
	})
}

func TestSanitizePath(t *testing.T) {
	base := t.TempDir()
	fs := NewFileSystem(base)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "file.txt", false},
		{"nested file", "dir/file.txt", false},
		{"dot file", ".hidden", false},
		{"parent directory", "../file.txt", true},
		{"sneaky parent", "dir/../../../etc/passwd", true},
		{"absolute path", "/etc/passwd", true},
		{"empty path", "", false},
		{"dot path", ".", false},
		{"double dot", "..", true},
		{"contains double dot", "some/..thing/file", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.sanitizePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, fs.Root()), "%q not under %q", got, fs.Root())
		})
	}
}

func TestFileSystemSaveOverwrites(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, "a/b.txt", []byte("first")))
	require.NoError(t, fs.Save(ctx, "a/b.txt", []byte("second")))

	data, err := fs.Load(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(fs.Root(), "a"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileSystemList(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	ctx := context.Background()

	for _, p := range []string{"top.txt", "sites/one/src/pages/Landing.tsx", "sites/two/src/pages/SignIn.tsx", "sites/two/notes.md"} {
		require.NoError(t, fs.Save(ctx, p, []byte(p)))
	}

	got, err := fs.List(ctx, "sites/**/*.tsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"sites/one/src/pages/Landing.tsx", "sites/two/src/pages/SignIn.tsx"}, got)

	got, err = fs.List(ctx, "sites/*")
	require.NoError(t, err)
	assert.Empty(t, got, "directories are not listed")

	assert.True(t, fs.Exists(ctx, "top.txt"))
	assert.False(t, fs.Exists(ctx, "missing.txt"))
	assert.False(t, fs.Exists(ctx, "../top.txt"))
}

func TestFileSystemCanceledContext(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, fs.Save(ctx, "x.txt", []byte("x")), context.Canceled)
	_, err := fs.Load(ctx, "x.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
