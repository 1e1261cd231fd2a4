package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.Error(t, err)

	v, err := NewPathValidator("/tmp/docs")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/docs", v.GetConfiguredDirectory())
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	assert.NoError(t, v.ValidatePath(filepath.Join(dir, "doc.pdf")))
	assert.NoError(t, v.ValidatePath(filepath.Join(dir, "sub", "doc.pdf")))

	assert.Error(t, v.ValidatePath(""))
	assert.Error(t, v.ValidatePath("/etc/passwd"))
	assert.Error(t, v.ValidatePath(filepath.Join(dir, "..", "escape.pdf")))
}

func TestValidatePathNonexistentConfiguredDirectory(t *testing.T) {
	v, err := NewPathValidator(filepath.Join(t.TempDir(), "not-created-yet"))
	require.NoError(t, err)

	// Containment checks are deferred until the directory exists.
	assert.NoError(t, v.ValidatePath("/anywhere/doc.pdf"))
}

func TestIsPathWithinDirectory(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	within, err := v.IsPathWithinDirectory(filepath.Join(dir, "doc.pdf"))
	require.NoError(t, err)
	assert.True(t, within)

	within, err = v.IsPathWithinDirectory(dir)
	require.NoError(t, err)
	assert.True(t, within, "the directory itself counts as inside")

	within, err = v.IsPathWithinDirectory("/etc/passwd")
	require.NoError(t, err)
	assert.False(t, within)

	// A sibling directory sharing the prefix string is still outside.
	within, err = v.IsPathWithinDirectory(dir + "-sibling/doc.pdf")
	require.NoError(t, err)
	assert.False(t, within)
}

func TestIsPathWithinDirectorySymlinkEscape(t *testing.T) {
	outer := t.TempDir()
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	secret := filepath.Join(outer, "secret.pdf")
	require.NoError(t, os.WriteFile(secret, []byte("x"), 0o644))

	link := filepath.Join(dir, "link.pdf")
	require.NoError(t, os.Symlink(secret, link))

	within, err := v.IsPathWithinDirectory(link)
	require.NoError(t, err)
	assert.False(t, within, "symlink target outside the directory")
}

func TestNormalizePath(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	// Bare filenames resolve against the configured directory.
	got, err := v.NormalizePath("doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doc.pdf"), got)

	got, err = v.NormalizePath("sub/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "doc.pdf"), got)

	// Absolute paths inside the directory pass through cleaned.
	got, err = v.NormalizePath(filepath.Join(dir, "sub", "..", "doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doc.pdf"), got)

	// Null bytes are stripped before resolution.
	got, err = v.NormalizePath("doc\x00.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doc.pdf"), got)

	_, err = v.NormalizePath("")
	assert.Error(t, err)

	_, err = v.NormalizePath("../escape.pdf")
	assert.Error(t, err)

	_, err = v.NormalizePath("/etc/passwd")
	assert.Error(t, err)
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	assert.NoError(t, v.ValidateDirectory(sub))

	// A directory that does not exist yet is accepted.
	assert.NoError(t, v.ValidateDirectory(filepath.Join(dir, "future")))

	file := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.Error(t, v.ValidateDirectory(file))

	assert.Error(t, v.ValidateDirectory("/etc"))
}
