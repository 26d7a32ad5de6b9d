package descriptor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/licenseforge/copyrightgen/domain"
	"github.com/licenseforge/copyrightgen/infrastructure/descriptor"
)

func writeFile(t *testing.T, dir string, name string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("should parse key-value descriptors in lexicographic order", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "libbar.copyright_meta", "name = libbar\nlicense = Apache-2.0\ncopyright = Copyright 2019 ACME Corp\n")
		writeFile(t, dir, "libfoo.copyright_meta", "name = libfoo\nlicense = MIT\nyear = 2020\nauthor = Jane Doe\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		require.Empty(t, failures)
		require.Len(t, stanzas, 2)
		assert.Equal(t, "libbar", stanzas[0].Name)
		assert.Equal(t, "libfoo", stanzas[1].Name)
		assert.Equal(t, domain.OriginManual, stanzas[0].Origin)
		assert.Equal(t, "2020", stanzas[1].Year)
		assert.Equal(t, "Jane Doe", stanzas[1].Author)
	})

	t.Run("should parse YAML and TOML descriptor variants", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "a.copyright_meta.yaml", "name: libyaml\nlicense: MIT\nauthor_year: 2021 The YAML Authors\n")
		writeFile(t, dir, "b.copyright_meta.toml", "name = \"libtoml\"\nlicense = \"BSD-3-Clause\"\nyear = \"2022\"\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		require.Empty(t, failures)
		require.Len(t, stanzas, 2)
		assert.Equal(t, "libyaml", stanzas[0].Name)
		assert.Equal(t, "2021 The YAML Authors", stanzas[0].AuthorYear)
		assert.Equal(t, "libtoml", stanzas[1].Name)
		assert.Equal(t, "2022", stanzas[1].Year)
	})

	t.Run("should keep hash and semicolon characters inside values", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "lib.copyright_meta", "name = lib\nlicense = MIT\nauthor = ACME # Labs; Inc\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		require.Empty(t, failures)
		require.Len(t, stanzas, 1)
		assert.Equal(t, "ACME # Labs; Inc", stanzas[0].Author)
	})

	t.Run("should skip a descriptor missing its license and keep the rest", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "bad.copyright_meta", "name = broken\n")
		writeFile(t, dir, "good.copyright_meta", "name = libfoo\nlicense = MIT\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		require.Len(t, failures, 1)
		var missing *domain.MissingFieldError
		require.ErrorAs(t, failures[0], &missing)
		assert.Equal(t, "license", missing.Field)

		require.Len(t, stanzas, 1)
		assert.Equal(t, "libfoo", stanzas[0].Name)
	})

	t.Run("should skip a descriptor missing its name", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "bad.copyright_meta", "license = MIT\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		assert.Empty(t, stanzas)
		require.Len(t, failures, 1)
		var missing *domain.MissingFieldError
		require.ErrorAs(t, failures[0], &missing)
		assert.Equal(t, "name", missing.Field)
	})

	t.Run("should let a later duplicate name override the earlier descriptor", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "a.copyright_meta", "name = libfoo\nlicense = MIT\n")
		writeFile(t, dir, "b.copyright_meta", "name = libfoo\nlicense = Apache-2.0\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		require.Empty(t, failures)
		require.Len(t, stanzas, 1)
		assert.Equal(t, "Apache-2.0", stanzas[0].License)
	})

	t.Run("should ignore unrelated files and subdirectories", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "README.md", "not a descriptor")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
		writeFile(t, dir, "lib.copyright_meta", "name = lib\nlicense = MIT\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		assert.Empty(t, failures)
		assert.Len(t, stanzas, 1)
	})

	t.Run("should backfill attribution from a referenced license file", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "LICENSE-libfoo", "Copyright (c) 2020 Jane Doe\n")
		writeFile(t, dir, "libfoo.copyright_meta", "name = libfoo\nlicense = MIT\nlicense_file = LICENSE-libfoo\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		require.Empty(t, failures)
		require.Len(t, stanzas, 1)
		assert.Equal(t, "2020 Jane Doe", stanzas[0].AuthorYear)
	})

	t.Run("should download a license_url and backfill attribution from it", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("Copyright (c) 2021 ACME Corp\n"))
		}))
		defer server.Close()
		dir := t.TempDir()
		writeFile(t, dir, "libfoo.copyright_meta",
			"name = libfoo\nlicense = MIT\nlicense_url = "+server.URL+"/LICENSE-libfoo\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		require.Empty(t, failures)
		require.Len(t, stanzas, 1)
		assert.Equal(t, "2021 ACME Corp", stanzas[0].AuthorYear)
		downloaded, err := os.ReadFile(filepath.Join(dir, "LICENSE-libfoo"))
		require.NoError(t, err)
		assert.Equal(t, "Copyright (c) 2021 ACME Corp\n", string(downloaded))
	})

	t.Run("should not backfill when the descriptor supplies attribution", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, "LICENSE-libfoo", "Copyright (c) 1999 Someone Else\n")
		writeFile(t, dir, "libfoo.copyright_meta", "name = libfoo\nlicense = MIT\nyear = 2020\nlicense_file = LICENSE-libfoo\n")

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), dir)

		// then
		require.Empty(t, failures)
		require.Len(t, stanzas, 1)
		assert.Equal(t, "2020", stanzas[0].Year)
		assert.Empty(t, stanzas[0].AuthorYear)
	})

	t.Run("should return nothing for a missing folder", func(t *testing.T) {
		t.Parallel()

		// when
		stanzas, failures := descriptor.NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))

		// then
		assert.Empty(t, stanzas)
		assert.Empty(t, failures)
	})
}
