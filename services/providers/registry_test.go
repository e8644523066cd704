package providers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name    string
		descs   []Descriptor
		wantErr error
	}{
		{
			name: "keeps order",
			descs: []Descriptor{
				{Key: "b", Name: "B", Endpoint: "https://b.example.com/api.php"},
				{Key: "a", Name: "A", Endpoint: "https://a.example.com/api.php"},
			},
		},
		{
			name:  "empty registry is valid",
			descs: nil,
		},
		{
			name: "duplicate key",
			descs: []Descriptor{
				{Key: "a", Endpoint: "https://a.example.com"},
				{Key: "a", Endpoint: "https://a2.example.com"},
			},
			wantErr: ErrProviderAlreadyRegistered,
		},
		{
			name:    "missing key",
			descs:   []Descriptor{{Endpoint: "https://a.example.com"}},
			wantErr: ErrInvalidDescriptor,
		},
		{
			name:    "missing endpoint",
			descs:   []Descriptor{{Key: "a"}},
			wantErr: ErrInvalidDescriptor,
		},
		{
			name:    "relative endpoint",
			descs:   []Descriptor{{Key: "a", Endpoint: "/api.php"}},
			wantErr: ErrInvalidDescriptor,
		},
		{
			name:    "unsupported scheme",
			descs:   []Descriptor{{Key: "a", Endpoint: "ftp://a.example.com/api"}},
			wantErr: ErrInvalidDescriptor,
		},
		{
			name:  "placeholder endpoint",
			descs: []Descriptor{{Key: "a", Endpoint: "https://a.example.com/search/{query}.xml"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.descs...)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.descs), r.Count())
			for i, d := range r.All() {
				assert.Equal(t, tt.descs[i].Key, d.Key)
			}
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry(
		Descriptor{Key: "heimuer", Name: "黑木耳", Endpoint: "https://json.heimuer.xyz/api.php/provide/vod/at/xml"},
		Descriptor{Key: "nameless", Endpoint: "https://example.com/api.php"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"heimuer", "nameless"}, r.Keys())

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "黑木耳", all[0].Name)
	assert.Equal(t, "nameless", all[1].Name, "name defaults to key")

	all[0].Name = "mutated"
	assert.Equal(t, "黑木耳", r.All()[0].Name, "All must return a copy")
}

func TestRegistry_Nil(t *testing.T) {
	var r *Registry
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.All())
	assert.Empty(t, r.Keys())
}

func TestParse(t *testing.T) {
	t.Run("wrapped yaml keeps document order", func(t *testing.T) {
		data := []byte(`
api_site:
  zeta:
    name: Zeta
    api: https://zeta.example.com/api.php/provide/vod/at/xml
  alpha:
    name: Alpha
    api: https://alpha.example.com/api.php/provide/vod/at/xml
  mid:
    name: Mid
    api: https://mid.example.com/api.php/provide/vod/at/xml
`)
		descs, err := Parse(data)
		require.NoError(t, err)
		require.Len(t, descs, 3)
		assert.Equal(t, "zeta", descs[0].Key)
		assert.Equal(t, "alpha", descs[1].Key)
		assert.Equal(t, "mid", descs[2].Key)
		assert.Equal(t, "Alpha", descs[1].Name)
		assert.Equal(t, "https://alpha.example.com/api.php/provide/vod/at/xml", descs[1].Endpoint)
	})

	t.Run("json config", func(t *testing.T) {
		data := []byte(`{"cache_time": 7200, "api_site": {"b": {"name": "B", "api": "https://b.example.com"}, "a": {"name": "A", "api": "https://a.example.com"}}}`)
		descs, err := Parse(data)
		require.NoError(t, err)
		require.Len(t, descs, 2)
		assert.Equal(t, "b", descs[0].Key)
		assert.Equal(t, "a", descs[1].Key)
	})

	t.Run("bare mapping", func(t *testing.T) {
		descs, err := Parse([]byte("one:\n  name: One\n  api: https://one.example.com\n"))
		require.NoError(t, err)
		require.Len(t, descs, 1)
		assert.Equal(t, "one", descs[0].Key)
	})

	t.Run("empty document", func(t *testing.T) {
		descs, err := Parse([]byte(""))
		require.NoError(t, err)
		assert.Empty(t, descs)
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := Parse([]byte("- a\n- b\n"))
		assert.Error(t, err)
	})

	t.Run("api_site not a mapping", func(t *testing.T) {
		_, err := Parse([]byte("api_site: [1, 2]\n"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("api_site: {a: [\n"))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "providers.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
api_site:
  a:
    name: A
    api: https://a.example.com/api.php
`), 0o600))

		r, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, r.Keys())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid descriptor", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("a:\n  name: A\n"), 0o600))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrInvalidDescriptor)
	})
}

func TestDescriptor_SearchURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		query    string
		want     string
	}{
		{"appends wd", "https://a.example.com/api.php/provide/vod/at/xml", "tom and jerry", "https://a.example.com/api.php/provide/vod/at/xml?wd=tom%20and%20jerry"},
		{"existing query string", "https://a.example.com/api.php?ac=list", "x", "https://a.example.com/api.php?ac=list&wd=x"},
		{"trailing question mark", "https://a.example.com/api.php?", "x", "https://a.example.com/api.php?wd=x"},
		{"placeholder", "https://a.example.com/s/{query}.xml", "a b", "https://a.example.com/s/a%20b.xml"},
		{"reserved characters", "https://a.example.com/api", "a&b=c+d", "https://a.example.com/api?wd=a%26b%3Dc%2Bd"},
		{"unicode", "https://a.example.com/api", "庆余年", "https://a.example.com/api?wd=%E5%BA%86%E4%BD%99%E5%B9%B4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Descriptor{Key: "a", Endpoint: tt.endpoint}
			assert.Equal(t, tt.want, d.SearchURL(tt.query))
		})
	}
}

func TestOutcomeConstructors(t *testing.T) {
	d := Descriptor{Key: "a", Name: "A"}

	ok := Succeeded(d, nil)
	assert.False(t, ok.Failed)
	assert.NotNil(t, ok.Records)
	assert.Empty(t, ok.Records)

	failed := Failure(d, FailureTimeout)
	assert.True(t, failed.Failed)
	assert.Equal(t, FailureTimeout, failed.Reason)
	assert.Empty(t, failed.Records)

	r := Record{FieldSource: "a"}
	assert.Equal(t, "a", r.Source())
	assert.Equal(t, "", Record{}.Source())
}

func TestProviderError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewProviderError("a", FailureNetwork, 0, cause)
	assert.Equal(t, "a: network error: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	err = NewProviderError("b", FailureRejected, 503, nil)
	assert.Equal(t, "b: provider rejected request", err.Error())
}
