package soundcloudclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "test-client", cfg.ClientID)
	assert.Equal(t, "https://api.soundcloud.com", cfg.BaseURL)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 200, cfg.Retry.BackoffMs)
	assert.Equal(t, map[string]string{"track_id": "id"}, cfg.PathMapping)
	assert.Equal(t, filepath.Join("testdata", "mapping.yaml"), cfg.PathMappingFile)
}

func TestLoadConfig_MappingFileRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte("stream_href: stream_url\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "client.yaml"), []byte("client_id: abc\npath_mapping_file: extra.yaml\n"), 0o600))

	cfg, err := LoadConfig(filepath.Join(dir, "client.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "extra.yaml"), cfg.PathMappingFile)

	mapping, err := cfg.Mapping()
	require.NoError(t, err)
	to, ok := mapping.Lookup("stream_href")
	require.True(t, ok)
	assert.Equal(t, "stream_url", to)

	abs := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abs.yaml"), []byte("client_id: abc\npath_mapping_file: "+abs+"\n"), 0o600))
	cfg, err = LoadConfig(filepath.Join(dir, "abs.yaml"))
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.PathMappingFile)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("testdata/missing.yaml")
	require.Error(t, err)
}

func TestParseConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "no credentials", doc: "base_url: http://localhost\n", wantErr: "client_id or oauth_token is required"},
		{name: "empty mapping destination", doc: "client_id: x\npath_mapping:\n  track_id: \"\"\n", wantErr: "invalid path mapping"},
		{name: "malformed yaml", doc: "client_id: [x\n", wantErr: "yaml"},
		{name: "oauth only", doc: "oauth_token: tok\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.doc))
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SOUNDCLOUD_CLIENT_ID", "from-env")
	t.Setenv("SOUNDCLOUD_BASE_URL", "http://localhost:9000")
	t.Setenv("SOUNDCLOUD_MAX_ATTEMPTS", "7")
	t.Setenv("SOUNDCLOUD_OAUTH_TOKEN", "")

	cfg, err := ParseConfig([]byte("client_id: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ClientID)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, 7, cfg.Retry.MaxAttempts)
	assert.Empty(t, cfg.OAuthToken)
}

func TestConfig_Mapping(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)

	mapping, err := cfg.Mapping()
	require.NoError(t, err)

	to, ok := mapping.Lookup("track_id")
	require.True(t, ok)
	assert.Equal(t, "id", to)

	to, ok = mapping.Lookup("http_mp3_128_url")
	require.True(t, ok, "defaults should be kept")
	assert.Equal(t, "mp3_url", to)

	cfg.PathMappingFile = "testdata/invalid-mapping.yaml"
	_, err = cfg.Mapping()
	require.ErrorIs(t, err, ErrInvalidMapping)
}

func TestNewClientFromConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("client_id: abc\nbase_url: http://localhost:8080\nretry:\n  max_attempts: 2\n  backoff_ms: 50\n"))
	require.NoError(t, err)

	logger := &mockLogger{}
	client, err := NewClientFromConfig(cfg, WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", client.BaseURL)
	assert.Equal(t, ClientIDAuth{ClientID: "abc"}, client.Auth)
	assert.Equal(t, 2, client.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, client.RetryBackoff)
	assert.Same(t, logger, client.Logger)
	assert.Equal(t, DefaultPathMapping.Map(), client.Serializer.Mapping().Map())

	cfg.OAuthToken = "tok"
	client, err = NewClientFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, OAuthAuth{Token: "tok"}, client.Auth)
}
