package publish_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/pack/pkg/archive"
	"github.com/glorpus-work/pack/pkg/auth"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/model"
	"github.com/glorpus-work/pack/pkg/publish"
	"github.com/glorpus-work/pack/pkg/registry"
	"github.com/glorpus-work/pack/pkg/registry/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const registryURL = "https://registry.example.test/"

func packageDir(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.js"), []byte("console.log(1)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".npmrc"), []byte("token=x"), 0o644))
	return dir
}

// recordingArchiver wraps the real archive manager and remembers the path it
// handed out.
type recordingArchiver struct {
	inner *archive.Manager
	path  string
}

func (r *recordingArchiver) CreateTemp(ctx context.Context, dir string) (string, int, func(), error) {
	path, entries, cleanup, err := r.inner.CreateTemp(ctx, dir)
	r.path = path
	return path, entries, cleanup, err
}

func TestPublish(t *testing.T) {
	client := mocks.NewMockClient(gomock.NewController(t))
	archiver := &recordingArchiver{inner: archive.NewManager()}
	publisher := publish.NewPublisher(client, archiver, registryURL)
	dir := packageDir(t, `{"name":"demo","version":"1.2.0","description":"A demo","type":"wasm"}`)
	credentials := &auth.BearerAuth{Token: "pk_123"}

	client.EXPECT().Publish(gomock.Any(), gomock.Any(), credentials).
		DoAndReturn(func(_ context.Context, req registry.PublishRequest, _ auth.Authenticator) (*model.PublishResult, error) {
			assert.Equal(t, "demo", req.Name)
			assert.Equal(t, "1.2.0", req.Version)
			assert.Equal(t, "A demo", req.Description)
			assert.Equal(t, "wasm", req.Type)
			assert.True(t, req.Public)
			assert.FileExists(t, req.ArchivePath)

			names, err := archive.NewManager().List(context.Background(), req.ArchivePath)
			assert.NoError(t, err)
			assert.Equal(t, []string{"index.js", "package.json"}, names)
			return &model.PublishResult{Success: true, ID: "xyz789"}, nil
		})

	result, err := publisher.Publish(context.Background(), publish.Request{Dir: dir, Authenticator: credentials, Public: true})
	require.NoError(t, err)
	assert.Equal(t, &publish.Result{
		Name:    "demo",
		Version: "1.2.0",
		ID:      "xyz789",
		URL:     "https://registry.example.test/pack/xyz789",
		Entries: 2,
	}, result)
	assert.NoFileExists(t, archiver.path)
}

func TestPublishTypeFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		flag     string
		expected string
	}{
		{"flag wins", `{"name":"d","version":"1.0.0","type":"wasm"}`, "advanced", "advanced"},
		{"manifest type", `{"name":"d","version":"1.0.0","type":"wasm"}`, "", "wasm"},
		{"default", `{"name":"d","version":"1.0.0"}`, "", model.DefaultPackageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockClient(gomock.NewController(t))
			client.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req registry.PublishRequest, _ auth.Authenticator) (*model.PublishResult, error) {
					assert.Equal(t, tt.expected, req.Type)
					assert.False(t, req.Public)
					return &model.PublishResult{Success: true, ID: "id"}, nil
				})

			publisher := publish.NewPublisher(client, archive.NewManager(), registryURL)
			_, err := publisher.Publish(context.Background(), publish.Request{
				Dir:           packageDir(t, tt.manifest),
				Authenticator: &auth.BearerAuth{Token: "k"},
				Type:          tt.flag,
			})
			require.NoError(t, err)
		})
	}
}

func TestPublishValidationFailsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		auth     auth.Authenticator
		kind     error
	}{
		{"missing version", `{"name":"demo"}`, &auth.BearerAuth{Token: "k"}, errors.ErrValidation},
		{"missing name", `{"version":"1.0.0"}`, &auth.BearerAuth{Token: "k"}, errors.ErrValidation},
		{"invalid version", `{"name":"demo","version":"not-a-version"}`, &auth.BearerAuth{Token: "k"}, errors.ErrValidation},
		{"missing package.json", "", &auth.BearerAuth{Token: "k"}, errors.ErrNotFound},
		{"missing key", `{"name":"demo","version":"1.0.0"}`, nil, errors.ErrAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockClient(gomock.NewController(t))
			archiver := &recordingArchiver{inner: archive.NewManager()}
			publisher := publish.NewPublisher(client, archiver, registryURL)

			_, err := publisher.Publish(context.Background(), publish.Request{Dir: packageDir(t, tt.manifest), Authenticator: tt.auth})
			assert.ErrorIs(t, err, tt.kind)
			assert.Empty(t, archiver.path, "no archive is built")
		})
	}
}

func TestPublishFailureStillRemovesArchive(t *testing.T) {
	tests := []struct {
		name  string
		reply *model.PublishResult
		err   error
	}{
		{"network error", nil, errors.NewNetworkError("publish", 401, &errors.RegistryError{Message: "Invalid API key"}, "", nil)},
		{"unsuccessful reply", &model.PublishResult{Success: false, Error: &errors.RegistryError{Message: "Version already exists"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockClient(gomock.NewController(t))
			client.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.reply, tt.err)
			archiver := &recordingArchiver{inner: archive.NewManager()}
			publisher := publish.NewPublisher(client, archiver, registryURL)

			_, err := publisher.Publish(context.Background(), publish.Request{
				Dir:           packageDir(t, `{"name":"demo","version":"1.0.0"}`),
				Authenticator: &auth.BearerAuth{Token: "k"},
			})
			assert.ErrorIs(t, err, errors.ErrNetwork)
			require.NotEmpty(t, archiver.path)
			assert.NoFileExists(t, archiver.path)
		})
	}
}
