// Package testutil provides a fake registry and config helpers for command
// tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/glorpus-work/pack/pkg/model"
)

// Upload is one publish request received by the fake registry.
type Upload struct {
	Fields        map[string]string
	Filename      string
	Archive       []byte
	Authorization string
}

// Registry is an in-memory registry served over httptest.
type Registry struct {
	Server *httptest.Server
	URL    string

	mu      sync.Mutex
	packs   map[string]model.Descriptor
	uploads []Upload
	fetches int
	// PublishID is returned from successful publish requests.
	PublishID string
}

// NewRegistry starts a fake registry serving packs. It is closed when the
// test ends.
func NewRegistry(t *testing.T, packs ...model.Descriptor) *Registry {
	t.Helper()

	r := &Registry{packs: map[string]model.Descriptor{}, PublishID: "pub-1"}
	for _, p := range packs {
		r.packs[p.ID] = p
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/get-pack", r.getPack)
	mux.HandleFunc("/api/search", r.search)
	mux.HandleFunc("/api/publish", r.publish)

	r.Server = httptest.NewServer(mux)
	r.URL = r.Server.URL
	t.Cleanup(r.Server.Close)
	return r
}

// Fetches returns how many package fetches the registry served.
func (r *Registry) Fetches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}

// Uploads returns the publish requests received so far.
func (r *Registry) Uploads() []Upload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Upload(nil), r.uploads...)
}

func (r *Registry) getPack(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.fetches++
	pack, ok := r.packs[req.URL.Query().Get("id")]
	r.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error": map[string]any{
				"message": "Package not found",
				"code":    "PACK_NOT_FOUND",
				"details": map[string]any{"suggestions": []string{"Check the package id"}},
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, model.RegistryResponse{
		Success: true,
		Pack:    &pack,
		InstallInfo: &model.InstallInfo{
			PackCLI:   "pack install " + pack.ID,
			DirectURL: r.URL + "/cdn/" + pack.URLID,
		},
	})
}

func (r *Registry) search(w http.ResponseWriter, req *http.Request) {
	query := strings.ToLower(req.URL.Query().Get("q"))
	packageType := req.URL.Query().Get("type")

	r.mu.Lock()
	result := model.SearchResult{Packs: []model.Descriptor{}}
	for _, p := range r.packs {
		if query != "" && !strings.Contains(strings.ToLower(p.DisplayName()), query) {
			continue
		}
		if packageType != "" && p.GetType() != packageType {
			continue
		}
		result.Packs = append(result.Packs, p)
	}
	r.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (r *Registry) publish(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	upload := Upload{Fields: map[string]string{}, Authorization: req.Header.Get("Authorization")}
	for key, values := range req.MultipartForm.Value {
		upload.Fields[key] = values[0]
	}
	if file, header, err := req.FormFile("package"); err == nil {
		upload.Filename = header.Filename
		upload.Archive, _ = io.ReadAll(file)
		_ = file.Close()
	}

	r.mu.Lock()
	r.uploads = append(r.uploads, upload)
	id := r.PublishID
	r.mu.Unlock()

	writeJSON(w, http.StatusOK, model.PublishResult{Success: true, ID: id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SetupHome points PACK_HOME at a temporary directory and writes a config
// file there that targets registryURL and installs into <home>/modules.
// It returns the home directory and the config path.
func SetupHome(t *testing.T, registryURL string) (string, string) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("PACK_HOME", home)

	cfg := map[string]any{
		"registry":             registryURL,
		"default_install_path": filepath.Join(home, "modules"),
		"global_install_path":  filepath.Join(home, "global"),
		"http_timeout":         5,
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to encode test config: %v", err)
	}

	configPath := filepath.Join(home, "config.json")
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return home, configPath
}
