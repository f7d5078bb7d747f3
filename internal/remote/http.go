package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-clip-sync/internal/auth"
	"github.com/MKhiriev/go-clip-sync/models"
	"github.com/go-resty/resty/v2"
)

// HTTPStoreConfig configures the drive-style REST backend.
type HTTPStoreConfig struct {
	// BaseURL is the API root, e.g. https://drive.example.com/api.
	BaseURL string
	// Folder is the app-private folder all files live in. The folder is
	// invisible in the provider's general file browser.
	Folder  string
	Timeout time.Duration
}

type httpRemoteStore struct {
	client *resty.Client
	folder string
	creds  auth.CredentialManager
}

// NewHTTPRemoteStore constructs a [RemoteStore] over a drive-style REST API:
// files are JSON resources under /files, addressed by an opaque id, with
// content uploaded inline (base64 inside the JSON envelope).
func NewHTTPRemoteStore(cfg HTTPStoreConfig, creds auth.CredentialManager) RemoteStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpRemoteStore{client: cli, folder: cfg.Folder, creds: creds}
}

// upsertRequest is the JSON envelope for file creation and update. Content
// travels base64-encoded, which encoding/json does for []byte automatically.
type upsertRequest struct {
	Name    string `json:"name"`
	Folder  string `json:"folder,omitempty"`
	Content []byte `json:"content"`
}

func (h *httpRemoteStore) UpsertFile(ctx context.Context, name string, content []byte, existingID string) (models.FileRef, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.FileRef{}, err
	}
	req.SetHeader("Content-Type", "application/json")

	var resp *resty.Response
	if existingID != "" {
		resp, err = req.
			SetBody(upsertRequest{Name: name, Content: content}).
			Put("/files/" + existingID)
	} else {
		resp, err = req.
			SetBody(upsertRequest{Name: name, Folder: h.folder, Content: content}).
			Post("/files")
	}
	if err != nil {
		return models.FileRef{}, fmt.Errorf("upsert file request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.FileRef{}, err
	}

	var ref models.FileRef
	if err = json.Unmarshal(resp.Body(), &ref); err != nil {
		return models.FileRef{}, fmt.Errorf("decode upsert response: %w", err)
	}
	return ref, nil
}

func (h *httpRemoteStore) ReadFile(ctx context.Context, id string) ([]byte, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get("/files/" + id + "/content")
	if err != nil {
		return nil, fmt.Errorf("read file request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

func (h *httpRemoteStore) FindFile(ctx context.Context, name string) (*models.FileRef, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetQueryParam("folder", h.folder).
		SetQueryParam("name", name).
		Get("/files")
	if err != nil {
		return nil, fmt.Errorf("find file request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var refs []models.FileRef
	if err = json.Unmarshal(resp.Body(), &refs); err != nil {
		return nil, fmt.Errorf("decode find response: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return &refs[0], nil
}

func (h *httpRemoteStore) ListFiles(ctx context.Context) ([]models.FileRef, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetQueryParam("folder", h.folder).
		Get("/files")
	if err != nil {
		return nil, fmt.Errorf("list files request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var refs []models.FileRef
	if err = json.Unmarshal(resp.Body(), &refs); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return refs, nil
}

func (h *httpRemoteStore) DeleteFile(ctx context.Context, id string) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete("/files/" + id)
	if err != nil {
		return fmt.Errorf("delete file request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		// Already gone — deletion is idempotent.
		return nil
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) IsAuthenticated() bool {
	return h.creds.IsAuthenticated()
}

func (h *httpRemoteStore) UserEmail() string {
	return h.creds.UserEmail()
}

// authedRequest builds a request carrying a fresh bearer token obtained from
// the credential manager. Token refresh happens inside the manager; this
// adapter never caches credentials itself.
func (h *httpRemoteStore) authedRequest(ctx context.Context) (*resty.Request, error) {
	token, err := h.creds.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain access token: %w", err)
	}
	return h.client.R().SetContext(ctx).SetAuthToken(token), nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrFileNotFound
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("remote http %d: %s", resp.StatusCode(), body)
}
