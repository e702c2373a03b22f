// Package b2 is a minimal Backblaze B2 native-API client covering the
// three calls the upload stage needs: b2_authorize_account,
// b2_get_upload_url and b2_upload_file.
package b2

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.backblazeb2.com"
	apiPrefix      = "/b2api/v2"

	// The service rejects uploads carrying more than ten info entries,
	// or info keys outside [a-zA-Z-].
	maxInfoEntries = 10
)

var infoKeyPattern = regexp.MustCompile(`^[a-zA-Z-]+$`)

// UploadCredential is the short-lived endpoint/token pair returned by
// b2_get_upload_url. The service allows only one in-flight upload per
// credential, so callers must upload serially.
type UploadCredential struct {
	UploadURL          string `json:"uploadUrl"`
	AuthorizationToken string `json:"authorizationToken"`
}

// UploadRequest describes a single file upload.
type UploadRequest struct {
	Name        string            // object key, e.g. "folder/file.jpg"
	ContentType string
	Body        []byte
	Info        map[string]string // sent as X-Bz-Info-* headers
}

// Client talks to the B2 API. Authorize must be called before
// UploadURL; Upload only needs a credential.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accountID  string
	appKey     string

	apiURL    string // returned by Authorize
	authToken string // returned by Authorize
}

// New creates a client for the given account/application-key pair.
func New(accountID, appKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    defaultBaseURL,
		accountID:  accountID,
		appKey:     appKey,
	}
}

// NewWithBaseURL points the client at an alternate API endpoint.
func NewWithBaseURL(accountID, appKey, baseURL string) *Client {
	c := New(accountID, appKey)
	c.baseURL = baseURL
	return c
}

// Authorize performs b2_authorize_account and stores the session token
// and per-account API endpoint for subsequent calls.
func (c *Client) Authorize(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+"/b2_authorize_account", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountID, c.appKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("authorize account: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authorize account: %w", responseError(resp))
	}

	var auth struct {
		APIURL             string `json:"apiUrl"`
		AuthorizationToken string `json:"authorizationToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return fmt.Errorf("authorize account: decode response: %w", err)
	}

	c.apiURL = auth.APIURL
	c.authToken = auth.AuthorizationToken
	return nil
}

// UploadURL performs b2_get_upload_url for the bucket and returns the
// credential for one serial upload session.
func (c *Client) UploadURL(ctx context.Context, bucketID string) (UploadCredential, error) {
	if c.authToken == "" {
		return UploadCredential{}, errors.New("get upload url: client not authorized")
	}

	body, err := json.Marshal(map[string]string{"bucketId": bucketID})
	if err != nil {
		return UploadCredential{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+apiPrefix+"/b2_get_upload_url", bytes.NewReader(body))
	if err != nil {
		return UploadCredential{}, err
	}
	req.Header.Set("Authorization", c.authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadCredential{}, fmt.Errorf("get upload url: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return UploadCredential{}, fmt.Errorf("get upload url: %w", responseError(resp))
	}

	var cred UploadCredential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return UploadCredential{}, fmt.Errorf("get upload url: decode response: %w", err)
	}
	return cred, nil
}

// Upload performs b2_upload_file against the credential's endpoint.
// Info entries are validated locally before any bytes go out.
func (c *Client) Upload(ctx context.Context, cred UploadCredential, r UploadRequest) error {
	if len(r.Info) > maxInfoEntries {
		return fmt.Errorf("upload %s: %d info entries exceeds limit of %d", r.Name, len(r.Info), maxInfoEntries)
	}
	for k := range r.Info {
		if !infoKeyPattern.MatchString(k) {
			return fmt.Errorf("upload %s: info key %q contains characters outside [a-zA-Z-]", r.Name, k)
		}
	}

	sum := sha1.Sum(r.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cred.UploadURL, bytes.NewReader(r.Body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", cred.AuthorizationToken)
	req.Header.Set("X-Bz-File-Name", encodeFileName(r.Name))
	req.Header.Set("Content-Type", r.ContentType)
	req.Header.Set("X-Bz-Content-Sha1", hex.EncodeToString(sum[:]))
	for k, v := range r.Info {
		req.Header.Set("X-Bz-Info-"+k, v)
	}
	req.ContentLength = int64(len(r.Body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", r.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload %s: %w", r.Name, responseError(resp))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// encodeFileName percent-encodes each path segment while keeping the
// separators, as the upload API requires.
func encodeFileName(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("b2 api error %d (%s): %s", e.Status, e.Code, e.Message)
}

func responseError(resp *http.Response) error {
	var e apiError
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Status == 0 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return &e
}
