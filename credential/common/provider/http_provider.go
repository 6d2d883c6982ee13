package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
)

// Config holds package configuration.
var config = struct {
	BaseURL string
}{
	BaseURL: "https://did.zkid.app/api/v1",
}

// Init initializes the package with a base URL.
func Init(baseURL string) {
	if baseURL != "" {
		config.BaseURL = baseURL
	}
}

// httpProvider resolves DIDs and schemas from an HTTP endpoint.
type httpProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider backed by the given base URL, or the
// package default when baseURL is empty. Requests are traced via otelhttp.
func NewHTTPProvider(baseURL string) interface {
	DIDResolver
	SchemaResolver
} {
	if baseURL == "" {
		baseURL = config.BaseURL
	}
	return &httpProvider{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (p *httpProvider) Resolve(ctx context.Context, did string) (*model.DIDDocument, error) {
	var doc model.DIDDocument
	if err := p.getJSON(ctx, p.baseURL+"/did/"+url.PathEscape(did), &doc); err != nil {
		return nil, fmt.Errorf("failed to resolve DID %q: %w", did, err)
	}
	return &doc, nil
}

func (p *httpProvider) ResolveSchema(ctx context.Context, id string) (*model.SchemaDocument, error) {
	var doc model.SchemaDocument
	if err := p.getJSON(ctx, p.baseURL+"/ctype/"+url.PathEscape(id), &doc); err != nil {
		return nil, fmt.Errorf("failed to resolve ctype %q: %w", id, err)
	}
	return &doc, nil
}

func (p *httpProvider) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResolution, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: endpoint returned %s", ErrResolution, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResolution, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrResolution, err)
	}

	return nil
}
