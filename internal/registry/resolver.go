package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aeither/agentscope/internal/metrics"
	"github.com/aeither/agentscope/internal/models"
)

// maxMetadataBytes bounds how much of a metadata document we will read.
// Registration files are small JSON blobs; anything larger is junk.
const maxMetadataBytes = 1 << 20

// Resolver fetches and decodes registration files from metadata URIs.
// It is the client-side fallback for agents whose metadata the indexer has
// not decoded server-side.
type Resolver struct {
	httpClient  *http.Client
	ipfsGateway string
}

// NewResolver creates a resolver that fetches ipfs:// URIs through the
// given public gateway (e.g. "https://ipfs.io/ipfs/").
func NewResolver(ipfsGateway string, timeout time.Duration) *Resolver {
	if !strings.HasSuffix(ipfsGateway, "/") {
		ipfsGateway += "/"
	}
	return &Resolver{
		httpClient:  &http.Client{Timeout: timeout},
		ipfsGateway: ipfsGateway,
	}
}

// Resolve turns a metadata URI into a normalized registration file, or nil.
// It is a total function: malformed encodings, unreachable hosts, non-JSON
// bodies and unrecognized schemes all yield nil, never an error. A nil
// result means "metadata unavailable", which callers must treat the same
// as the indexer's own null.
func (r *Resolver) Resolve(ctx context.Context, uri string) *models.RegistrationFile {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return r.count("data", r.resolveData(uri))
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return r.count("http", r.fetchJSON(ctx, uri))
	case strings.HasPrefix(uri, "ipfs://"):
		hash := strings.TrimPrefix(uri, "ipfs://")
		return r.count("ipfs", r.fetchJSON(ctx, r.ipfsGateway+hash))
	default:
		return r.count("unknown", nil)
	}
}

func (r *Resolver) count(scheme string, rf *models.RegistrationFile) *models.RegistrationFile {
	outcome := "ok"
	if rf == nil {
		outcome = "failed"
	}
	metrics.MetadataResolutions.WithLabelValues(scheme, outcome).Inc()
	return rf
}

// resolveData decodes a data: URI. Only base64 payloads are supported; the
// URI must carry a ";base64," marker.
func (r *Resolver) resolveData(uri string) *models.RegistrationFile {
	const marker = ";base64,"
	idx := strings.Index(uri, marker)
	if idx < 0 {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(uri[idx+len(marker):])
	if err != nil {
		return nil
	}
	return parseRegistrationFile(raw)
}

// fetchJSON GETs a URL and parses the body as a registration file.
func (r *Resolver) fetchJSON(ctx context.Context, url string) *models.RegistrationFile {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataBytes))
	if err != nil {
		return nil
	}
	return parseRegistrationFile(body)
}

// parseRegistrationFile maps arbitrary JSON into the fixed registration-file
// shape. Absent or empty fields come out as explicit nulls, so the result
// always has the same shape no matter what the source document contained.
func parseRegistrationFile(raw []byte) *models.RegistrationFile {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return &models.RegistrationFile{
		Name:            strField(doc, "name"),
		Description:     strField(doc, "description"),
		Image:           strField(doc, "image"),
		MCPEndpoint:     strField(doc, "mcpEndpoint"),
		A2AEndpoint:     strField(doc, "a2aEndpoint"),
		SupportedTrusts: strSliceField(doc, "supportedTrusts"),
	}
}

func strField(doc map[string]any, key string) *string {
	s, ok := doc[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func strSliceField(doc map[string]any, key string) []string {
	arr, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
