package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) (*Resolver, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewResolver(srv.URL+"/ipfs/", 2*time.Second), srv.URL
}

func TestResolve_DataURI(t *testing.T) {
	r := NewResolver("https://ipfs.io/ipfs/", time.Second)

	// {"name":"X"}
	rf := r.Resolve(context.Background(), "data:application/json;base64,eyJuYW1lIjoiWCJ9")
	require.NotNil(t, rf)
	require.NotNil(t, rf.Name)
	assert.Equal(t, "X", *rf.Name)
	assert.Nil(t, rf.Description)
	assert.Nil(t, rf.Image)
	assert.Nil(t, rf.MCPEndpoint)
	assert.Nil(t, rf.A2AEndpoint)
	assert.Nil(t, rf.SupportedTrusts)
}

func TestResolve_DataURIFailures(t *testing.T) {
	r := NewResolver("https://ipfs.io/ipfs/", time.Second)

	tests := []struct {
		name string
		uri  string
	}{
		{"missing base64 marker", "data:application/json,eyJuYW1lIjoiWCJ9"},
		{"invalid base64", "data:application/json;base64,!!!not-base64!!!"},
		{"valid base64, not json", "data:application/json;base64,bm90IGpzb24="},
		{"json but not an object", "data:application/json;base64,WzEsMl0="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, r.Resolve(context.Background(), tt.uri))
		})
	}
}

func TestResolve_HTTP(t *testing.T) {
	r, baseURL := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/meta.json":
			w.Write([]byte(`{"name": "Helper", "description": "does things", "mcpEndpoint": "https://mcp.example.com", "supportedTrusts": ["reputation", "crypto-economic"]}`))
		case "/broken.json":
			w.Write([]byte(`{{{`))
		default:
			http.NotFound(w, req)
		}
	})

	rf := r.Resolve(context.Background(), baseURL+"/meta.json")
	require.NotNil(t, rf)
	assert.Equal(t, "Helper", *rf.Name)
	assert.Equal(t, "does things", *rf.Description)
	assert.Equal(t, "https://mcp.example.com", *rf.MCPEndpoint)
	assert.Nil(t, rf.A2AEndpoint)
	assert.Equal(t, []string{"reputation", "crypto-economic"}, rf.SupportedTrusts)

	assert.Nil(t, r.Resolve(context.Background(), baseURL+"/missing.json"), "404 resolves to nil")
	assert.Nil(t, r.Resolve(context.Background(), baseURL+"/broken.json"), "non-JSON body resolves to nil")
}

func TestResolve_IPFSGateway(t *testing.T) {
	var gotPath string
	r, _ := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		w.Write([]byte(`{"name": "ipfs agent"}`))
	})

	rf := r.Resolve(context.Background(), "ipfs://QmTestHash123")
	require.NotNil(t, rf)
	assert.Equal(t, "ipfs agent", *rf.Name)
	assert.Equal(t, "/ipfs/QmTestHash123", gotPath)
}

func TestResolve_UnknownScheme(t *testing.T) {
	r := NewResolver("https://ipfs.io/ipfs/", time.Second)

	assert.Nil(t, r.Resolve(context.Background(), "ar://some-arweave-hash"))
	assert.Nil(t, r.Resolve(context.Background(), "ftp://host/file"))
	assert.Nil(t, r.Resolve(context.Background(), ""))
}

func TestResolve_UnreachableHost(t *testing.T) {
	r := NewResolver("http://127.0.0.1:1/ipfs/", 200*time.Millisecond)

	assert.Nil(t, r.Resolve(context.Background(), "http://127.0.0.1:1/meta.json"))
	assert.Nil(t, r.Resolve(context.Background(), "ipfs://QmHash"))
}

func TestParseRegistrationFile_FalsyFieldsBecomeNull(t *testing.T) {
	rf := parseRegistrationFile([]byte(`{"name": "", "description": 42, "image": null, "extra": "ignored"}`))
	require.NotNil(t, rf)
	assert.Nil(t, rf.Name, "empty string is falsy")
	assert.Nil(t, rf.Description, "non-string is discarded")
	assert.Nil(t, rf.Image)
	assert.Nil(t, rf.MCPEndpoint)
	assert.Nil(t, rf.SupportedTrusts)
}

func TestParseRegistrationFile_MixedTrustsArray(t *testing.T) {
	rf := parseRegistrationFile([]byte(`{"supportedTrusts": ["tee-attestation", 7, "reputation"]}`))
	require.NotNil(t, rf)
	assert.Equal(t, []string{"tee-attestation", "reputation"}, rf.SupportedTrusts)
}
