package hcloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hforge/internal/cluster"
	"github.com/imamik/hforge/internal/config"
	"github.com/imamik/hforge/internal/util/labels"
)

// testServer creates an httptest server that can be used to mock Hetzner Cloud API responses.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

func newTestServer() *testServer {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	return &testServer{
		server: server,
		mux:    mux,
	}
}

func (ts *testServer) close() {
	ts.server.Close()
}

func (ts *testServer) client() *hcloud.Client {
	return hcloud.NewClient(
		hcloud.WithToken("test-token"),
		hcloud.WithEndpoint(ts.server.URL),
	)
}

// realClient returns a RealClient configured to use the test server.
func (ts *testServer) realClient() *RealClient {
	return NewRealClient("test-token",
		WithHCloudClient(ts.client()),
		WithNetwork("test-net"),
		WithSSHKey("test-key"),
		WithTimeouts(&config.Timeouts{
			NodeCreate:    10 * time.Second,
			NodeAddress:   2 * time.Second,
			Delete:        5 * time.Second,
			PollInterval:  10 * time.Millisecond,
			RetryAttempts: 3,
		}),
	)
}

func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func errorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	jsonResponse(w, statusCode, schema.ErrorResponse{
		Error: schema.Error{Code: code, Message: message},
	})
}

// handleLookups serves the network and SSH key the client resolves by name.
func (ts *testServer) handleLookups() {
	ts.handleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{
			Networks: []schema.Network{{ID: 100, Name: r.URL.Query().Get("name")}},
		})
	})
	ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{
			SSHKeys: []schema.SSHKey{{ID: 7, Name: r.URL.Query().Get("name")}},
		})
	})
}

func schemaServer(id int64, name, publicIP, privateIP string) schema.Server {
	s := schema.Server{ID: id, Name: name, Status: "running"}
	s.PublicNet.IPv4.IP = publicIP
	if privateIP != "" {
		s.PrivateNet = []schema.ServerPrivateNet{{Network: 100, IP: privateIP}}
	}
	return s
}

func testSpec() cluster.NodeSpec {
	return cluster.NodeSpec{
		Name:        "demo-factory-1",
		MachineType: "cx32",
		Image:       cluster.ImageRef{Name: "ubuntu-24.04"},
		Role:        cluster.RoleCPUFactory,
		Location:    "nbg1",
		Labels:      labels.NewLabelBuilder("demo").Build(),
	}
}

func TestRealClient_CreateNode_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()
	ts.handleLookups()

	var body map[string]any
	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		action := schema.Action{ID: 1, Status: "success", Progress: 100}
		jsonResponse(w, http.StatusCreated, schema.ServerCreateResponse{
			Server: schemaServer(42, "demo-factory-1", "", ""),
			Action: action,
		})
	})

	var polls atomic.Int32
	ts.handleFunc("/servers/42", func(w http.ResponseWriter, _ *http.Request) {
		// Addresses show up on the second poll.
		if polls.Add(1) < 2 {
			jsonResponse(w, http.StatusOK, schema.ServerGetResponse{Server: schemaServer(42, "demo-factory-1", "", "")})
			return
		}
		jsonResponse(w, http.StatusOK, schema.ServerGetResponse{
			Server: schemaServer(42, "demo-factory-1", "203.0.113.10", "10.0.0.3"),
		})
	})

	handle, err := ts.realClient().CreateNode(context.Background(), testSpec())
	require.NoError(t, err)

	assert.Equal(t, cluster.NodeHandle{
		ProviderID:     "42",
		Name:           "demo-factory-1",
		PublicAddress:  "203.0.113.10",
		PrivateAddress: "10.0.0.3",
	}, handle)
	assert.GreaterOrEqual(t, polls.Load(), int32(2))

	assert.Equal(t, "demo-factory-1", body["name"])
	assert.Equal(t, "cx32", body["server_type"])
	assert.Equal(t, "ubuntu-24.04", body["image"])
	assert.Equal(t, "nbg1", body["location"])
	assert.Equal(t, []any{float64(7)}, body["ssh_keys"])
	assert.Equal(t, []any{float64(100)}, body["networks"])

	serverLabels, ok := body["labels"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo", serverLabels[labels.KeyCluster])
	assert.Equal(t, "cpu-factory", serverLabels[labels.KeyRole])
	assert.Equal(t, labels.ManagedByHForge, serverLabels[labels.KeyManagedBy])
}

func TestRealClient_CreateNode_APIError(t *testing.T) {
	ts := newTestServer()
	defer ts.close()
	ts.handleLookups()

	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusForbidden, "resource_limit_exceeded", "server limit reached")
	})

	_, err := ts.realClient().CreateNode(context.Background(), testSpec())
	require.Error(t, err)

	var perr *cluster.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "resource_limit_exceeded", perr.Code)
	assert.Equal(t, "server limit reached", perr.Message)
}

func TestRealClient_CreateNode_FailedActionDeletesServer(t *testing.T) {
	ts := newTestServer()
	defer ts.close()
	ts.handleLookups()

	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		action := schema.Action{
			ID:     1,
			Status: "error",
			Error:  &schema.ActionError{Code: "server_create_failed", Message: "no capacity in nbg1"},
		}
		jsonResponse(w, http.StatusCreated, schema.ServerCreateResponse{
			Server: schemaServer(42, "demo-factory-1", "", ""),
			Action: action,
		})
	})

	var deleted atomic.Bool
	ts.handleFunc("/servers/42", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted.Store(true)
			jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{
				Action: schema.Action{ID: 2, Status: "success", Progress: 100},
			})
			return
		}
		if deleted.Load() {
			errorResponse(w, http.StatusNotFound, "not_found", "server not found")
			return
		}
		jsonResponse(w, http.StatusOK, schema.ServerGetResponse{Server: schemaServer(42, "demo-factory-1", "", "")})
	})

	_, err := ts.realClient().CreateNode(context.Background(), testSpec())
	require.Error(t, err)

	var perr *cluster.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "server_create_failed", perr.Code)
	assert.True(t, deleted.Load(), "server of a failed creation must be deleted")
}

func TestRealClient_CreateNode_RejectsAccelerator(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var calls atomic.Int32
	ts.handleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	spec := testSpec()
	spec.Accelerator = &cluster.Accelerator{Type: "nvidia-tesla-t4", Count: 1}

	_, err := ts.realClient().CreateNode(context.Background(), spec)

	var perr *cluster.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, CodeUnsupported, perr.Code)
	assert.Zero(t, calls.Load())
}

func TestRealClient_CreateNode_MissingNetwork(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/networks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{Networks: []schema.Network{}})
	})

	_, err := ts.realClient().CreateNode(context.Background(), testSpec())

	var perr *cluster.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, CodeNotFound, perr.Code)
	assert.Contains(t, perr.Message, "test-net")
}

func TestRealClient_DeleteNode_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var deletes atomic.Int32
	ts.handleFunc("/servers/42", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			jsonResponse(w, http.StatusOK, schema.ServerGetResponse{Server: schemaServer(42, "demo-orchestrator", "203.0.113.1", "10.0.0.2")})
		case http.MethodDelete:
			deletes.Add(1)
			jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{
				Action: schema.Action{ID: 2, Status: "success", Progress: 100},
			})
		}
	})

	err := ts.realClient().DeleteNode(context.Background(), cluster.NodeHandle{ProviderID: "42", Name: "demo-orchestrator"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), deletes.Load())
}

func TestRealClient_DeleteNode_AlreadyGone(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/servers/42", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			t.Error("delete must not be called for a missing server")
		}
		errorResponse(w, http.StatusNotFound, "not_found", "server not found")
	})

	err := ts.realClient().DeleteNode(context.Background(), cluster.NodeHandle{ProviderID: "42"})
	assert.NoError(t, err)
}

func TestRealClient_DeleteNode_FallsBackToName(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "demo-factory-2", r.URL.Query().Get("name"))
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{
			Servers: []schema.Server{schemaServer(43, "demo-factory-2", "203.0.113.5", "10.0.0.5")},
		})
	})
	var deleted atomic.Bool
	ts.handleFunc("/servers/43", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted.Store(true)
		}
		jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{
			Action: schema.Action{ID: 3, Status: "success", Progress: 100},
		})
	})

	err := ts.realClient().DeleteNode(context.Background(), cluster.NodeHandle{Name: "demo-factory-2"})
	require.NoError(t, err)
	assert.True(t, deleted.Load())
}

func TestRealClient_DeleteNode_InvalidHandle(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	err := ts.realClient().DeleteNode(context.Background(), cluster.NodeHandle{ProviderID: "not-a-number"})

	var perr *cluster.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, CodeInvalidInput, perr.Code)
}

func TestRealClient_ListNodes_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, labels.SelectorForCluster("demo"), r.URL.Query().Get("label_selector"))
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{
			Servers: []schema.Server{
				schemaServer(41, "demo-orchestrator", "203.0.113.1", "10.0.0.2"),
				schemaServer(42, "demo-factory-1", "203.0.113.2", "10.0.0.3"),
			},
		})
	})

	handles, err := ts.realClient().ListNodes(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, handles, 2)
	assert.Equal(t, "41", handles[0].ProviderID)
	assert.Equal(t, "demo-factory-1", handles[1].Name)
	assert.Equal(t, "10.0.0.3", handles[1].PrivateAddress)
}
