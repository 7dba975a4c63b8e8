package hcloud

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func testPublicKey(t *testing.T) (string, string) {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return string(ssh.MarshalAuthorizedKey(sshPub)), ssh.FingerprintLegacyMD5(sshPub)
}

func TestRealClient_EnsureSSHKey_Creates(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	publicKey, _ := testPublicKey(t)

	var created map[string]any
	ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			jsonResponse(w, http.StatusCreated, schema.SSHKeyCreateResponse{
				SSHKey: schema.SSHKey{ID: 9, Name: "demo"},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{SSHKeys: []schema.SSHKey{}})
	})

	id, err := ts.realClient().EnsureSSHKey(context.Background(), "demo", publicKey, map[string]string{"hforge.io/cluster": "demo"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.Equal(t, "demo", created["name"])
	assert.Equal(t, publicKey, created["public_key"])
}

func TestRealClient_EnsureSSHKey_ReusesMatchingKey(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	publicKey, fingerprint := testPublicKey(t)

	ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			t.Error("existing key must not be re-created")
		}
		jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{
			SSHKeys: []schema.SSHKey{{ID: 5, Name: "test-key", Fingerprint: fingerprint, PublicKey: publicKey}},
		})
	})

	client := ts.realClient()
	id, err := client.EnsureSSHKey(context.Background(), "test-key", publicKey, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	// The ensured key is cached for server creation.
	key, err := client.resolveSSHKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), key.ID)
}

func TestRealClient_EnsureSSHKey_FingerprintMismatch(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	publicKey, _ := testPublicKey(t)

	ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{
			SSHKeys: []schema.SSHKey{{ID: 5, Name: "demo", Fingerprint: "00:11:22"}},
		})
	})

	_, err := ts.realClient().EnsureSSHKey(context.Background(), "demo", publicKey, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exists with fingerprint 00:11:22")
}

func TestRealClient_EnsureSSHKey_InvalidKey(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	_, err := ts.realClient().EnsureSSHKey(context.Background(), "demo", "not a key", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse public key")
}
