package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"golang.org/x/crypto/ssh"
)

// EnsureSSHKey uploads publicKey under name and returns the key ID. An
// existing key with the same name is reused when its fingerprint matches.
func (c *RealClient) EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (int64, error) {
	parsed, _, _, _, err := ssh.ParseAuthorizedKey([]byte(publicKey))
	if err != nil {
		return 0, fmt.Errorf("failed to parse public key: %w", err)
	}
	fingerprint := ssh.FingerprintLegacyMD5(parsed)

	key, err := (&EnsureOperation[*hcloud.SSHKey, hcloud.SSHKeyCreateOpts]{
		Name:         name,
		ResourceType: "ssh key",
		Get:          c.client.SSHKey.Get,
		Create:       c.client.SSHKey.Create,
		Validate: func(existing *hcloud.SSHKey) error {
			if existing.Fingerprint != fingerprint {
				return fmt.Errorf("ssh key %s exists with fingerprint %s, want %s", name, existing.Fingerprint, fingerprint)
			}
			return nil
		},
		CreateOpts: hcloud.SSHKeyCreateOpts{
			Name:      name,
			PublicKey: publicKey,
			Labels:    labels,
		},
	}).Execute(ctx)
	if err != nil {
		return 0, err
	}

	c.lookups.mu.Lock()
	if c.sshKeyName == name {
		c.lookups.sshKey = key
	}
	c.lookups.mu.Unlock()

	return key.ID, nil
}
