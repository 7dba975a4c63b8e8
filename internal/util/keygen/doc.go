// Package keygen generates and loads the SSH key pair installed on every
// node.
//
// Keys are ed25519. The private key is written in OpenSSH format with mode
// 0600, the public key next to it in authorized_keys format with a .pub
// suffix.
package keygen
