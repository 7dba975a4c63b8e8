package config

import "github.com/imamik/hforge/internal/cluster"

// Supported providers.
const (
	ProviderHCloud = "hcloud"
	ProviderGCE    = "gce"
)

// Config is the root configuration of a cluster.
type Config struct {
	// Name prefixes every node name and labels every node.
	Name     string `yaml:"name"`
	Provider string `yaml:"provider"`

	Orchestrator NodeConfig    `yaml:"orchestrator"`
	Factories    FactoryConfig `yaml:"factories"`
	SSH          SSHConfig     `yaml:"ssh"`

	HCloud HCloudConfig `yaml:"hcloud,omitempty"`
	GCE    GCEConfig    `yaml:"gce,omitempty"`

	// Concurrency bounds in-flight factory creations. 0 means unbounded.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Labels are added to every node.
	Labels map[string]string `yaml:"labels,omitempty"`

	State StateConfig `yaml:"state,omitempty"`

	// MetricsFile, when set, receives provisioning metrics in Prometheus
	// text format after every run.
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// NodeConfig holds the settings of one node role.
type NodeConfig struct {
	MachineType string           `yaml:"machine_type"`
	Image       cluster.ImageRef `yaml:"image,omitempty"`
}

// FactoryConfig holds the settings shared by every factory.
type FactoryConfig struct {
	NodeConfig  `yaml:",inline"`
	Count       int                  `yaml:"count"`
	Accelerator *cluster.Accelerator `yaml:"accelerator,omitempty"`
}

// SSHConfig holds the credentials downstream orchestration connects with.
type SSHConfig struct {
	User string `yaml:"user"`
	// PrivateKey is the path of the private key file. Its public half is
	// installed on every node.
	PrivateKey string `yaml:"private_key"`
	// Generate creates the key pair when PrivateKey does not exist yet.
	Generate bool `yaml:"generate,omitempty"`
}

// HCloudConfig holds Hetzner Cloud settings. The API token is read from
// HCLOUD_TOKEN.
type HCloudConfig struct {
	Location string `yaml:"location,omitempty"`
	// Network is the private network every node is attached to.
	Network string `yaml:"network,omitempty"`
	// SSHKeyName is the name of the uploaded public key. Defaults to the
	// cluster name.
	SSHKeyName string `yaml:"ssh_key_name,omitempty"`
}

// GCEConfig holds Google Compute Engine settings.
type GCEConfig struct {
	Project string `yaml:"project,omitempty"`
	Zone    string `yaml:"zone,omitempty"`
	// CredentialsFile is a service account key. Application default
	// credentials are used when empty.
	CredentialsFile string `yaml:"credentials_file,omitempty"`
	Network         string `yaml:"network,omitempty"`
	Subnetwork      string `yaml:"subnetwork,omitempty"`
}

// StateConfig selects where the assembled topology is saved.
type StateConfig struct {
	Path string    `yaml:"path,omitempty"`
	S3   *S3Config `yaml:"s3,omitempty"`
}

// S3Config points at an S3-compatible bucket. Credentials are read from
// HFORGE_S3_ACCESS_KEY and HFORGE_S3_SECRET_KEY.
type S3Config struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
	Key      string `yaml:"key,omitempty"`
}
