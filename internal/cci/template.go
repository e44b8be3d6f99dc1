package cci

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template is a saved set of create options, keyed by the long flag names
// of "cci create". Templates hold flag values, not resolved IDs, so SSH keys
// are stored by label.
type Template struct {
	Hostname    string   `yaml:"hostname,omitempty"`
	Domain      string   `yaml:"domain,omitempty"`
	CPU         int      `yaml:"cpu,omitempty"`
	Memory      string   `yaml:"memory,omitempty"`
	Hourly      bool     `yaml:"hourly,omitempty"`
	Monthly     bool     `yaml:"monthly,omitempty"`
	OS          string   `yaml:"os,omitempty"`
	Image       string   `yaml:"image,omitempty"`
	Datacenter  string   `yaml:"datacenter,omitempty"`
	Dedicated   bool     `yaml:"dedicated,omitempty"`
	Private     bool     `yaml:"private,omitempty"`
	SAN         bool     `yaml:"san,omitempty"`
	Network     int      `yaml:"network,omitempty"`
	Disk        []int    `yaml:"disk,omitempty"`
	Key         []string `yaml:"key,omitempty"`
	UserData    string   `yaml:"userdata,omitempty"`
	UserFile    string   `yaml:"userfile,omitempty"`
	PostInstall string   `yaml:"postinstall,omitempty"`
	VlanPublic  int      `yaml:"vlan-public,omitempty"`
	VlanPrivate int      `yaml:"vlan-private,omitempty"`
}

// LoadTemplate reads a template file.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	return &tmpl, nil
}

// Save writes the template to path.
func (t *Template) Save(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write template %s: %w", path, err)
	}
	return nil
}
