package profile

import (
	"fmt"
	"regexp"
)

// EnvVar overrides the current profile.
const EnvVar = "SL_PROFILE"

const maxNameLength = 63

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$|^[a-z0-9]$`)

// Settings are optional per-profile overrides of global defaults.
type Settings struct {
	// Output is the default output format (table, pretty, json, yaml).
	Output string `yaml:"output,omitempty"`
}

// Profile is a named set of SoftLayer credentials.
type Profile struct {
	Name        string    `yaml:"name"`
	Username    string    `yaml:"username,omitempty"`
	APIKey      string    `yaml:"api-key,omitempty"`
	AccessToken string    `yaml:"access-token,omitempty"`
	Endpoint    string    `yaml:"endpoint,omitempty"`
	Settings    *Settings `yaml:"settings,omitempty"`
}

// HasCredentials reports whether p can authenticate on its own.
func (p *Profile) HasCredentials() bool {
	return p.AccessToken != "" || (p.Username != "" && p.APIKey != "")
}

// Validate checks the name and that credentials are complete.
func (p *Profile) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if !p.HasCredentials() {
		return fmt.Errorf("profile %q needs a username and API key, or an access token", p.Name)
	}
	return nil
}

// File is the root of profiles.yaml.
type File struct {
	CurrentProfile string    `yaml:"current-profile,omitempty"`
	Profiles       []Profile `yaml:"profiles,omitempty"`
}

// NotFoundError is returned when a named profile does not exist.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile %q not found", e.Name)
}

// ValidateName checks a profile name: 1 to 63 lowercase letters, digits or
// hyphens, starting and ending with a letter or digit.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("profile name cannot exceed %d characters", maxNameLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("profile name must contain only lowercase letters, numbers, and hyphens, and must start and end with an alphanumeric character")
	}
	return nil
}

// Get returns the named profile or nil.
func (f *File) Get(name string) *Profile {
	for i := range f.Profiles {
		if f.Profiles[i].Name == name {
			return &f.Profiles[i]
		}
	}
	return nil
}

// Has reports whether the named profile exists.
func (f *File) Has(name string) bool {
	return f.Get(name) != nil
}

// Put adds p, replacing any profile of the same name in place.
func (f *File) Put(p Profile) {
	if existing := f.Get(p.Name); existing != nil {
		*existing = p
		return
	}
	f.Profiles = append(f.Profiles, p)
}

// Remove deletes the named profile and clears CurrentProfile if it pointed
// there. It reports whether anything was removed.
func (f *File) Remove(name string) bool {
	for i := range f.Profiles {
		if f.Profiles[i].Name != name {
			continue
		}
		f.Profiles = append(f.Profiles[:i], f.Profiles[i+1:]...)
		if f.CurrentProfile == name {
			f.CurrentProfile = ""
		}
		return true
	}
	return false
}
