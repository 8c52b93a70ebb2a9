// Package appid holds the static identity of the staffsearch binary: names used for
// the CLI, the config file lookup and the environment variable prefix.
package appid

import "strings"

// Identity describes how the application presents itself.
type Identity struct {
	BinaryName  string
	ConfigName  string
	EnvPrefix   string
	Description string
	Namespace   string
}

var identity = Identity{
	BinaryName:  "staffsearch",
	ConfigName:  "staffsearch",
	EnvPrefix:   "STAFFSEARCH",
	Description: "Employee directory search API",
	Namespace:   "staffsearch",
}

// Get returns the application identity.
func Get() *Identity {
	id := identity
	return &id
}

// EnvVar returns the fully prefixed environment variable name for key.
func (i *Identity) EnvVar(key string) string {
	prefix := strings.TrimSuffix(i.EnvPrefix, "_")
	return prefix + "_" + strings.ToUpper(key)
}

// TelemetryNamespace returns the metric namespace, falling back to the binary name.
func (i *Identity) TelemetryNamespace() string {
	if strings.TrimSpace(i.Namespace) != "" {
		return i.Namespace
	}
	return i.BinaryName
}
