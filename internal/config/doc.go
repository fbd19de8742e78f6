// Package config provides configuration loading, merging, and validation
// facilities for the whispee client and server.
//
// Configuration is assembled from multiple sources. Sources are merged with
// mergo, so the first source that sets a field wins:
//  1. Environment variables
//  2. Command-line flags
//  3. Config file (JSON, or YAML for .yaml/.yml paths)
//  4. Built-in defaults
//
// The main entry points are [GetClientConfig] and [GetServerConfig], which
// return validated, role-specific views of the merged [StructuredConfig].
package config
