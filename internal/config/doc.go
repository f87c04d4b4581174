// Package config defines the format-agnostic project model read from a
// bbmc.hcl or bbmc.yaml file, along with the Loader interface the concrete
// format packages implement.
//
// The Project is the single source of truth for the front end. Command-line
// flags are applied on top of it by the cli package.
package config
