// Package hcl provides the HCL implementation of config.Loader. It parses a
// bbmc.hcl project file, evaluates its expressions with a small function
// library, and translates the result into the config.Project model.
package hcl
