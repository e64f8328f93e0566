// Package utils holds small file helpers shared by the config and registry
// stores.
package utils
