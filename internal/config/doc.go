// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. JSON config file (path taken from the CLIPSYNC_CONFIG variable)
//  3. Built-in defaults
//
// The main entry point is [GetConfig], which returns the merged and
// validated [Config] used to wire the sync subsystem.
package config
