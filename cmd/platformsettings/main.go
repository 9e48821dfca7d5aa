// cmd/platformsettings/main.go
//
// platformsettings – command-line entry point.
//
// Commands
// --------
//
//  1. site-url  – pick the canonical site URL and write it for Drush.
//
//  2. render    – run every settings rule and print the resulting trees.
//
//  3. check     – ping the database and cache derived from relationships.
//
// Every command loads the CLI configuration, starts the logger, and builds
// one environment accessor before it runs.  Failures print a single line to
// stderr and exit 1.
package main

func main() { Execute() }
