// Package connectors holds the adapters that reach the places EDI files
// arrive in and leave from.
//
// The filesystem connector implements driven.StagingArea and driven.Mover
// over local directories: the staging directory a transport writes into,
// and the inbound and quarantine directories files are sorted to.
package connectors
