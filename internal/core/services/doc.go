// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// ClassificationService is pure: it only reads its inputs and the immutable
// partner table. SortService, WatchService and SettingsService reach the
// filesystem, the journal and the config file through driven ports only.
package services
