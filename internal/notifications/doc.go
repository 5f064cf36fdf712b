// Package notifications delivers playlist generation events via ntfy.
//
// NewService publishes to the topic configured in config.toml and degrades
// to a no-op when no topic is set. The ready and errors switches in the
// [notifications] section mute the corresponding events individually.
// Workflow code depends only on the Service interface.
package notifications
