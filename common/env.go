// Package common provides shared types and constants used across the plantd
// client-server communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for custom socket path.
	SocketPathEnv = "PLANTD_SOCKET_PATH"

	// TCPPortEnv is the environment variable for custom TCP port.
	TCPPortEnv = "PLANTD_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "PLANTD_FORCE_TCP"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "PLANTD_DEBUG"

	// ConfigDirEnv overrides the daemon config directory.
	ConfigDirEnv = "PLANTD_CONFIG_DIR"

	// StoreURLEnv overrides the remote store base URL.
	StoreURLEnv = "PLANTD_STORE_URL"

	// APIKeyEnv overrides the remote store API key.
	APIKeyEnv = "PLANTD_API_KEY"

	// PollIntervalEnv overrides the reconcile poll interval, in seconds.
	PollIntervalEnv = "PLANTD_POLL_INTERVAL"

	// RPCPortEnv overrides the websocket RPC port.
	RPCPortEnv = "PLANTD_RPC_PORT"

	// RPCSecretEnv overrides the websocket RPC shared secret.
	RPCSecretEnv = "PLANTD_RPC_SECRET"

	// AlertsEnv toggles desktop alert notifications.
	AlertsEnv = "PLANTD_ALERTS"
)
