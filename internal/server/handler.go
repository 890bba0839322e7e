package server

import (
	"encoding/json"

	"github.com/plantd/plantd/common"
)

// HandlerFunc defines the signature for socket request handlers.
// It receives the caller's synchronized connection, the attach pool, and the
// raw JSON message body. It returns the update type for the response, the
// response payload, and any error encountered.
type HandlerFunc func(
	conn *SyncConn,
	pool *Pool,
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
