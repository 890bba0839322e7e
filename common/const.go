package common

// MaxMessageSize caps a single framed message on the client socket.
const MaxMessageSize = 4 << 20

// TCPHost is the interface the TCP fallback listener binds to.
const TCPHost = "localhost"

// DefaultTCPPort is the TCP fallback port when the Unix socket is
// unavailable.
const DefaultTCPPort = 4426

type UpdateType string

const (
	// Request methods.
	UPDATE_LIST     UpdateType = "list"
	UPDATE_GET      UpdateType = "get"
	UPDATE_ADD      UpdateType = "add"
	UPDATE_REMOVE   UpdateType = "remove"
	UPDATE_WATER    UpdateType = "water"
	UPDATE_EDIT     UpdateType = "edit"
	UPDATE_SCHEDULE UpdateType = "schedule"
	UPDATE_FOCUS    UpdateType = "focus"
	UPDATE_ATTACH   UpdateType = "attach"
	UPDATE_LOGIN    UpdateType = "login"
	UPDATE_LOGOUT   UpdateType = "logout"
	UPDATE_STATUS   UpdateType = "status"
	UPDATE_VERSION  UpdateType = "version"

	// Push update types broadcast to attached clients.
	UPDATE_PLANT       UpdateType = "plant"
	UPDATE_NEEDS_WATER UpdateType = "needs_water"
	UPDATE_REMOVED     UpdateType = "removed"
	UPDATE_SESSION     UpdateType = "session"
)
