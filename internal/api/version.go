package api

import (
	"encoding/json"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/server"
)

// versionHandler returns the daemon's version information.
func (s *Api) versionHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	return common.UPDATE_VERSION, &common.VersionResponse{
		Version: s.version,
	}, nil
}
