package api

import (
	"encoding/json"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/server"
)

// attachHandler subscribes the caller's connection to push updates. The
// current collection is returned so the client starts from a complete
// snapshot; everything after that arrives as broadcasts.
func (s *Api) attachHandler(sconn *server.SyncConn, pool *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	items, err := s.List(false)
	if err != nil {
		return common.UPDATE_ATTACH, nil, err
	}
	pool.Attach(sconn)
	return common.UPDATE_ATTACH, &common.ListResponse{Items: items}, nil
}
