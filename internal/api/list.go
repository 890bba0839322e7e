package api

import (
	"encoding/json"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/server"
)

func (s *Api) listHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ListParams
	if len(body) > 0 {
		if err := json.Unmarshal(body, &m); err != nil {
			return common.UPDATE_LIST, nil, err
		}
	}
	items, err := s.List(m.NeedsWaterOnly)
	if err != nil {
		return common.UPDATE_LIST, nil, err
	}
	return common.UPDATE_LIST, &common.ListResponse{Items: items}, nil
}
