package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/server"
)

func (s *Api) loginHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.LoginParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_LOGIN, nil, err
	}
	if m.Email == "" || m.Password == "" {
		return common.UPDATE_LOGIN, nil, errors.New("email and password are required")
	}
	resp, err := s.Login(context.Background(), m.Email, m.Password)
	if err != nil {
		return common.UPDATE_LOGIN, nil, err
	}
	return common.UPDATE_LOGIN, resp, nil
}

func (s *Api) logoutHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	if err := s.Logout(context.Background()); err != nil {
		return common.UPDATE_LOGOUT, nil, err
	}
	return common.UPDATE_LOGOUT, &common.SessionUpdate{Active: false}, nil
}

func (s *Api) statusHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	st, err := s.Status()
	if err != nil {
		return common.UPDATE_STATUS, nil, err
	}
	return common.UPDATE_STATUS, st, nil
}
