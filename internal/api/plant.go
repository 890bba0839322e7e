package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/server"
)

func (s *Api) getHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputPlantId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_GET, nil, err
	}
	if m.PlantId == "" {
		return common.UPDATE_GET, nil, errors.New("plant_id is required")
	}
	p, err := s.Get(m.PlantId)
	if err != nil {
		return common.UPDATE_GET, nil, err
	}
	return common.UPDATE_GET, &common.PlantResponse{Plant: p}, nil
}

func (s *Api) addHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.AddPlantParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_ADD, nil, err
	}
	p, err := s.Add(context.Background(), &m)
	if err != nil {
		return common.UPDATE_ADD, nil, err
	}
	return common.UPDATE_ADD, &common.PlantResponse{Plant: p}, nil
}

func (s *Api) removeHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputPlantId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_REMOVE, nil, err
	}
	if m.PlantId == "" {
		return common.UPDATE_REMOVE, nil, errors.New("plant_id is required")
	}
	if err := s.Remove(context.Background(), m.PlantId); err != nil {
		return common.UPDATE_REMOVE, nil, err
	}
	return common.UPDATE_REMOVE, &common.RemovedUpdate{PlantId: m.PlantId}, nil
}

func (s *Api) waterHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.WaterParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_WATER, nil, err
	}
	if m.PlantId == "" {
		return common.UPDATE_WATER, nil, errors.New("plant_id is required")
	}
	p, err := s.Water(context.Background(), m.PlantId)
	if err != nil {
		return common.UPDATE_WATER, nil, err
	}
	return common.UPDATE_WATER, &common.PlantResponse{Plant: p}, nil
}

func (s *Api) editHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.UpdatePlantParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_EDIT, nil, err
	}
	if m.PlantId == "" {
		return common.UPDATE_EDIT, nil, errors.New("plant_id is required")
	}
	if len(m.Fields) == 0 {
		return common.UPDATE_EDIT, nil, errors.New("fields is required")
	}
	p, err := s.Update(context.Background(), m.PlantId, m.Fields)
	if err != nil {
		return common.UPDATE_EDIT, nil, err
	}
	return common.UPDATE_EDIT, &common.PlantResponse{Plant: p}, nil
}

func (s *Api) scheduleHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ScheduleParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_SCHEDULE, nil, err
	}
	if m.PlantId == "" {
		return common.UPDATE_SCHEDULE, nil, errors.New("plant_id is required")
	}
	p, err := s.SetSchedule(context.Background(), m.PlantId, m.Schedule)
	if err != nil {
		return common.UPDATE_SCHEDULE, nil, err
	}
	return common.UPDATE_SCHEDULE, &common.PlantResponse{Plant: p}, nil
}

func (s *Api) focusHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.FocusParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_FOCUS, nil, err
	}
	if err := s.Focus(m.PlantId); err != nil {
		return common.UPDATE_FOCUS, nil, err
	}
	return common.UPDATE_FOCUS, &common.InputPlantId{PlantId: m.PlantId}, nil
}
