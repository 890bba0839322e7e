package server

import (
	"context"
	"errors"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/engine"
	"github.com/plantd/plantd/pkg/plantlib"
)

// Custom JSON-RPC error codes for plant operations.
const (
	codePlantNotFound = jrpc2.Code(-32001)
	codeNoSession     = jrpc2.Code(-32002)
	codeInvalidParams = jrpc2.Code(-32602)
)

// Service is the daemon surface exposed to both transports: the framed
// socket handlers and the JSON-RPC bridge.
type Service interface {
	List(needsWaterOnly bool) ([]*plantlib.Plant, error)
	Get(id string) (*plantlib.Plant, error)
	Add(ctx context.Context, params *common.AddPlantParams) (*plantlib.Plant, error)
	Remove(ctx context.Context, id string) error
	Water(ctx context.Context, id string) (*plantlib.Plant, error)
	Update(ctx context.Context, id string, fields map[string]any) (*plantlib.Plant, error)
	SetSchedule(ctx context.Context, id string, schedule []string) (*plantlib.Plant, error)
	Focus(id string) error
	Status() (*common.StatusResponse, error)
	Login(ctx context.Context, email, password string) (*common.LoginResponse, error)
	Logout(ctx context.Context) error
}

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means RPC disabled)
	Version   string // Daemon version
	BuildType string // Build type
}

// RPCServer manages the JSON-RPC 2.0 bridge and method handlers.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	notifier  *RPCNotifier
	secret    string
	version   string
	buildType string
	svc       Service
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	BuildType string `json:"buildType,omitempty"`
}

// PlantIdParam is a common input with just a plant id.
type PlantIdParam struct {
	Id string `json:"id"`
}

// ListRPCParams is the input for plant.list.
type ListRPCParams struct {
	NeedsWaterOnly bool `json:"needsWaterOnly,omitempty"`
}

// ListRPCResult is the response for plant.list.
type ListRPCResult struct {
	Plants []*plantlib.Plant `json:"plants"`
}

// UpdateRPCParams is the input for plant.update.
type UpdateRPCParams struct {
	Id     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// ScheduleRPCParams is the input for plant.setSchedule.
type ScheduleRPCParams struct {
	Id       string   `json:"id"`
	Schedule []string `json:"schedule"`
}

// LoginRPCParams is the input for session.login.
type LoginRPCParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates a new RPCServer with method handlers and HTTP
// bridge.
func NewRPCServer(cfg *RPCConfig, svc Service, notifier *RPCNotifier) *RPCServer {
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		buildType: cfg.BuildType,
		svc:       svc,
		notifier:  notifier,
	}

	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"plant.list":        handler.New(rs.plantList),
		"plant.get":         handler.New(rs.plantGet),
		"plant.add":         handler.New(rs.plantAdd),
		"plant.remove":      handler.New(rs.plantRemove),
		"plant.water":       handler.New(rs.plantWater),
		"plant.update":      handler.New(rs.plantUpdate),
		"plant.setSchedule": handler.New(rs.plantSetSchedule),
		"plant.focus":       handler.New(rs.plantFocus),
		"session.login":     handler.New(rs.sessionLogin),
		"session.logout":    handler.New(rs.sessionLogout),
		"session.status":    handler.New(rs.sessionStatus),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		BuildType: rs.buildType,
	}, nil
}

func (rs *RPCServer) plantList(_ context.Context, p *ListRPCParams) (*ListRPCResult, error) {
	plants, err := rs.svc.List(p.NeedsWaterOnly)
	if err != nil {
		return nil, rpcError(err)
	}
	return &ListRPCResult{Plants: plants}, nil
}

func (rs *RPCServer) plantGet(_ context.Context, p *PlantIdParam) (*plantlib.Plant, error) {
	if p.Id == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: id"}
	}
	plant, err := rs.svc.Get(p.Id)
	if err != nil {
		return nil, rpcError(err)
	}
	return plant, nil
}

func (rs *RPCServer) plantAdd(ctx context.Context, p *common.AddPlantParams) (*plantlib.Plant, error) {
	if p.Name == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: name"}
	}
	plant, err := rs.svc.Add(ctx, p)
	if err != nil {
		return nil, rpcError(err)
	}
	return plant, nil
}

func (rs *RPCServer) plantRemove(ctx context.Context, p *PlantIdParam) (*EmptyResult, error) {
	if p.Id == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: id"}
	}
	if err := rs.svc.Remove(ctx, p.Id); err != nil {
		return nil, rpcError(err)
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) plantWater(ctx context.Context, p *PlantIdParam) (*plantlib.Plant, error) {
	if p.Id == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: id"}
	}
	plant, err := rs.svc.Water(ctx, p.Id)
	if err != nil {
		return nil, rpcError(err)
	}
	return plant, nil
}

func (rs *RPCServer) plantUpdate(ctx context.Context, p *UpdateRPCParams) (*plantlib.Plant, error) {
	if p.Id == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: id"}
	}
	if len(p.Fields) == 0 {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: fields"}
	}
	plant, err := rs.svc.Update(ctx, p.Id, p.Fields)
	if err != nil {
		return nil, rpcError(err)
	}
	return plant, nil
}

func (rs *RPCServer) plantSetSchedule(ctx context.Context, p *ScheduleRPCParams) (*plantlib.Plant, error) {
	if p.Id == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: id"}
	}
	plant, err := rs.svc.SetSchedule(ctx, p.Id, p.Schedule)
	if err != nil {
		return nil, rpcError(err)
	}
	return plant, nil
}

func (rs *RPCServer) plantFocus(_ context.Context, p *PlantIdParam) (*EmptyResult, error) {
	if err := rs.svc.Focus(p.Id); err != nil {
		return nil, rpcError(err)
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) sessionLogin(ctx context.Context, p *LoginRPCParams) (*common.LoginResponse, error) {
	if p.Email == "" || p.Password == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required params: email, password"}
	}
	resp, err := rs.svc.Login(ctx, p.Email, p.Password)
	if err != nil {
		return nil, rpcError(err)
	}
	return resp, nil
}

func (rs *RPCServer) sessionLogout(ctx context.Context) (*EmptyResult, error) {
	if err := rs.svc.Logout(ctx); err != nil {
		return nil, rpcError(err)
	}
	return &EmptyResult{}, nil
}

func (rs *RPCServer) sessionStatus(_ context.Context) (*common.StatusResponse, error) {
	st, err := rs.svc.Status()
	if err != nil {
		return nil, rpcError(err)
	}
	return st, nil
}

// rpcError maps service errors onto JSON-RPC error codes.
func rpcError(err error) error {
	switch {
	case errors.Is(err, engine.ErrUnknownPlant):
		return &jrpc2.Error{Code: codePlantNotFound, Message: "plant not found"}
	case errors.Is(err, engine.ErrNoSession):
		return &jrpc2.Error{Code: codeNoSession, Message: "no active session"}
	default:
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
