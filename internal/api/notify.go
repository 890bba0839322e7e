package api

import (
	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/server"
	"github.com/plantd/plantd/pkg/plantlib"
)

// Notify fans engine push events out to both transports: the framed socket
// attach pool and the JSON-RPC websocket notifier. It satisfies the
// engine's Notifier interface.
type Notify struct {
	pool *server.Pool
	rpc  *server.RPCNotifier
}

func NewNotify(pool *server.Pool, rpc *server.RPCNotifier) *Notify {
	return &Notify{pool: pool, rpc: rpc}
}

func (n *Notify) PlantNeedsWater(p *plantlib.Plant) {
	if n.pool != nil {
		n.pool.Broadcast(server.MakeResult(common.UPDATE_NEEDS_WATER, &common.NeedsWaterUpdate{Plant: p}))
	}
	if n.rpc != nil {
		n.rpc.Broadcast(server.NotifyNeedsWater, &server.NeedsWaterNotification{Plant: p})
	}
}

func (n *Notify) PlantChanged(p *plantlib.Plant) {
	if n.pool != nil {
		n.pool.Broadcast(server.MakeResult(common.UPDATE_PLANT, &common.PlantUpdate{Plant: p}))
	}
	if n.rpc != nil {
		n.rpc.Broadcast(server.NotifyChanged, &server.ChangedNotification{Plant: p})
	}
}

func (n *Notify) PlantRemoved(id string) {
	if n.pool != nil {
		n.pool.Broadcast(server.MakeResult(common.UPDATE_REMOVED, &common.RemovedUpdate{PlantId: id}))
	}
	if n.rpc != nil {
		n.rpc.Broadcast(server.NotifyRemoved, &server.RemovedNotification{PlantId: id})
	}
}

// SessionChanged is pushed on login and logout.
func (n *Notify) SessionChanged(active bool, userId string) {
	if n.pool != nil {
		n.pool.Broadcast(server.MakeResult(common.UPDATE_SESSION, &common.SessionUpdate{Active: active, UserId: userId}))
	}
	if n.rpc != nil {
		n.rpc.Broadcast(server.NotifySession, &server.SessionNotification{Active: active, UserId: userId})
	}
}
