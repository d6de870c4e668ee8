// Package amfctx collects the process-wide wiring this core's subsystems
// need, replacing the original's global singletons (control block, DB
// handles, IMM handle) with one explicitly constructed struct passed
// through every subsystem (Design Note "global singletons"). Init and
// teardown follow the Design Note's ordering: bus, then the configuration
// store connection, then the Checkpoint Replicator, then the Entity
// Model's population, then the Assignment/Admin-op/Lifecycle engines.
package amfctx

import (
	"context"
	"fmt"

	"amfcore/internal/adminop"
	"amfcore/internal/assignment"
	"amfcore/internal/bus"
	"amfcore/internal/checkpoint"
	"amfcore/internal/cld"
	"amfcore/internal/configadapter"
	"amfcore/internal/model"
	"amfcore/internal/ntf"
	"amfcore/pkg/logging"
)

// Role is this process's side of the AvD-AvD pair (spec §4.6 "roles:
// ACTIVE produces records, STANDBY consumes").
type Role int

const (
	RoleActive Role = iota
	RoleStandby
)

func (r Role) String() string {
	if r == RoleStandby {
		return "STANDBY"
	}
	return "ACTIVE"
}

// Config is the fixed set of tunables a caller supplies at startup; every
// other field of Context is derived from these during New.
type Config struct {
	// SelfDest is this node's virtual bus destination (spec §4.7).
	SelfDest string
	// PeerDest is the other Director's virtual bus destination; empty in
	// single-node / test configurations where there is no peer yet.
	PeerDest string
	// Role picks ACTIVE or STANDBY wiring.
	Role Role
	// CLDWorkerCapacity sizes the Component Lifecycle Driver's bounded
	// background worker pool (spec §5's "large bounded semaphore").
	CLDWorkerCapacity int64
	// InitialObjects seeds the Entity Model via configadapter.LoadInitial,
	// in the same containment order the spec's initial-load class order
	// requires (spec §4.2).
	InitialObjects []configadapter.Object
}

// Context is the process-wide struct every subsystem is handed, replacing
// the original's global singletons.
type Context struct {
	Config Config

	Bus         *bus.LocalTransport
	Model       *model.Model
	Notify      *ntf.Service
	RuntimeSink *configadapter.RuntimeSink
	Registry    map[configadapter.ObjectClass]configadapter.Handler

	Replicator *checkpoint.Replicator // non-nil only when Role == RoleActive
	Standby    *checkpoint.Standby    // non-nil only when Role == RoleStandby

	Assignment *assignment.Engine
	CLD        *cld.Engine
	AdminOp    *adminop.Engine
}

// New builds a fully wired Context and performs the initial configuration
// load. It does not start any background goroutine itself (warm-sync
// ticking, healthcheck tickers, session drain loops) — callers (cmd/serve.go
// or a test) start those explicitly via the returned Context's fields once
// they decide the process is ready to run (spec §5: nothing here blocks the
// eventual single event-loop goroutine).
func New(cfg Config) (*Context, error) {
	if cfg.SelfDest == "" {
		return nil, fmt.Errorf("amfctx: SelfDest is required")
	}
	if cfg.CLDWorkerCapacity <= 0 {
		cfg.CLDWorkerCapacity = 64
	}

	// 1. bus
	transport := bus.NewLocalTransport()

	// 2. entity model (allocated now, populated in step 4; the spec's
	// ordering names "entity-model" after "replicator" because the
	// Replicator must exist before the Model can emit into it — the Model
	// object itself has to be allocated first so there is something to
	// wire the Replicator's ChangeSink onto).
	m := model.New()

	// 2b. configuration store connection stand-in: the store itself is an
	// external collaborator (§1); what this core owns is the Config
	// Adapter's class registry and runtime-attribute cache. The Assignment
	// Engine is allocated here, ahead of its place in the spec's engine
	// ordering, because the Config Adapter's SG handler needs it to drive a
	// realign after a preferred-count modify.
	runtimeSink := configadapter.NewRuntimeSink()
	asgn := assignment.New(m)
	registry := configadapter.Registry(asgn)

	notifySvc := ntf.NewService(transport)

	c := &Context{
		Config:      cfg,
		Bus:         transport,
		Model:       m,
		Notify:      notifySvc,
		RuntimeSink: runtimeSink,
		Registry:    registry,
		Assignment:  asgn,
	}

	// 3. checkpoint replicator / standby, wired onto the Model's ChangeSink
	// before any load happens so every initial-load create also replicates
	// (matching a production AvD, where even boot-time config is
	// checkpointed so a standby that joins mid-boot cold-syncs correctly).
	switch cfg.Role {
	case RoleActive:
		c.Replicator = checkpoint.NewReplicator(m, transport, cfg.SelfDest)
		m.SetChangeSink(c.Replicator)
	case RoleStandby:
		c.Standby = checkpoint.NewStandby(m, transport)
		c.Standby.SetNotifier(notifySvc)
		unsub := transport.Subscribe(cfg.SelfDest, c.Standby.HandlerFunc())
		_ = unsub // standby lives for the process lifetime; nothing explicitly unsubscribes
	}

	m.SetRuntimeNotifier(runtimeSink)

	// 4. entity model population (spec §4.2 initial-load class order,
	// collapsed into one CCB by LoadInitial).
	if cfg.Role == RoleActive {
		if err := configadapter.LoadInitial(m, registry, cfg.InitialObjects); err != nil {
			return nil, fmt.Errorf("amfctx: initial load: %w", err)
		}
	}

	// 5. remaining engines (Assignment was allocated in step 2b)
	c.CLD = cld.New(m, cfg.CLDWorkerCapacity)
	c.CLD.SetNotifier(notifySvc)
	c.AdminOp = adminop.New(m, c.Assignment)
	c.AdminOp.SetLifecycleDriver(c.CLD)
	c.AdminOp.SetNotifier(notifySvc)

	logging.Info("amfctx", "context initialized: role=%s self=%s peer=%s", cfg.Role, cfg.SelfDest, cfg.PeerDest)
	return c, nil
}

// ConnectPeer registers this process's peer session, starting cold sync
// from the active side or subscribing for records on the standby side
// (spec §4.6 "on peer connect").
func (c *Context) ConnectPeer(ctx context.Context) error {
	if c.Config.PeerDest == "" {
		return fmt.Errorf("amfctx: no PeerDest configured")
	}
	switch c.Config.Role {
	case RoleActive:
		// AddSession starts the session's one cold sync itself.
		c.Replicator.AddSession(ctx, c.Config.PeerDest)
		return nil
	case RoleStandby:
		// The standby waits passively; cold sync arrives as a stream of
		// RecordEntityCreate records pushed by the active (spec §4.6 step
		// 3), so there is nothing further to drive here.
		return nil
	}
	return nil
}

// Shutdown tears down peer sessions in the reverse of New's init order
// (Design Note "global singletons": init/teardown are ordered).
func (c *Context) Shutdown() {
	if c.Replicator != nil && c.Config.PeerDest != "" {
		c.Replicator.RemoveSession(c.Config.PeerDest)
	}
	logging.Info("amfctx", "context shut down")
}
