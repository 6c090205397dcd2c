package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/telemetry"
)

// motionPass steers and moves every live agent. The grid is only read;
// cell events are latched on the agent for the next logic tick, except
// hazard contact which kills the agent on the spot.
func (g *Game) motionPass(sampleTrail bool) {
	lim := g.controller.Limits()
	bounce := g.cfg.Physics.Bounce
	home := g.colony.HomePos

	query := g.antFilter.Query()
	for query.Next() {
		pos, vel, ant, trail := query.Get()
		if !ant.Alive {
			continue
		}

		s := systems.Steerer{Pos: pos.Vec(), Vel: vel.Vec(), Heading: ant.Heading, State: ant.State}
		force, heading := g.controller.Steer(s, g.grid, home, g.rng)
		ant.Heading = heading

		p, v, _ := systems.Move(g.grid, s.Pos, s.Vel, force, lim.MaxSpeed, bounce)
		pos.Set(p)
		vel.Set(v)
		if sampleTrail {
			trail.Push(p)
		}

		g.senseCell(ant, vel, p)
	}
}

// senseCell handles what an agent finds at its new position.
func (g *Game) senseCell(ant *components.Ant, vel *components.Velocity, p r2.Vec) {
	switch g.grid.KindAt(p) {
	case systems.CellHazard:
		if next, ok := systems.Next(ant.State, systems.EventHazard, g.colony.Directive); ok {
			ant.State = next
			ant.Alive = false
			ant.PendingPickup = false
			ant.ArrivedHome = false
			*vel = components.Velocity{}
		}
		return

	case systems.CellResource:
		if ant.Carried == components.PayloadNone && !ant.PendingPickup {
			if _, ok := systems.Next(ant.State, systems.EventFoundResource, g.colony.Directive); ok {
				c := systems.CellOf(p)
				ant.PendingPickup = true
				ant.PickupX, ant.PickupY = c.X, c.Y
			}
		}
	}

	if ant.State == components.StateReturn && ant.Carried == components.PayloadResource {
		if r2.Norm(r2.Sub(p, g.colony.HomePos)) < g.cfg.Colony.ArrivalRadius {
			ant.ArrivedHome = true
		}
	}
}

// logicTick performs all field and economy mutation for one tick.
func (g *Game) logicTick() {
	cfg := g.cfg
	c := g.colony
	tick := g.clock.NextTick()
	c.SinceDelivery++
	g.perfCollector.LogicTick()

	g.perfCollector.Enter(telemetry.PhaseField)
	g.grid.DecayAll(cfg.Pheromone.DecayRate)
	if cfg.Pheromone.Diffusion > 0 {
		g.grid.Diffuse(cfg.Pheromone.Diffusion)
	}

	g.perfCollector.Enter(telemetry.PhaseAgents)
	var corpses []ecs.Entity
	alive := 0

	query := g.antFilter.Query()
	for query.Next() {
		pos, _, ant, trail := query.Get()

		if !ant.Alive {
			if !ant.DeathRecorded {
				ant.DeathRecorded = true
				c.Deaths++
				g.collector.Record(telemetry.NewDeathEvent(tick, ant.ID, pos.X, pos.Y))
				slog.Info("agent_died", "id", ant.ID, "tick", tick, "x", pos.X, "y", pos.Y)
			}
			ant.TicksSinceDead++
			if ant.TicksSinceDead > cfg.Colony.CorpseTicks {
				corpses = append(corpses, query.Entity())
			}
			continue
		}
		alive++
		ant.AgeTicks++

		cell := systems.CellOf(pos.Vec())
		if rule := g.deposits[ant.State]; rule.enabled {
			g.grid.Deposit(rule.channel, cell.X, cell.Y, rule.amount)
		}

		if ant.PendingPickup {
			g.resolvePickup(tick, ant)
		}
		if ant.ArrivedHome {
			g.resolveDelivery(tick, pos, ant, trail)
		}
	}

	g.perfCollector.Enter(telemetry.PhaseReinforce)
	g.grid.ReinforceHome(c.HomePos, cfg.Pheromone.HomeRadius, cfg.Pheromone.HomeFloor)

	g.perfCollector.Enter(telemetry.PhaseLifecycle)
	for _, e := range corpses {
		g.world.RemoveEntity(e)
	}

	if c.TrySpawn(alive) {
		g.spawnAnt(g.run, c.SpawnState())
		alive++
	}

	if outcome := c.Evaluate(alive); outcome != OutcomeRunning {
		g.collector.Record(telemetry.NewGameOverEvent(tick, outcome.String()))
		slog.Info("game_over",
			"outcome", outcome.String(),
			"tick", tick,
			"resource_count", c.ResourceCount,
			"delivered", c.Delivered,
			"alive", alive,
		)
	}

	g.perfCollector.Enter(telemetry.PhaseTelemetry)
	g.flushTelemetry(tick)

	if cfg.Debug.CheckInvariants {
		if err := g.CheckInvariants(); err != nil {
			slog.Error("invariant_violation", "tick", tick, "error", err)
		}
	}
}

// resolvePickup converts a latched resource contact into a carried load.
func (g *Game) resolvePickup(tick int, ant *components.Ant) {
	ant.PendingPickup = false
	if ant.Carried != components.PayloadNone {
		return
	}
	next, ok := systems.Next(ant.State, systems.EventFoundResource, g.colony.Directive)
	if !ok {
		return
	}
	ant.State = next
	ant.Carried = components.PayloadResource
	g.grid.Mark(systems.ChannelResource, ant.PickupX, ant.PickupY)

	g.collector.Record(telemetry.NewPickupEvent(tick, ant.ID, ant.PickupX, ant.PickupY))
	slog.Debug("resource_discovered", "id", ant.ID, "x", ant.PickupX, "y", ant.PickupY, "tick", tick)
}

// resolveDelivery books a load that reached home, reinforces and
// reveals the route the agent took, and hands it the colony directive.
func (g *Game) resolveDelivery(tick int, pos *components.Position, ant *components.Ant, trail *components.Trail) {
	ant.ArrivedHome = false
	if ant.State != components.StateReturn || ant.Carried != components.PayloadResource {
		return
	}
	c := g.colony
	c.Deliver()
	ant.Carried = components.PayloadNone

	amount := g.cfg.Pheromone.DeliveryDeposit
	for i := 0; i < trail.Len(); i++ {
		cell := systems.CellOf(trail.At(i))
		g.grid.Deposit(systems.ChannelResource, cell.X, cell.Y, amount)
		g.grid.Reveal(cell.X, cell.Y)
	}
	trail.Reset(c.HomePos)

	if next, ok := systems.Next(ant.State, systems.EventDelivered, c.Directive); ok {
		ant.State = next
	}

	g.collector.Record(telemetry.NewDeliveryEvent(tick, ant.ID, pos.X, pos.Y, ant.State.String()))
	slog.Info("delivery",
		"id", ant.ID,
		"tick", tick,
		"resource_count", c.ResourceCount,
		"next_state", ant.State.String(),
	)
}
