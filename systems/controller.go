package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
)

// Behavior identifies one steering behavior in a state's mix.
type Behavior uint8

const (
	BehaviorWander Behavior = iota
	BehaviorSeekHome
	BehaviorFleeHome
	BehaviorFollowResource
	BehaviorFollowHome
	BehaviorAvoidBoundary
)

var behaviorNames = [...]string{"wander", "seek_home", "flee_home", "follow_resource", "follow_home", "avoid_boundary"}

func (b Behavior) String() string {
	if int(b) < len(behaviorNames) {
		return behaviorNames[b]
	}
	return "unknown"
}

// Contribution is one weighted behavior selected for an agent.
type Contribution struct {
	Behavior Behavior
	Weight   float64
}

// Force is an evaluated contribution.
type Force struct {
	Behavior Behavior
	Vec      r2.Vec
}

// Sense is what an agent perceives when choosing its mix.
type Sense struct {
	DistHome       float64
	ResourceSignal float64 // Sampled resource channel at the agent
}

// Steerer is the per-agent input to Controller.Steer.
type Steerer struct {
	Pos, Vel r2.Vec
	Heading  float64
	State    components.State
}

// Controller turns an agent's state and surroundings into a steering force.
type Controller struct {
	weights  config.BehaviorConfig
	wander   WanderParams
	gradient GradientParams
	limits   Limits
	margin   float64
	strength float64

	buf []Force
}

// NewController builds a controller from config.
func NewController(cfg *config.Config) *Controller {
	return &Controller{
		weights: cfg.Behavior,
		wander: WanderParams{
			Jitter:   cfg.Steering.WanderJitter,
			Radius:   cfg.Steering.WanderRadius,
			Distance: cfg.Steering.WanderDistance,
		},
		gradient: GradientParams{
			Delta:     cfg.Steering.GradientDelta,
			Lookahead: cfg.Steering.GradientLook,
			K:         cfg.Steering.GradientK,
		},
		limits:   Limits{MaxSpeed: cfg.Physics.MaxSpeed, MaxForce: cfg.Physics.MaxForce},
		margin:   cfg.Steering.BoundaryMargin,
		strength: cfg.Steering.BoundaryStrength,
	}
}

// Limits returns the motion limits the controller steers within.
func (c *Controller) Limits() Limits { return c.limits }

// Mix appends the behaviors active for state to dst.
func (c *Controller) Mix(dst []Contribution, state components.State, s Sense) []Contribution {
	w := c.weights
	switch state {
	case components.StateExplore:
		dst = append(dst, Contribution{BehaviorWander, w.Explore.Wander})
		if r := w.Explore.FleeHomeRadius; r > 0 && s.DistHome < r {
			dst = append(dst, Contribution{BehaviorFleeHome, w.Explore.FleeHome * (1 - s.DistHome/r)})
		}
		dst = append(dst, Contribution{BehaviorFollowResource, w.Explore.FollowResource})

	case components.StateHarvest:
		if s.ResourceSignal > w.Harvest.Threshold {
			dst = append(dst, Contribution{BehaviorFollowResource, w.Harvest.FollowResource})
		} else {
			dst = append(dst,
				Contribution{BehaviorWander, w.Harvest.Wander},
				Contribution{BehaviorSeekHome, w.Harvest.SeekHome})
		}

	case components.StateReturn:
		dst = append(dst,
			Contribution{BehaviorSeekHome, w.Return.SeekHome},
			Contribution{BehaviorFollowHome, w.Return.FollowHome})

	case components.StateDefend:
		if r := w.Defend.Radius; r <= 0 || s.DistHome > r {
			dst = append(dst, Contribution{BehaviorSeekHome, w.Defend.SeekHome})
		} else {
			// Pull toward home grows with distance so wandering stays near it.
			dst = append(dst,
				Contribution{BehaviorWander, w.Defend.Wander},
				Contribution{BehaviorSeekHome, w.Defend.SeekHome * s.DistHome / r})
		}

	default:
		return dst
	}
	return append(dst, Contribution{BehaviorAvoidBoundary, w.Avoid})
}

// Forces evaluates the agent's mix into weighted force vectors and
// returns them with the updated wander heading.
func (c *Controller) Forces(dst []Force, a Steerer, f Field, home r2.Vec, rng *rand.Rand) ([]Force, float64) {
	sense := Sense{
		DistHome:       r2.Norm(r2.Sub(home, a.Pos)),
		ResourceSignal: f.Sample(ChannelResource, a.Pos),
	}
	var mix [6]Contribution
	heading := a.Heading
	for _, m := range c.Mix(mix[:0], a.State, sense) {
		if m.Weight == 0 {
			continue
		}
		var v r2.Vec
		switch m.Behavior {
		case BehaviorWander:
			v, heading = Wander(rng, a.Pos, a.Vel, heading, c.wander, c.limits)
			v = r2.Scale(m.Weight, v)
		case BehaviorSeekHome:
			v = r2.Scale(m.Weight, Seek(a.Pos, a.Vel, home, c.limits))
		case BehaviorFleeHome:
			v = r2.Scale(m.Weight, Flee(a.Pos, a.Vel, home, c.limits))
		case BehaviorFollowResource:
			v = FollowGradient(f, ChannelResource, a.Pos, a.Vel, m.Weight, c.gradient, c.limits)
		case BehaviorFollowHome:
			v = FollowGradient(f, ChannelHome, a.Pos, a.Vel, m.Weight, c.gradient, c.limits)
		case BehaviorAvoidBoundary:
			v = r2.Scale(m.Weight, AvoidBoundary(a.Pos, f.Bounds(), c.margin, c.strength))
		}
		dst = append(dst, Force{Behavior: m.Behavior, Vec: v})
	}
	return dst, heading
}

// Steer returns the composed, clamped force for one agent and its new
// wander heading. Not safe for concurrent use.
func (c *Controller) Steer(a Steerer, f Field, home r2.Vec, rng *rand.Rand) (r2.Vec, float64) {
	var heading float64
	c.buf, heading = c.Forces(c.buf[:0], a, f, home, rng)
	return Compose(c.buf, c.limits.MaxForce), heading
}
