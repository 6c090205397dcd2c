package main

import (
	"github.com/pthm-cable/antcolony/config"
)

// Params holds one candidate parameter set. Field order is the optimizer's
// vector order and the tune log column order.
type Params struct {
	DecayRate       float64 `csv:"decay_rate"`
	DeliveryDeposit float64 `csv:"delivery_deposit"`
	ReturnDeposit   float64 `csv:"return_deposit"`
	GradientK       float64 `csv:"gradient_k"`
	ExploreWander   float64 `csv:"explore_wander"`
	ExploreFollow   float64 `csv:"explore_follow_resource"`
	HarvestFollow   float64 `csv:"harvest_follow_resource"`
	HarvestThresh   float64 `csv:"harvest_threshold"`
	ReturnFollow    float64 `csv:"return_follow_home"`
}

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name     string // Config path for logging
	Min, Max float64
	field    func(*Params) *float64
	cfg      func(*config.Config) *float64
}

// paramSpecs lists the tuned parameters. Defaults come from the base config.
var paramSpecs = []ParamSpec{
	{"pheromone.decay_rate", 0.0005, 0.02,
		func(p *Params) *float64 { return &p.DecayRate },
		func(c *config.Config) *float64 { return &c.Pheromone.DecayRate }},
	{"pheromone.delivery_deposit", 0.05, 1.0,
		func(p *Params) *float64 { return &p.DeliveryDeposit },
		func(c *config.Config) *float64 { return &c.Pheromone.DeliveryDeposit }},
	{"pheromone.deposit.return.amount", 0, 0.3,
		func(p *Params) *float64 { return &p.ReturnDeposit },
		func(c *config.Config) *float64 { return &c.Pheromone.Deposit.Return.Amount }},
	{"steering.gradient_k", 0.5, 20,
		func(p *Params) *float64 { return &p.GradientK },
		func(c *config.Config) *float64 { return &c.Steering.GradientK }},
	{"behavior.explore.wander", 0.2, 2.0,
		func(p *Params) *float64 { return &p.ExploreWander },
		func(c *config.Config) *float64 { return &c.Behavior.Explore.Wander }},
	{"behavior.explore.follow_resource", 0, 2.0,
		func(p *Params) *float64 { return &p.ExploreFollow },
		func(c *config.Config) *float64 { return &c.Behavior.Explore.FollowResource }},
	{"behavior.harvest.follow_resource", 0.2, 3.0,
		func(p *Params) *float64 { return &p.HarvestFollow },
		func(c *config.Config) *float64 { return &c.Behavior.Harvest.FollowResource }},
	{"behavior.harvest.threshold", 0.005, 0.3,
		func(p *Params) *float64 { return &p.HarvestThresh },
		func(c *config.Config) *float64 { return &c.Behavior.Harvest.Threshold }},
	{"behavior.return.follow_home", 0, 1.5,
		func(p *Params) *float64 { return &p.ReturnFollow },
		func(c *config.Config) *float64 { return &c.Behavior.Return.FollowHome }},
}

// Dim returns the number of parameters.
func Dim() int { return len(paramSpecs) }

// FromConfig reads the tuned parameters out of cfg.
func FromConfig(cfg *config.Config) Params {
	var p Params
	for _, s := range paramSpecs {
		*s.field(&p) = *s.cfg(cfg)
	}
	return p
}

// ApplyTo writes p into cfg.
func (p Params) ApplyTo(cfg *config.Config) {
	for _, s := range paramSpecs {
		*s.cfg(cfg) = *s.field(&p)
	}
}

// Clamp returns p with every value inside its bounds.
func (p Params) Clamp() Params {
	for _, s := range paramSpecs {
		v := s.field(&p)
		*v = min(max(*v, s.Min), s.Max)
	}
	return p
}

// Normalize maps p to the optimizer's [0,1] space.
func (p Params) Normalize() []float64 {
	x := make([]float64, len(paramSpecs))
	for i, s := range paramSpecs {
		x[i] = (*s.field(&p) - s.Min) / (s.Max - s.Min)
	}
	return x
}

// Denormalize maps an optimizer vector back to clamped parameter values.
func Denormalize(x []float64) Params {
	var p Params
	for i, s := range paramSpecs {
		*s.field(&p) = s.Min + x[i]*(s.Max-s.Min)
	}
	return p.Clamp()
}
