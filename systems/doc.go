// Package systems contains the environment grid, steering behaviors and
// agent decision logic for the simulation.
package systems
