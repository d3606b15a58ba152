// Package simulationapi exposes robot biologist sessions over HTTP.
package simulationapi

import (
	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/google/uuid"
)

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID    uuid.UUID  `json:"id"`
	Token string     `json:"token"`
	State game.State `json:"state"`
}

// StepResponse is the state after a step plus whether the robot moved. It is
// also the message shape of the auto-run stream.
type StepResponse struct {
	game.State
	StepSuccess bool `json:"step_success"`
}
