package commands

import (
	"errors"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrTransitionJobCommandIsNotConstructed = errors.New(
		"TransitionJobCommand must be created via NewTransitionJobCommand constructor",
	)
)

// TransitionJobCommand moves a job along the state machine. Photos are the
// before photos of a start and the after photos of a completion.
//
// Example:
//
//	cmd, err := NewTransitionJobCommand(actor, jobID, job.Completed,
//	    []string{"https://cdn.example.com/after/1.jpg"})
type TransitionJobCommand struct {
	actor  services.Actor
	jobID  kernel.UUID
	to     job.Status
	photos []string

	guard guard.ConstructorGuard
}

func NewTransitionJobCommand(
	actor services.Actor,
	jobID kernel.UUID,
	to job.Status,
	photos []string,
) (TransitionJobCommand, error) {
	if err := errors.Join(validateActor(actor), jobID.Validate(), to.Validate()); err != nil {
		return TransitionJobCommand{}, err
	}
	return TransitionJobCommand{
		actor:  actor,
		jobID:  jobID,
		to:     to,
		photos: photos,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionJobCommand) Validate() error {
	return c.guard.Validate(ErrTransitionJobCommandIsNotConstructed)
}

func (c TransitionJobCommand) Actor() services.Actor { return c.actor }
func (c TransitionJobCommand) JobID() kernel.UUID    { return c.jobID }
func (c TransitionJobCommand) To() job.Status        { return c.to }
func (c TransitionJobCommand) Photos() []string      { return c.photos }
