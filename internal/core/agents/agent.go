package agents

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// Agent handles one hop of the pipeline.
type Agent interface {
	// Name is the agent's sender identity on replies.
	Name() string

	// Process handles msg and returns the reply.
	Process(ctx context.Context, msg domain.Message) domain.Message
}

// rejectMessage panics for a payload variant the agent does not accept.
func rejectMessage(agent string, msg domain.Message) {
	panic(fmt.Errorf("%w for %s: %s", domain.ErrInvalidMessageType, agent, msg.Type()))
}

// fail builds a Failure reply to msg.
func fail(agent string, msg domain.Message, err error) domain.Message {
	return msg.Reply(agent, msg.Sender, domain.Failure{Err: err})
}
