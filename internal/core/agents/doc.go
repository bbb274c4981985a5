// Package agents implements the message-passing pipeline behind ragchat.
//
// Four agents exchange domain.Message values:
//
//	Coordinator -> IngestionAgent -> RetrievalAgent            (upload)
//	Coordinator -> RetrievalAgent -> LLMResponseAgent          (query)
//
// Each agent accepts a fixed set of payload variants and replies with a new
// message on the same trace. A variant an agent does not handle means the
// pipeline is wired wrongly, and the agent panics with
// domain.ErrInvalidMessageType.
package agents
