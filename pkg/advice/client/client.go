// pkg/advice/client/client.go

package client

import (
	"context"
	"fmt"

	"agentrix/entities"
)

// Client sends one advice request to the advice API.
type Client interface {
	GetAdvice(ctx context.Context, req entities.AdviceRequest, photo *entities.LeafPhoto) (*entities.Advice, error)
}

// ServerError is a non-2xx answer that still carried a JSON body.
type ServerError struct {
	Status int
	Detail string // empty when the server sent none
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("advice api: status %d", e.Status)
	}
	return fmt.Sprintf("advice api: status %d: %s", e.Status, e.Detail)
}

// TransportError covers network failures and bodies that could not be decoded.
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return "advice api unreachable: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
