package clientrequest

import "github.com/google/uuid"

type CreatedEvent struct {
	Result ClientRequest
}

type DecidedEvent struct {
	Result ClientRequest
}

type ConvertedEvent struct {
	Result ClientRequest
	DealID uuid.UUID
}
