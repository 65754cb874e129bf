package lead

import "github.com/google/uuid"

type CreatedEvent struct {
	Result Lead
}

type UpdatedEvent struct {
	Result Lead
}

type StatusChangedEvent struct {
	From   Status
	Result Lead
}

type ConvertedEvent struct {
	Result Lead
	DealID uuid.UUID
}
