package deal

type CreatedEvent struct {
	Result Deal
}

type UpdatedEvent struct {
	Result Deal
}

type DeletedEvent struct {
	Result Deal
}
