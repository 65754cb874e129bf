package businessunit

type CreatedEvent struct {
	Result BusinessUnit
}

type UpdatedEvent struct {
	Result BusinessUnit
}
