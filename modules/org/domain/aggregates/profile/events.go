package profile

type CreatedEvent struct {
	Result Profile
}

type UpdatedEvent struct {
	Result Profile
}

type SupervisionChangedEvent struct {
	Result Profile
}
