package team

type CreatedEvent struct {
	Result Team
}

type UpdatedEvent struct {
	Result Team
}

type MembershipChangedEvent struct {
	Result Team
}
