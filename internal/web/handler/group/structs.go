package group

type createInput struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	OwnerID     string   `json:"owner_id" validate:"required"`
	InviteeIDs  []string `json:"invitee_ids"`
}

type inviteInput struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,required"`
}
