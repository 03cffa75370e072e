package dto

// ApproveRequest is the body of an approval decision. The note is optional.
type ApproveRequest struct {
	Note string `json:"note" validate:"omitempty,max=500"`
}

// RejectRequest is the body of a rejection. A reason is mandatory.
type RejectRequest struct {
	Note string `json:"note" validate:"required,max=500"`
}
