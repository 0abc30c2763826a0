package share

type GrantRequest struct {
	Email string `json:"email"`
}
