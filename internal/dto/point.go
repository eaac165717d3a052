package dto

// PointRequest is the body of a point deposit
type PointRequest struct {
	Point int `json:"point" validate:"required,min=1"`
}

// PointResponse carries a member's point balance
type PointResponse struct {
	Point int `json:"point"`
}
