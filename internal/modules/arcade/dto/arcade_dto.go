package dto

// ProfileCalculationQuery is the query string of GET /api/calculate-points.
// IsFacilitator is only true for the literal value "true".
type ProfileCalculationQuery struct {
	ProfileURL    string `form:"profileUrl" binding:"required,http_url"`
	IsFacilitator string `form:"isFacilitator"`
}

func (q ProfileCalculationQuery) Facilitator() bool {
	return q.IsFacilitator == "true"
}

// BadgeInput is a badge supplied directly by the caller. EarnedDate must be
// RFC 3339.
type BadgeInput struct {
	Name       string `json:"name" binding:"required"`
	EarnedDate string `json:"earnedDate" binding:"required"`
}

// BadgeCalculationRequest is the body of POST /api/calculate-points.
type BadgeCalculationRequest struct {
	Badges        []BadgeInput `json:"badges" binding:"max=5000,dive"`
	IsFacilitator bool         `json:"isFacilitator"`
}

type BadgeTypeQuery struct {
	Name string `form:"name"`
}

type BadgeTypeResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
