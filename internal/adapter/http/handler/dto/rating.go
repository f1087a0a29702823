package dto

import "github.com/distordia/nexgo/pkg/validator"

type SubmitRatingRequest struct {
	Driver string `json:"driver"`
	Score  int    `json:"score"`
	Avoid  bool   `json:"avoid"`
}

func (r *SubmitRatingRequest) Validate(v *validator.Validator) {
	v.Check(r.Driver != "", "driver", "must be provided")
	v.Check(r.Score >= 1 && r.Score <= 5, "score", "must be between 1 and 5")
}
