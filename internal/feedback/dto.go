package feedback

import "errors"

type SubmitDTO struct {
	TrainingID int64  `json:"training_id" validate:"required,min=1"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}

func (dto SubmitDTO) Validate() error {
	if dto.TrainingID <= 0 {
		return errors.New("training_id is required")
	}
	if dto.Rating < 1 || dto.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}
