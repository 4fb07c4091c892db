package registration

import "errors"

// SubmitDTO is the request payload for registering for a training.
type SubmitDTO struct {
	TrainingID int64  `json:"training_id" validate:"required,min=1"`
	Comments   string `json:"comments,omitempty" validate:"max=1000"`
}

func (dto SubmitDTO) Validate() error {
	if dto.TrainingID <= 0 {
		return errors.New("training_id is required")
	}
	if len(dto.Comments) > 1000 {
		return errors.New("comments must be less than 1000 characters")
	}
	return nil
}

// DecisionDTO carries an approve/reject decision for either stage.
type DecisionDTO struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

func (dto DecisionDTO) Validate() error {
	if !dto.Approve && dto.Reason == "" {
		return errors.New("reason is required when rejecting a registration")
	}
	return nil
}
