// internal/service/campaign_service.go
package service

import (
	apperrors "github.com/mailcanvas/campaign-backend/internal/errors"
	"github.com/mailcanvas/campaign-backend/internal/events"
	"github.com/mailcanvas/campaign-backend/internal/mailer"
	"github.com/mailcanvas/campaign-backend/internal/model"
	"github.com/mailcanvas/campaign-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Mailer       mailer.Sender
	Events       events.LaunchPublisher

	// SenderEmail is the fixed verified from-address for every dispatch.
	SenderEmail string
}

// CreateCampaign validates and stores a campaign without sending anything.
func (s *CampaignService) CreateCampaign(c *model.Campaign) (*model.Campaign, error) {
	if err := validateCampaign(c); err != nil {
		return nil, err
	}

	if c.Status == "" {
		c.Status = model.CampaignScheduled
	}
	applyStepDefaults(c)

	if err := s.CampaignRepo.Save(c); err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return c, nil
}

func (s *CampaignService) ListCampaigns() ([]*model.Campaign, error) {
	return s.CampaignRepo.ListAll()
}

func (s *CampaignService) GetCampaign(id string) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(id)
}

func (s *CampaignService) DeleteCampaign(id string) error {
	return s.CampaignRepo.Delete(id)
}

func validateCampaign(c *model.Campaign) error {
	if c.Name == "" {
		return apperrors.NewValidation("Campaign name is required.")
	}
	if c.ContactList == "" {
		return apperrors.NewValidation("Contact list is required.")
	}
	if c.ScheduleType != model.ScheduleNow && c.ScheduleType != model.ScheduleLater {
		return apperrors.NewValidation(`Schedule type must be "now" or "later".`)
	}
	if c.ScheduleType == model.ScheduleLater && c.ScheduledAt == nil {
		return apperrors.NewValidation("Scheduled date is required when scheduling for later.")
	}
	if len(c.Steps) == 0 {
		return apperrors.NewValidation("At least one step is required.")
	}
	for i, step := range c.Steps {
		if step.Type != model.StepTypeSendEmail && step.Type != model.StepTypeWait {
			return apperrors.NewValidation("Step %d: Type must be 'send_email' or 'wait'.", i+1)
		}
		if step.Type == model.StepTypeSendEmail && step.Template == "" {
			return apperrors.NewValidation("Step %d: Template is required for send_email.", i+1)
		}
		if step.Type == model.StepTypeWait && step.Duration == "" {
			return apperrors.NewValidation("Step %d: Duration is required for wait.", i+1)
		}
	}
	return nil
}

func applyStepDefaults(c *model.Campaign) {
	for i := range c.Steps {
		if c.Steps[i].Status == "" {
			c.Steps[i].Status = model.StepPending
		}
	}
}
