// internal/service/launch.go
package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	apperrors "github.com/mailcanvas/campaign-backend/internal/errors"
	"github.com/mailcanvas/campaign-backend/internal/events"
	"github.com/mailcanvas/campaign-backend/internal/mailer"
	"github.com/mailcanvas/campaign-backend/internal/model"
)

// LaunchSummary holds the campaign-wide delivery tally.
type LaunchSummary struct {
	Successful  int    `json:"successful"`
	Failed      int    `json:"failed"`
	Total       int    `json:"total"`
	SuccessRate string `json:"successRate"`
}

// FailedEmail identifies one recipient whose dispatch failed.
type FailedEmail struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// LaunchResult is the fixed response shape for every processed launch.
// FailedEmails is always present, empty on full success.
type LaunchResult struct {
	Message      string          `json:"message"`
	Campaign     *model.Campaign `json:"campaign"`
	EmailResults LaunchSummary   `json:"emailResults"`
	HasFailures  bool            `json:"hasFailures"`
	FailedEmails []FailedEmail   `json:"failedEmails"`
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// LaunchCampaign executes every step of the campaign in order. For each
// send_email step it dispatches one message per recipient concurrently,
// waits for all of them to settle, and writes the outcome back onto the
// recipient and step records. The campaign document is persisted exactly
// once, after all steps are done, failures included.
func (s *CampaignService) LaunchCampaign(ctx context.Context, campaign *model.Campaign) (*LaunchResult, error) {
	if campaign == nil || len(campaign.Steps) == 0 {
		return nil, apperrors.NewValidation("Invalid campaign data or no steps provided.")
	}
	if len(campaign.Recipients) == 0 {
		return nil, apperrors.NewValidation("Recipients array is required and must not be empty.")
	}
	for i, step := range campaign.Steps {
		if step.Type != model.StepTypeSendEmail && step.Type != model.StepTypeWait {
			return nil, apperrors.NewValidation("Step %d: Type must be 'send_email' or 'wait'.", i+1)
		}
	}
	if err := normalizeRecipients(campaign.Recipients); err != nil {
		return nil, err
	}

	var successful, failed int
	failedEmails := []FailedEmail{}

	for i := range campaign.Steps {
		step := &campaign.Steps[i]

		if step.Type != model.StepTypeSendEmail {
			// Wait steps are inert here: stored as metadata, never executed.
			if step.Status == "" {
				step.Status = model.StepPending
			}
			continue
		}

		if strings.TrimSpace(step.Template) == "" {
			// Recoverable per-step condition, remaining steps still run.
			step.Status = model.StepError
			step.Error = "Template is required for send_email step"
			continue
		}

		log.Printf("📧 Sending %d emails in parallel for step %d...", len(campaign.Recipients), i+1)
		outcomes := s.dispatchStep(ctx, campaign, step)

		now := time.Now().UTC()
		stepSuccessful, stepFailed := 0, 0
		for j := range campaign.Recipients {
			r := &campaign.Recipients[j]
			r.SentAt = &now
			if outcomes[j] == nil {
				r.Status = model.RecipientSent
				r.Error = ""
				stepSuccessful++
			} else {
				log.Printf("❌ Failed to send email to %s: %v", r.Email, outcomes[j])
				r.Status = model.RecipientError
				r.Error = outcomes[j].Error()
				stepFailed++
				failedEmails = append(failedEmails, FailedEmail{Email: r.Email, Error: r.Error})
			}
		}

		if stepFailed > 0 {
			step.Status = model.StepError
		} else {
			step.Status = model.StepSent
		}
		step.SentAt = &now
		step.EmailResults = &model.EmailResults{
			Successful: stepSuccessful,
			Failed:     stepFailed,
			Total:      stepSuccessful + stepFailed,
		}

		successful += stepSuccessful
		failed += stepFailed
	}

	if campaign.Status == "" {
		campaign.Status = model.CampaignScheduled
	}

	// Single atomic document write after the full fan-out. A crash before
	// this point loses the record of emails already sent.
	if err := s.CampaignRepo.Save(campaign); err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	result := &LaunchResult{
		Campaign:     campaign,
		HasFailures:  failed > 0,
		FailedEmails: failedEmails,
		EmailResults: LaunchSummary{
			Successful:  successful,
			Failed:      failed,
			Total:       successful + failed,
			SuccessRate: successRate(successful, successful+failed),
		},
	}
	if failed > 0 {
		result.Message = fmt.Sprintf(
			"Campaign launched with mixed results. %d emails sent successfully, %d failed.",
			successful, failed,
		)
	} else {
		result.Message = fmt.Sprintf("Campaign launched successfully! All %d emails sent.", successful)
	}

	s.publishLaunchEvent(campaign, result)

	return result, nil
}

// dispatchStep fans out one delivery per recipient and blocks until every
// one of them has settled. A recipient's failure never cancels or delays
// the others; each goroutine writes only its own outcome slot.
func (s *CampaignService) dispatchStep(ctx context.Context, campaign *model.Campaign, step *model.Step) []error {
	subject := campaign.Name
	if subject == "" {
		subject = "Campaign Email"
	}

	outcomes := make([]error, len(campaign.Recipients))
	var wg sync.WaitGroup
	for j := range campaign.Recipients {
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			r := campaign.Recipients[j]
			outcomes[j] = s.Mailer.Send(ctx, mailer.Message{
				To:      r.Email,
				From:    s.SenderEmail,
				Subject: subject,
				HTML:    renderTemplate(step.Template, r.Email, campaign.Name),
			})
		}(j)
	}
	wg.Wait()
	return outcomes
}

func (s *CampaignService) publishLaunchEvent(campaign *model.Campaign, result *LaunchResult) {
	if s.Events == nil {
		return
	}
	ev := events.LaunchEvent{
		CampaignID: campaign.ID,
		Name:       campaign.Name,
		Successful: result.EmailResults.Successful,
		Failed:     result.EmailResults.Failed,
		Total:      result.EmailResults.Total,
		LaunchedAt: time.Now().UTC(),
	}
	if err := s.Events.PublishLaunch(ev); err != nil {
		log.Println("⚠️ failed to publish launch event:", err)
	}
}

// normalizeRecipients converts every recipient to the canonical record shape
// before any dispatch: trimmed address, Pending status when unset. A missing
// or malformed address rejects the whole launch, nothing has been sent yet.
func normalizeRecipients(recipients []model.Recipient) error {
	for i := range recipients {
		r := &recipients[i]
		r.Email = strings.TrimSpace(r.Email)
		if r.Email == "" {
			return apperrors.NewValidation("Recipient %d: email is required.", i+1)
		}
		if !emailPattern.MatchString(r.Email) {
			return apperrors.NewValidation("Recipient %d: invalid email address %q.", i+1, r.Email)
		}
		if r.Status == "" {
			r.Status = model.RecipientPending
		}
	}
	return nil
}

func successRate(successful, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(successful)/float64(total)*100)
}
