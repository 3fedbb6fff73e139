package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
	"github.com/uzima/reimbursement/internal/domain/authz"
	"github.com/uzima/reimbursement/internal/domain/entity"
	"github.com/uzima/reimbursement/internal/domain/reference"
	"github.com/uzima/reimbursement/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Decision is a reviewer's verdict on a submitted claim.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Reference generation retries on a unique-index collision before giving up.
const maxReferenceAttempts = 5

// SubmitClaimInput carries the fields an employee provides when creating a claim.
type SubmitClaimInput struct {
	UserID       int64
	DepartmentID int64
	CategoryID   int64
	Amount       float64
	Currency     string
	Description  string
	Purpose      string
	IncurredDate time.Time
	ReceiptPath  string
	PaymentProof string
}

// ClaimService is the single entry point for every claim lifecycle
// transition. All surfaces route through it so the audit and notification
// side effects can never be skipped.
type ClaimService interface {
	SubmitClaim(ctx context.Context, in SubmitClaimInput) (*entity.Claim, error)
	SaveDraft(ctx context.Context, in SubmitClaimInput) (*entity.Claim, error)
	SubmitDraft(ctx context.Context, claimID, ownerID int64) (*entity.Claim, error)
	GetClaim(ctx context.Context, claimID int64, viewer *entity.User) (*entity.Claim, error)
	GetClaimByReference(ctx context.Context, reference string, viewer *entity.User) (*entity.Claim, error)
	ListClaims(ctx context.Context, filter port.ClaimFilter) ([]*entity.ClaimSummary, error)
	PendingApprovals(ctx context.Context, reviewer *entity.User, limit, offset int) ([]*entity.ClaimSummary, int, error)
	ReviewClaim(ctx context.Context, claimID, reviewerID int64, decision Decision, notes string) (*entity.Claim, error)
	MarkPaid(ctx context.Context, claimID, financeUserID int64, paymentRef string) (*entity.Claim, error)
}

type claimServiceImpl struct {
	claimRepo        port.ClaimRepository
	userRepo         port.UserRepository
	departmentRepo   port.DepartmentRepository
	categoryRepo     port.CategoryRepository
	notificationRepo port.NotificationRepository
	auditRepo        port.AuditLogRepository
	txManager        port.TransactionManager
	refGen           *reference.Generator
	lifecycle        workflow.StateMachineBuilder
	defaultCurrency  string
	logger           Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	claimRepo port.ClaimRepository,
	userRepo port.UserRepository,
	departmentRepo port.DepartmentRepository,
	categoryRepo port.CategoryRepository,
	notificationRepo port.NotificationRepository,
	auditRepo port.AuditLogRepository,
	txManager port.TransactionManager,
	refGen *reference.Generator,
	defaultCurrency string,
	logger Logger,
) ClaimService {
	return &claimServiceImpl{
		claimRepo:        claimRepo,
		userRepo:         userRepo,
		departmentRepo:   departmentRepo,
		categoryRepo:     categoryRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		txManager:        txManager,
		refGen:           refGen,
		lifecycle:        workflow.NewLifecycleBuilder(),
		defaultCurrency:  defaultCurrency,
		logger:           logger,
	}
}

// SubmitClaim validates the input and persists a new claim in Submitted,
// together with its audit entry, in one transaction.
func (s *claimServiceImpl) SubmitClaim(ctx context.Context, in SubmitClaimInput) (*entity.Claim, error) {
	return s.createClaim(ctx, in, entity.StatusSubmitted)
}

// SaveDraft persists a new claim in Draft. Same validation as SubmitClaim;
// the claim becomes reviewable only after SubmitDraft.
func (s *claimServiceImpl) SaveDraft(ctx context.Context, in SubmitClaimInput) (*entity.Claim, error) {
	return s.createClaim(ctx, in, entity.StatusDraft)
}

func (s *claimServiceImpl) createClaim(ctx context.Context, in SubmitClaimInput, status entity.ClaimStatus) (*entity.Claim, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	claim := &entity.Claim{
		UserID:       in.UserID,
		DepartmentID: in.DepartmentID,
		CategoryID:   in.CategoryID,
		Amount:       in.Amount,
		Currency:     currency,
		Description:  strings.TrimSpace(in.Description),
		Purpose:      strings.TrimSpace(in.Purpose),
		IncurredDate: in.IncurredDate,
		ReceiptPath:  in.ReceiptPath,
		PaymentProof: in.PaymentProof,
		Status:       status,
	}

	action := entity.AuditActionSubmit
	if status == entity.StatusDraft {
		action = entity.AuditActionSaveDraft
	}

	// The reference number is random within the year, so a collision shows
	// up as a unique-index conflict on insert. Regenerate and retry.
	var lastErr error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		claim.ReferenceNumber = s.refGen.Next()

		err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.claimRepo.Create(txCtx, claim); err != nil {
				return err
			}
			return s.auditRepo.Create(txCtx, &entity.ClaimAuditLog{
				ClaimID:     claim.ID,
				Action:      action,
				Details:     fmt.Sprintf("Claim created. Reference: %s", claim.ReferenceNumber),
				NewStatus:   status,
				PerformedBy: in.UserID,
			})
		})
		if err == nil {
			s.logger.Info("Claim created",
				"id", claim.ID, "reference", claim.ReferenceNumber, "status", status.String())
			return s.claimRepo.GetByID(ctx, claim.ID)
		}
		if !errors.Is(err, apperror.ErrConflict) {
			s.logger.Error("Failed to create claim", "error", err, "user_id", in.UserID)
			return nil, err
		}
		lastErr = err
		s.logger.Info("Reference number collision, retrying",
			"reference", claim.ReferenceNumber, "attempt", attempt+1)
	}

	return nil, apperror.System("generate reference number", lastErr)
}

func (s *claimServiceImpl) validateInput(ctx context.Context, in SubmitClaimInput) error {
	if in.Amount <= 0 {
		return apperror.Validation("amount must be positive")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperror.Validation("description is required")
	}
	if in.IncurredDate.IsZero() {
		return apperror.Validation("incurred date is required")
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if category == nil || !category.IsActive {
		return apperror.Validation("unknown expense category")
	}
	if category.MaxAmount != nil && in.Amount > *category.MaxAmount {
		return apperror.Validation("amount exceeds category limit of %.2f", *category.MaxAmount)
	}

	return nil
}

// SubmitDraft moves the owner's draft claim into Submitted.
func (s *claimServiceImpl) SubmitDraft(ctx context.Context, claimID, ownerID int64) (*entity.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil || claim.UserID != ownerID {
		return nil, apperror.NotFound("claim %d", claimID)
	}

	if err := s.fireTransition(claim.Status, workflow.TriggerSubmit); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.claimRepo.Submit(txCtx, claimID, claim.Status); err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, &entity.ClaimAuditLog{
			ClaimID:        claimID,
			Action:         entity.AuditActionSubmit,
			Details:        fmt.Sprintf("Draft submitted. Reference: %s", claim.ReferenceNumber),
			PreviousStatus: claim.Status,
			NewStatus:      entity.StatusSubmitted,
			PerformedBy:    ownerID,
		})
	})
	if err != nil {
		s.logger.Error("Failed to submit draft", "error", err, "claim_id", claimID)
		return nil, err
	}

	s.logger.Info("Draft submitted", "claim_id", claimID, "reference", claim.ReferenceNumber)
	return s.claimRepo.GetByID(ctx, claimID)
}

// GetClaim returns a claim the viewer is allowed to see. Employees see only
// their own claims; reviewers see all.
func (s *claimServiceImpl) GetClaim(ctx context.Context, claimID int64, viewer *entity.User) (*entity.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, apperror.NotFound("claim %d", claimID)
	}
	if !viewer.Role.IsReviewer() && claim.UserID != viewer.ID {
		// Deliberately not an authorization error: existence of other
		// users' claims is not disclosed.
		return nil, apperror.NotFound("claim %d", claimID)
	}
	return claim, nil
}

// GetClaimByReference resolves a claim by its reference number, under the
// same visibility rule as GetClaim.
func (s *claimServiceImpl) GetClaimByReference(ctx context.Context, ref string, viewer *entity.User) (*entity.Claim, error) {
	claim, err := s.claimRepo.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if claim == nil || (!viewer.Role.IsReviewer() && claim.UserID != viewer.ID) {
		return nil, apperror.NotFound("claim %s", ref)
	}
	return claim, nil
}

// ListClaims returns claim summaries matching the filter.
func (s *claimServiceImpl) ListClaims(ctx context.Context, filter port.ClaimFilter) ([]*entity.ClaimSummary, error) {
	return s.claimRepo.List(ctx, filter)
}

// PendingApprovals lists Submitted claims the reviewer may act on, with the
// total count for pagination. The repository applies the same rule the gate
// enforces, so every listed claim is actionable.
func (s *claimServiceImpl) PendingApprovals(ctx context.Context, reviewer *entity.User, limit, offset int) ([]*entity.ClaimSummary, int, error) {
	if !reviewer.Role.IsReviewer() {
		return nil, 0, apperror.Unauthorized("role %s cannot review claims", reviewer.Role)
	}

	total, err := s.claimRepo.CountPendingForReviewer(ctx, reviewer)
	if err != nil {
		return nil, 0, err
	}
	claims, err := s.claimRepo.ListPendingForReviewer(ctx, reviewer, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// ReviewClaim applies a reviewer's approve/reject decision to a submitted
// claim. Status change, notes, audit entry and owner notification are
// persisted atomically; a lost race against another reviewer surfaces as
// a conflict.
func (s *claimServiceImpl) ReviewClaim(ctx context.Context, claimID, reviewerID int64, decision Decision, notes string) (*entity.Claim, error) {
	notes = strings.TrimSpace(notes)

	if decision != DecisionApprove && decision != DecisionReject {
		return nil, apperror.Validation("unknown decision %q", decision)
	}
	if decision == DecisionReject && notes == "" {
		return nil, apperror.Validation("a reason is required to reject a claim")
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil || claim.Status != entity.StatusSubmitted {
		return nil, apperror.NotFound("claim %d is not in a reviewable state", claimID)
	}

	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if reviewer == nil {
		return nil, apperror.Unauthorized("reviewer %d", reviewerID)
	}

	department, err := s.departmentRepo.GetByID(ctx, claim.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !authz.CanReview(reviewer, department) {
		s.logger.Info("Review denied",
			"claim_id", claimID, "reviewer_id", reviewerID, "role", reviewer.Role.String())
		return nil, apperror.Unauthorized("you don't have permission to process this claim")
	}

	trigger := workflow.TriggerApprove
	if decision == DecisionReject {
		trigger = workflow.TriggerReject
	}
	if err := s.fireTransition(claim.Status, trigger); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if decision == DecisionApprove {
			if err := s.claimRepo.Approve(txCtx, claimID, entity.StatusSubmitted, reviewerID, notes); err != nil {
				return err
			}
			if err := s.auditRepo.Create(txCtx, &entity.ClaimAuditLog{
				ClaimID:        claimID,
				Action:         entity.AuditActionApprove,
				Details:        fmt.Sprintf("Claim approved. Notes: %s", notes),
				PreviousStatus: entity.StatusSubmitted,
				NewStatus:      entity.StatusApproved,
				PerformedBy:    reviewerID,
			}); err != nil {
				return err
			}
			return s.notifyOwner(txCtx, claim, "Claim Approved",
				fmt.Sprintf("Your claim #%s has been approved.", claim.ReferenceNumber),
				entity.NotificationClaimApproved)
		}

		if err := s.claimRepo.Reject(txCtx, claimID, entity.StatusSubmitted, reviewerID, notes); err != nil {
			return err
		}
		if err := s.auditRepo.Create(txCtx, &entity.ClaimAuditLog{
			ClaimID:        claimID,
			Action:         entity.AuditActionReject,
			Details:        fmt.Sprintf("Claim rejected. Reason: %s", notes),
			PreviousStatus: entity.StatusSubmitted,
			NewStatus:      entity.StatusRejected,
			PerformedBy:    reviewerID,
		}); err != nil {
			return err
		}
		return s.notifyOwner(txCtx, claim, "Claim Rejected",
			fmt.Sprintf("Your claim #%s has been rejected. Reason: %s", claim.ReferenceNumber, notes),
			entity.NotificationClaimRejected)
	})
	if err != nil {
		s.logger.Error("Failed to review claim",
			"error", err, "claim_id", claimID, "decision", string(decision))
		return nil, err
	}

	s.logger.Info("Claim reviewed",
		"claim_id", claimID, "reviewer_id", reviewerID, "decision", string(decision))
	return s.claimRepo.GetByID(ctx, claimID)
}

// MarkPaid transitions an approved claim to Paid. Restricted to finance roles.
func (s *claimServiceImpl) MarkPaid(ctx context.Context, claimID, financeUserID int64, paymentRef string) (*entity.Claim, error) {
	paymentRef = strings.TrimSpace(paymentRef)
	if paymentRef == "" {
		return nil, apperror.Validation("payment reference is required")
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil || claim.Status != entity.StatusApproved {
		return nil, apperror.NotFound("claim %d is not approved", claimID)
	}

	user, err := s.userRepo.GetByID(ctx, financeUserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !authz.CanMarkPaid(user) {
		return nil, apperror.Unauthorized("only finance officers can record payments")
	}

	if err := s.fireTransition(claim.Status, workflow.TriggerMarkPaid); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.claimRepo.MarkPaid(txCtx, claimID, entity.StatusApproved, paymentRef); err != nil {
			return err
		}
		if err := s.auditRepo.Create(txCtx, &entity.ClaimAuditLog{
			ClaimID:        claimID,
			Action:         entity.AuditActionMarkPaid,
			Details:        fmt.Sprintf("Claim marked as paid. Payment reference: %s", paymentRef),
			PreviousStatus: entity.StatusApproved,
			NewStatus:      entity.StatusPaid,
			PerformedBy:    financeUserID,
		}); err != nil {
			return err
		}
		return s.notifyOwner(txCtx, claim, "Claim Paid",
			fmt.Sprintf("Your claim #%s has been processed for payment.", claim.ReferenceNumber),
			entity.NotificationClaimPaid)
	})
	if err != nil {
		s.logger.Error("Failed to mark claim paid", "error", err, "claim_id", claimID)
		return nil, err
	}

	s.logger.Info("Claim marked paid",
		"claim_id", claimID, "payment_reference", paymentRef)
	return s.claimRepo.GetByID(ctx, claimID)
}

// fireTransition validates the move against the lifecycle state machine.
// The status check done by the caller plus the guarded UPDATE make this
// redundant for known states; it catches transitions out of terminal states.
func (s *claimServiceImpl) fireTransition(from entity.ClaimStatus, trigger workflow.Trigger) error {
	machine, err := s.lifecycle.Build(workflow.State(from))
	if err != nil {
		return apperror.System("build lifecycle machine", err)
	}
	if err := machine.Fire(trigger); err != nil {
		return apperror.NotFound("claim cannot %s from %s", strings.ToLower(trigger.String()), from)
	}
	return nil
}

func (s *claimServiceImpl) notifyOwner(ctx context.Context, claim *entity.Claim, title, message, notificationType string) error {
	claimID := claim.ID
	return s.notificationRepo.Create(ctx, &entity.Notification{
		RecipientID:   claim.UserID,
		Title:         title,
		Message:       message,
		Type:          notificationType,
		ReferenceID:   &claimID,
		ReferenceType: "claim",
	})
}
