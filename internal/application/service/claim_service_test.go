package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
	"github.com/uzima/reimbursement/internal/domain/entity"
	"github.com/uzima/reimbursement/internal/domain/reference"
)

// Mock repositories

type mockClaimRepo struct {
	createFunc       func(ctx context.Context, claim *entity.Claim) error
	getByIDFunc      func(ctx context.Context, id int64) (*entity.Claim, error)
	getByRefFunc     func(ctx context.Context, ref string) (*entity.Claim, error)
	approveFunc      func(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, notes string) error
	rejectFunc       func(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, reason string) error
	markPaidFunc     func(ctx context.Context, id int64, from entity.ClaimStatus, paymentRef string) error
	submitFunc       func(ctx context.Context, id int64, from entity.ClaimStatus) error
	listPendingFunc  func(ctx context.Context, reviewer *entity.User, limit, offset int) ([]*entity.ClaimSummary, error)
	countPendingFunc func(ctx context.Context, reviewer *entity.User) (int, error)
}

func (m *mockClaimRepo) Create(ctx context.Context, claim *entity.Claim) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, claim)
	}
	claim.ID = 1
	return nil
}

func (m *mockClaimRepo) GetByID(ctx context.Context, id int64) (*entity.Claim, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Claim{ID: id, Status: entity.StatusSubmitted}, nil
}

func (m *mockClaimRepo) GetByReference(ctx context.Context, ref string) (*entity.Claim, error) {
	if m.getByRefFunc != nil {
		return m.getByRefFunc(ctx, ref)
	}
	return nil, nil
}

func (m *mockClaimRepo) List(ctx context.Context, filter port.ClaimFilter) ([]*entity.ClaimSummary, error) {
	return []*entity.ClaimSummary{}, nil
}

func (m *mockClaimRepo) ListPendingForReviewer(ctx context.Context, reviewer *entity.User, limit, offset int) ([]*entity.ClaimSummary, error) {
	if m.listPendingFunc != nil {
		return m.listPendingFunc(ctx, reviewer, limit, offset)
	}
	return []*entity.ClaimSummary{}, nil
}

func (m *mockClaimRepo) CountPendingForReviewer(ctx context.Context, reviewer *entity.User) (int, error) {
	if m.countPendingFunc != nil {
		return m.countPendingFunc(ctx, reviewer)
	}
	return 0, nil
}

func (m *mockClaimRepo) Submit(ctx context.Context, id int64, from entity.ClaimStatus) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, id, from)
	}
	return nil
}

func (m *mockClaimRepo) Approve(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, notes string) error {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id, from, approverID, notes)
	}
	return nil
}

func (m *mockClaimRepo) Reject(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, reason string) error {
	if m.rejectFunc != nil {
		return m.rejectFunc(ctx, id, from, approverID, reason)
	}
	return nil
}

func (m *mockClaimRepo) MarkPaid(ctx context.Context, id int64, from entity.ClaimStatus, paymentRef string) error {
	if m.markPaidFunc != nil {
		return m.markPaidFunc(ctx, id, from, paymentRef)
	}
	return nil
}

type mockUserRepo struct {
	createFunc     func(ctx context.Context, user *entity.User) error
	getByIDFunc    func(ctx context.Context, id int64) (*entity.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.User{ID: id, Role: entity.RoleEmployee, IsActive: true}, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return []*entity.User{}, nil
}

func (m *mockUserRepo) SetLastLogin(ctx context.Context, id int64, t time.Time) error { return nil }

func (m *mockUserRepo) SetActive(ctx context.Context, id int64, active bool) error { return nil }

type mockDepartmentRepo struct {
	getByIDFunc func(ctx context.Context, id int64) (*entity.Department, error)
}

func (m *mockDepartmentRepo) Create(ctx context.Context, dept *entity.Department) error { return nil }

func (m *mockDepartmentRepo) GetByID(ctx context.Context, id int64) (*entity.Department, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Department{ID: id}, nil
}

func (m *mockDepartmentRepo) List(ctx context.Context) ([]*entity.Department, error) {
	return []*entity.Department{}, nil
}

func (m *mockDepartmentRepo) SetManager(ctx context.Context, id int64, managerID *int64) error {
	return nil
}

type mockCategoryRepo struct {
	getByIDFunc func(ctx context.Context, id int64) (*entity.ExpenseCategory, error)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id int64) (*entity.ExpenseCategory, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.ExpenseCategory{ID: id, Name: "Travel", IsActive: true}, nil
}

func (m *mockCategoryRepo) ListActive(ctx context.Context) ([]*entity.ExpenseCategory, error) {
	return []*entity.ExpenseCategory{}, nil
}

type mockNotificationRepo struct {
	created []*entity.Notification
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]*entity.Notification, error) {
	return []*entity.Notification{}, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	return 0, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, recipientID int64) error { return nil }

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	return 0, nil
}

type mockAuditRepo struct {
	created []*entity.ClaimAuditLog
}

func (m *mockAuditRepo) Create(ctx context.Context, log *entity.ClaimAuditLog) error {
	m.created = append(m.created, log)
	return nil
}

func (m *mockAuditRepo) ListByClaim(ctx context.Context, claimID int64) ([]*entity.ClaimAuditLog, error) {
	return []*entity.ClaimAuditLog{}, nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type claimServiceFixture struct {
	claimRepo        *mockClaimRepo
	userRepo         *mockUserRepo
	departmentRepo   *mockDepartmentRepo
	categoryRepo     *mockCategoryRepo
	notificationRepo *mockNotificationRepo
	auditRepo        *mockAuditRepo
	service          ClaimService
}

func newClaimServiceFixture() *claimServiceFixture {
	f := &claimServiceFixture{
		claimRepo:        &mockClaimRepo{},
		userRepo:         &mockUserRepo{},
		departmentRepo:   &mockDepartmentRepo{},
		categoryRepo:     &mockCategoryRepo{},
		notificationRepo: &mockNotificationRepo{},
		auditRepo:        &mockAuditRepo{},
	}
	f.service = NewClaimService(
		f.claimRepo, f.userRepo, f.departmentRepo, f.categoryRepo,
		f.notificationRepo, f.auditRepo, &mockTxManager{},
		reference.NewGenerator("CLM"), "KSH", &mockLogger{},
	)
	return f
}

func validInput() SubmitClaimInput {
	return SubmitClaimInput{
		UserID:       10,
		DepartmentID: 1,
		CategoryID:   1,
		Amount:       120.50,
		Description:  "Taxi to client site",
		IncurredDate: time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestClaimService_SubmitClaim(t *testing.T) {
	f := newClaimServiceFixture()

	var created *entity.Claim
	f.claimRepo.createFunc = func(ctx context.Context, claim *entity.Claim) error {
		claim.ID = 1
		created = claim
		return nil
	}
	f.claimRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.Claim, error) {
		return created, nil
	}

	claim, err := f.service.SubmitClaim(context.Background(), validInput())
	if err != nil {
		t.Fatalf("SubmitClaim() error = %v", err)
	}

	if claim.Status != entity.StatusSubmitted {
		t.Errorf("status = %v, want Submitted", claim.Status)
	}
	if !reference.Valid(claim.ReferenceNumber) {
		t.Errorf("reference %q does not match format", claim.ReferenceNumber)
	}
	if claim.Currency != "KSH" {
		t.Errorf("currency = %q, want default KSH", claim.Currency)
	}
	if len(f.auditRepo.created) != 1 || f.auditRepo.created[0].Action != entity.AuditActionSubmit {
		t.Errorf("expected one submit audit entry, got %+v", f.auditRepo.created)
	}
}

func TestClaimService_SaveDraft(t *testing.T) {
	f := newClaimServiceFixture()

	var created *entity.Claim
	f.claimRepo.createFunc = func(ctx context.Context, claim *entity.Claim) error {
		claim.ID = 2
		created = claim
		return nil
	}
	f.claimRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.Claim, error) {
		return created, nil
	}

	claim, err := f.service.SaveDraft(context.Background(), validInput())
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	if claim.Status != entity.StatusDraft {
		t.Errorf("status = %v, want Draft", claim.Status)
	}
	if len(f.auditRepo.created) != 1 || f.auditRepo.created[0].Action != entity.AuditActionSaveDraft {
		t.Errorf("expected one save_draft audit entry, got %+v", f.auditRepo.created)
	}
}

func TestClaimService_SubmitClaim_Validation(t *testing.T) {
	maxAmount := 200.0

	tests := []struct {
		name     string
		mutate   func(in *SubmitClaimInput)
		category *entity.ExpenseCategory
	}{
		{"zero amount", func(in *SubmitClaimInput) { in.Amount = 0 }, nil},
		{"negative amount", func(in *SubmitClaimInput) { in.Amount = -5 }, nil},
		{"blank description", func(in *SubmitClaimInput) { in.Description = "   " }, nil},
		{"missing incurred date", func(in *SubmitClaimInput) { in.IncurredDate = time.Time{} }, nil},
		{"inactive category", func(in *SubmitClaimInput) {},
			&entity.ExpenseCategory{ID: 1, IsActive: false}},
		{"amount over category cap", func(in *SubmitClaimInput) { in.Amount = 500 },
			&entity.ExpenseCategory{ID: 1, IsActive: true, MaxAmount: &maxAmount}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newClaimServiceFixture()
			if tt.category != nil {
				f.categoryRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExpenseCategory, error) {
					return tt.category, nil
				}
			}

			in := validInput()
			tt.mutate(&in)

			_, err := f.service.SubmitClaim(context.Background(), in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("SubmitClaim() error = %v, want validation error", err)
			}
			if len(f.auditRepo.created) != 0 {
				t.Errorf("no audit entry expected on validation failure")
			}
		})
	}
}

func TestClaimService_SubmitClaim_ReferenceCollisionRetries(t *testing.T) {
	f := newClaimServiceFixture()

	var references []string
	f.claimRepo.createFunc = func(ctx context.Context, claim *entity.Claim) error {
		references = append(references, claim.ReferenceNumber)
		if len(references) == 1 {
			return apperror.Conflict("reference taken")
		}
		claim.ID = 3
		return nil
	}

	_, err := f.service.SubmitClaim(context.Background(), validInput())
	if err != nil {
		t.Fatalf("SubmitClaim() error = %v", err)
	}
	if len(references) != 2 {
		t.Fatalf("expected 2 insert attempts, got %d", len(references))
	}
	if references[0] == references[1] {
		t.Errorf("retry must generate a fresh reference")
	}
}

func TestClaimService_SubmitClaim_ReferenceRetriesExhausted(t *testing.T) {
	f := newClaimServiceFixture()

	attempts := 0
	f.claimRepo.createFunc = func(ctx context.Context, claim *entity.Claim) error {
		attempts++
		return apperror.Conflict("reference taken")
	}

	_, err := f.service.SubmitClaim(context.Background(), validInput())
	if !errors.Is(err, apperror.ErrSystem) {
		t.Errorf("SubmitClaim() error = %v, want system error", err)
	}
	if attempts != maxReferenceAttempts {
		t.Errorf("attempts = %d, want %d", attempts, maxReferenceAttempts)
	}
}

func TestClaimService_SubmitDraft(t *testing.T) {
	f := newClaimServiceFixture()

	draft := &entity.Claim{ID: 5, UserID: 10, Status: entity.StatusDraft, ReferenceNumber: "CLM-2026-00005"}
	f.claimRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.Claim, error) {
		return draft, nil
	}

	if _, err := f.service.SubmitDraft(context.Background(), 5, 10); err != nil {
		t.Fatalf("SubmitDraft() error = %v", err)
	}
	if len(f.auditRepo.created) != 1 || f.auditRepo.created[0].Action != entity.AuditActionSubmit {
		t.Errorf("expected one submit audit entry, got %+v", f.auditRepo.created)
	}
}

func TestClaimService_SubmitDraft_WrongOwner(t *testing.T) {
	f := newClaimServiceFixture()

	f.claimRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.Claim, error) {
		return &entity.Claim{ID: 5, UserID: 10, Status: entity.StatusDraft}, nil
	}

	_, err := f.service.SubmitDraft(context.Background(), 5, 99)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("SubmitDraft() error = %v, want not found", err)
	}
}

func TestClaimService_SubmitDraft_AlreadySubmitted(t *testing.T) {
	f := newClaimServiceFixture()

	f.claimRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.Claim, error) {
		return &entity.Claim{ID: 5, UserID: 10, Status: entity.StatusSubmitted}, nil
	}

	_, err := f.service.SubmitDraft(context.Background(), 5, 10)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("SubmitDraft() error = %v, want not found", err)
	}
}

func reviewFixture() *claimServiceFixture {
	f := newClaimServiceFixture()

	managerID := int64(20)
	f.claimRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.Claim, error) {
		return &entity.Claim{
			ID: id, UserID: 10, DepartmentID: 1,
			Status: entity.StatusSubmitted, ReferenceNumber: "CLM-2026-00042",
		}, nil
	}
	f.departmentRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.Department, error) {
		return &entity.Department{ID: id, ManagerID: &managerID}, nil
	}
	f.userRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.User, error) {
		role := entity.RoleEmployee
		switch id {
		case 20:
			role = entity.RoleManager
		case 30:
			role = entity.RoleFinanceOfficer
		case 40:
			role = entity.RoleAdmin
		}
		return &entity.User{ID: id, Role: role, IsActive: true}, nil
	}
	return f
}

func TestClaimService_ReviewClaim_Approve(t *testing.T) {
	f := reviewFixture()

	approved := false
	f.claimRepo.approveFunc = func(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, notes string) error {
		if from != entity.StatusSubmitted {
			t.Errorf("approve from = %v, want Submitted", from)
		}
		if approverID != 20 {
			t.Errorf("approverID = %d, want 20", approverID)
		}
		approved = true
		return nil
	}

	_, err := f.service.ReviewClaim(context.Background(), 42, 20, DecisionApprove, "ok")
	if err != nil {
		t.Fatalf("ReviewClaim() error = %v", err)
	}
	if !approved {
		t.Error("expected Approve to be called")
	}
	if len(f.auditRepo.created) != 1 || f.auditRepo.created[0].Action != entity.AuditActionApprove {
		t.Errorf("expected approve audit entry, got %+v", f.auditRepo.created)
	}
	if len(f.notificationRepo.created) != 1 || f.notificationRepo.created[0].Type != entity.NotificationClaimApproved {
		t.Errorf("expected claim_approved notification, got %+v", f.notificationRepo.created)
	}
	if f.notificationRepo.created[0].RecipientID != 10 {
		t.Errorf("notification recipient = %d, want claim owner 10", f.notificationRepo.created[0].RecipientID)
	}
}

func TestClaimService_ReviewClaim_Reject(t *testing.T) {
	f := reviewFixture()

	f.claimRepo.rejectFunc = func(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, reason string) error {
		if reason != "missing receipt" {
			t.Errorf("reason = %q", reason)
		}
		return nil
	}

	_, err := f.service.ReviewClaim(context.Background(), 42, 20, DecisionReject, "missing receipt")
	if err != nil {
		t.Fatalf("ReviewClaim() error = %v", err)
	}
	if len(f.auditRepo.created) != 1 || f.auditRepo.created[0].Action != entity.AuditActionReject {
		t.Errorf("expected reject audit entry, got %+v", f.auditRepo.created)
	}
	if len(f.notificationRepo.created) != 1 || f.notificationRepo.created[0].Type != entity.NotificationClaimRejected {
		t.Errorf("expected claim_rejected notification, got %+v", f.notificationRepo.created)
	}
}

func TestClaimService_ReviewClaim_Errors(t *testing.T) {
	tests := []struct {
		name       string
		reviewerID int64
		decision   Decision
		notes      string
		claimFunc  func(ctx context.Context, id int64) (*entity.Claim, error)
		wantErr    error
	}{
		{"unknown decision", 20, Decision("escalate"), "", nil, apperror.ErrValidation},
		{"reject without reason", 20, DecisionReject, "  ", nil, apperror.ErrValidation},
		{"employee cannot review", 10, DecisionApprove, "", nil, apperror.ErrUnauthorized},
		{"manager of another department", 99, DecisionApprove, "", nil, apperror.ErrUnauthorized},
		{"claim not submitted", 20, DecisionApprove, "",
			func(ctx context.Context, id int64) (*entity.Claim, error) {
				return &entity.Claim{ID: id, Status: entity.StatusApproved}, nil
			}, apperror.ErrNotFound},
		{"claim missing", 20, DecisionApprove, "",
			func(ctx context.Context, id int64) (*entity.Claim, error) {
				return nil, nil
			}, apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := reviewFixture()
			if tt.claimFunc != nil {
				f.claimRepo.getByIDFunc = tt.claimFunc
			}
			if tt.reviewerID == 99 {
				f.userRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.User, error) {
					return &entity.User{ID: id, Role: entity.RoleManager, IsActive: true}, nil
				}
			}

			_, err := f.service.ReviewClaim(context.Background(), 42, tt.reviewerID, tt.decision, tt.notes)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReviewClaim() error = %v, want %v", err, tt.wantErr)
			}
			if len(f.auditRepo.created) != 0 {
				t.Error("no audit entry expected on failure")
			}
			if len(f.notificationRepo.created) != 0 {
				t.Error("no notification expected on failure")
			}
		})
	}
}

func TestClaimService_ReviewClaim_LostRace(t *testing.T) {
	f := reviewFixture()

	f.claimRepo.approveFunc = func(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, notes string) error {
		return apperror.Conflict("claim already transitioned")
	}

	_, err := f.service.ReviewClaim(context.Background(), 42, 20, DecisionApprove, "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("ReviewClaim() error = %v, want conflict", err)
	}
}

func TestClaimService_MarkPaid(t *testing.T) {
	f := reviewFixture()

	f.claimRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.Claim, error) {
		return &entity.Claim{ID: id, UserID: 10, Status: entity.StatusApproved, ReferenceNumber: "CLM-2026-00042"}, nil
	}

	paid := false
	f.claimRepo.markPaidFunc = func(ctx context.Context, id int64, from entity.ClaimStatus, paymentRef string) error {
		if paymentRef != "PAY-777" {
			t.Errorf("paymentRef = %q", paymentRef)
		}
		paid = true
		return nil
	}

	_, err := f.service.MarkPaid(context.Background(), 42, 30, "PAY-777")
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if !paid {
		t.Error("expected MarkPaid to be called")
	}
	if len(f.auditRepo.created) != 1 || f.auditRepo.created[0].Action != entity.AuditActionMarkPaid {
		t.Errorf("expected mark_paid audit entry, got %+v", f.auditRepo.created)
	}
	if len(f.notificationRepo.created) != 1 || f.notificationRepo.created[0].Type != entity.NotificationClaimPaid {
		t.Errorf("expected claim_paid notification, got %+v", f.notificationRepo.created)
	}
}

func TestClaimService_MarkPaid_Errors(t *testing.T) {
	approvedClaim := func(ctx context.Context, id int64) (*entity.Claim, error) {
		return &entity.Claim{ID: id, UserID: 10, Status: entity.StatusApproved}, nil
	}

	tests := []struct {
		name       string
		userID     int64
		paymentRef string
		claimFunc  func(ctx context.Context, id int64) (*entity.Claim, error)
		wantErr    error
	}{
		{"empty payment reference", 30, "  ", approvedClaim, apperror.ErrValidation},
		{"manager cannot pay", 20, "PAY-1", approvedClaim, apperror.ErrUnauthorized},
		{"employee cannot pay", 10, "PAY-1", approvedClaim, apperror.ErrUnauthorized},
		{"claim not approved", 30, "PAY-1",
			func(ctx context.Context, id int64) (*entity.Claim, error) {
				return &entity.Claim{ID: id, Status: entity.StatusSubmitted}, nil
			}, apperror.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := reviewFixture()
			f.claimRepo.getByIDFunc = tt.claimFunc

			_, err := f.service.MarkPaid(context.Background(), 42, tt.userID, tt.paymentRef)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("MarkPaid() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClaimService_PendingApprovals(t *testing.T) {
	f := newClaimServiceFixture()

	f.claimRepo.countPendingFunc = func(ctx context.Context, reviewer *entity.User) (int, error) {
		return 7, nil
	}
	f.claimRepo.listPendingFunc = func(ctx context.Context, reviewer *entity.User, limit, offset int) ([]*entity.ClaimSummary, error) {
		return []*entity.ClaimSummary{{ID: 1}, {ID: 2}}, nil
	}

	manager := &entity.User{ID: 20, Role: entity.RoleManager}
	claims, total, err := f.service.PendingApprovals(context.Background(), manager, 10, 0)
	if err != nil {
		t.Fatalf("PendingApprovals() error = %v", err)
	}
	if total != 7 || len(claims) != 2 {
		t.Errorf("got %d claims, total %d", len(claims), total)
	}

	employee := &entity.User{ID: 10, Role: entity.RoleEmployee}
	if _, _, err := f.service.PendingApprovals(context.Background(), employee, 10, 0); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("employee PendingApprovals() error = %v, want unauthorized", err)
	}
}

func TestClaimService_GetClaim_Visibility(t *testing.T) {
	f := newClaimServiceFixture()

	f.claimRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.Claim, error) {
		return &entity.Claim{ID: id, UserID: 10, Status: entity.StatusSubmitted}, nil
	}

	owner := &entity.User{ID: 10, Role: entity.RoleEmployee}
	if _, err := f.service.GetClaim(context.Background(), 1, owner); err != nil {
		t.Errorf("owner GetClaim() error = %v", err)
	}

	stranger := &entity.User{ID: 11, Role: entity.RoleEmployee}
	if _, err := f.service.GetClaim(context.Background(), 1, stranger); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("stranger GetClaim() error = %v, want not found", err)
	}

	reviewer := &entity.User{ID: 30, Role: entity.RoleFinanceOfficer}
	if _, err := f.service.GetClaim(context.Background(), 1, reviewer); err != nil {
		t.Errorf("reviewer GetClaim() error = %v", err)
	}
}

func TestClaimService_GetClaimByReference(t *testing.T) {
	f := newClaimServiceFixture()

	f.claimRepo.getByRefFunc = func(ctx context.Context, ref string) (*entity.Claim, error) {
		if ref != "CLM-2026-00042" {
			return nil, nil
		}
		return &entity.Claim{ID: 42, ReferenceNumber: ref, UserID: 10, Status: entity.StatusSubmitted}, nil
	}

	owner := &entity.User{ID: 10, Role: entity.RoleEmployee}
	claim, err := f.service.GetClaimByReference(context.Background(), "CLM-2026-00042", owner)
	if err != nil {
		t.Fatalf("GetClaimByReference() error = %v", err)
	}
	if claim.ID != 42 {
		t.Errorf("claim ID = %d, want 42", claim.ID)
	}

	stranger := &entity.User{ID: 11, Role: entity.RoleEmployee}
	if _, err := f.service.GetClaimByReference(context.Background(), "CLM-2026-00042", stranger); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("stranger lookup error = %v, want not found", err)
	}

	reviewer := &entity.User{ID: 30, Role: entity.RoleFinanceOfficer}
	if _, err := f.service.GetClaimByReference(context.Background(), "CLM-2026-00042", reviewer); err != nil {
		t.Errorf("reviewer lookup error = %v", err)
	}

	if _, err := f.service.GetClaimByReference(context.Background(), "CLM-2026-99999", owner); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown reference error = %v, want not found", err)
	}
}
