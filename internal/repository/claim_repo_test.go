package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uzima/reimbursement/internal/domain/apperror"
	"github.com/uzima/reimbursement/internal/domain/authz"
	"github.com/uzima/reimbursement/internal/domain/entity"
)

// newTestDB opens a throwaway SQLite database with the real schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "claims.db")
	sqlDB, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_initial_schema.sql"))
	require.NoError(t, err)
	_, err = sqlDB.Exec(string(schema))
	require.NoError(t, err)

	return NewDB(sqlDB, zap.NewNop())
}

// claimStoreFixture seeds two departments with distinct managers plus one
// user per role, the minimum layout on which the approval scoping rules
// can disagree.
type claimStoreFixture struct {
	claims *ClaimRepository
	depts  *DepartmentRepository

	engineering *entity.Department
	sales       *entity.Department

	engManager   *entity.User
	salesManager *entity.User
	finance      *entity.User
	admin        *entity.User
	employee     *entity.User
}

func newClaimStoreFixture(t *testing.T) *claimStoreFixture {
	t.Helper()

	db := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	f := &claimStoreFixture{
		claims: NewClaimRepository(db, logger),
		depts:  NewDepartmentRepository(db, logger),
	}
	users := NewUserRepository(db, logger)

	f.engineering = &entity.Department{Name: "Engineering", Code: "ENG"}
	f.sales = &entity.Department{Name: "Sales", Code: "SLS"}
	require.NoError(t, f.depts.Create(ctx, f.engineering))
	require.NoError(t, f.depts.Create(ctx, f.sales))

	newUser := func(name, email string, role entity.Role, deptID int64) *entity.User {
		u := &entity.User{
			FullName:     name,
			Email:        email,
			Password:     "hash",
			Role:         role,
			IsActive:     true,
			DepartmentID: &deptID,
		}
		require.NoError(t, users.Create(ctx, u))
		return u
	}
	f.engManager = newUser("Eng Manager", "eng.manager@example.com", entity.RoleManager, f.engineering.ID)
	f.salesManager = newUser("Sales Manager", "sales.manager@example.com", entity.RoleManager, f.sales.ID)
	f.finance = newUser("Finance Officer", "finance@example.com", entity.RoleFinanceOfficer, f.engineering.ID)
	f.admin = newUser("Admin", "admin@example.com", entity.RoleAdmin, f.engineering.ID)
	f.employee = newUser("Employee", "employee@example.com", entity.RoleEmployee, f.engineering.ID)

	require.NoError(t, f.depts.SetManager(ctx, f.engineering.ID, &f.engManager.ID))
	require.NoError(t, f.depts.SetManager(ctx, f.sales.ID, &f.salesManager.ID))

	var err error
	f.engineering, err = f.depts.GetByID(ctx, f.engineering.ID)
	require.NoError(t, err)
	f.sales, err = f.depts.GetByID(ctx, f.sales.ID)
	require.NoError(t, err)

	return f
}

func (f *claimStoreFixture) newClaim(t *testing.T, ref string, deptID int64, status entity.ClaimStatus) *entity.Claim {
	t.Helper()

	claim := &entity.Claim{
		ReferenceNumber: ref,
		UserID:          f.employee.ID,
		DepartmentID:    deptID,
		CategoryID:      1,
		Amount:          120,
		Currency:        "KSH",
		Description:     "Taxi to client site",
		IncurredDate:    time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Status:          status,
	}
	require.NoError(t, f.claims.Create(context.Background(), claim))
	return claim
}

// The pending-approvals listing and the authz gate implement the same rule
// independently (one in SQL, one in Go). This pins them to each other: for
// every reviewer and every submitted claim, the claim is listed exactly when
// the gate would let that reviewer act on it.
func TestClaimRepository_PendingScopeMatchesGate(t *testing.T) {
	f := newClaimStoreFixture(t)
	ctx := context.Background()

	engClaim := f.newClaim(t, "CLM-2026-00001", f.engineering.ID, entity.StatusSubmitted)
	salesClaim := f.newClaim(t, "CLM-2026-00002", f.sales.ID, entity.StatusSubmitted)
	draft := f.newClaim(t, "CLM-2026-00003", f.engineering.ID, entity.StatusDraft)

	departments := map[int64]*entity.Department{
		f.engineering.ID: f.engineering,
		f.sales.ID:       f.sales,
	}
	submitted := []*entity.Claim{engClaim, salesClaim}

	for _, reviewer := range []*entity.User{f.engManager, f.salesManager, f.finance, f.admin, f.employee} {
		summaries, err := f.claims.ListPendingForReviewer(ctx, reviewer, 50, 0)
		require.NoError(t, err)
		count, err := f.claims.CountPendingForReviewer(ctx, reviewer)
		require.NoError(t, err)
		assert.Equal(t, len(summaries), count, "%s: count and list disagree", reviewer.FullName)

		listed := make(map[int64]bool, len(summaries))
		for _, s := range summaries {
			listed[s.ID] = true
			assert.Equal(t, entity.StatusSubmitted, s.Status)
		}
		assert.False(t, listed[draft.ID], "%s: draft claim listed as pending", reviewer.FullName)

		for _, claim := range submitted {
			want := authz.CanReview(reviewer, departments[claim.DepartmentID])
			assert.Equal(t, want, listed[claim.ID],
				"%s on %s: listing and gate disagree", reviewer.FullName, claim.ReferenceNumber)
		}
	}
}

// Two reviewers racing on the same submitted claim: the guarded UPDATE lets
// exactly one through, the loser sees a conflict and the first decision stands.
func TestClaimRepository_TransitionSingleWinner(t *testing.T) {
	f := newClaimStoreFixture(t)
	ctx := context.Background()

	claim := f.newClaim(t, "CLM-2026-00010", f.engineering.ID, entity.StatusSubmitted)

	require.NoError(t, f.claims.Approve(ctx, claim.ID, entity.StatusSubmitted, f.engManager.ID, "receipts check out"))

	err := f.claims.Reject(ctx, claim.ID, entity.StatusSubmitted, f.finance.ID, "over budget")
	assert.ErrorIs(t, err, apperror.ErrConflict)
	err = f.claims.Approve(ctx, claim.ID, entity.StatusSubmitted, f.finance.ID, "also fine")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	stored, err := f.claims.GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, stored.Status)
	require.NotNil(t, stored.ApproverID)
	assert.Equal(t, f.engManager.ID, *stored.ApproverID)
	assert.Equal(t, "receipts check out", stored.Notes)

	require.NoError(t, f.claims.MarkPaid(ctx, claim.ID, entity.StatusApproved, "PAY-001"))
	err = f.claims.MarkPaid(ctx, claim.ID, entity.StatusApproved, "PAY-002")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestClaimRepository_SubmitDraftRace(t *testing.T) {
	f := newClaimStoreFixture(t)
	ctx := context.Background()

	draft := f.newClaim(t, "CLM-2026-00011", f.engineering.ID, entity.StatusDraft)

	require.NoError(t, f.claims.Submit(ctx, draft.ID, entity.StatusDraft))
	assert.ErrorIs(t, f.claims.Submit(ctx, draft.ID, entity.StatusDraft), apperror.ErrConflict)

	stored, err := f.claims.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSubmitted, stored.Status)
}

// A reference collision on insert must come back as a conflict, not a plain
// driver error, so the service layer knows to regenerate and retry.
func TestClaimRepository_DuplicateReferenceIsConflict(t *testing.T) {
	f := newClaimStoreFixture(t)

	f.newClaim(t, "CLM-2026-00020", f.engineering.ID, entity.StatusSubmitted)

	dup := &entity.Claim{
		ReferenceNumber: "CLM-2026-00020",
		UserID:          f.employee.ID,
		DepartmentID:    f.engineering.ID,
		CategoryID:      1,
		Amount:          50,
		Currency:        "KSH",
		Description:     "Same reference",
		IncurredDate:    time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
		Status:          entity.StatusSubmitted,
	}
	err := f.claims.Create(context.Background(), dup)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestClaimRepository_GetByReference(t *testing.T) {
	f := newClaimStoreFixture(t)
	ctx := context.Background()

	created := f.newClaim(t, "CLM-2026-00030", f.engineering.ID, entity.StatusSubmitted)

	claim, err := f.claims.GetByReference(ctx, "CLM-2026-00030")
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.Equal(t, created.ID, claim.ID)

	missing, err := f.claims.GetByReference(ctx, "CLM-2026-99999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
