package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gigconnect/payments/internal/apperrors"
	"github.com/gigconnect/payments/internal/models"
	"github.com/gigconnect/payments/internal/repository"
	"github.com/gigconnect/payments/internal/service/fee"
)

const (
	companyName    = "GigConnect Platform"
	companyAddress = "GigConnect HQ, 14 Residency Road, Bengaluru - 560025"
	companyEmail   = "billing@gigconnect.example"
	companyPhone   = "+91 8000112233"
)

// Service releases partial milestone payments and projects the transaction
// log into role-specific payment history and invoices
type Service struct {
	storage repository.Storage
	fee     fee.Fee
	now     func() time.Time
}

func NewService(storage repository.Storage, f fee.Fee) *Service {
	return &Service{
		storage: storage,
		fee:     f,
		now:     time.Now,
	}
}

type MilestoneResult struct {
	Message          string
	Amount           decimal.Decimal
	FreelancerAmount decimal.Decimal
	PlatformFee      decimal.Decimal
	MilestoneIndex   int
}

// ReleaseMilestone moves amount from escrow to the freelancer's available
// balance for one named milestone. Releasing the same (project, index)
// twice fails: the check here catches retried requests, and the unique
// constraint behind MilestoneRepo.UpsertReleased backs it up under races.
//
// The amount is checked against the current escrow balance only. Nothing
// caps the cumulative sum of milestone releases at the project price, so
// undisciplined callers can release more than the project is worth.
func (s *Service) ReleaseMilestone(ctx context.Context, actorID, projectID uuid.UUID, index int, amount decimal.Decimal, title string) (MilestoneResult, error) {
	var result MilestoneResult

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		project, err := st.Project().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if project.CreatorID != actorID {
			return fmt.Errorf("only project creator can release milestone payment: %w", apperrors.ErrAccessDenied)
		}

		if index < 0 || title == "" {
			return apperrors.ErrMilestoneDataMissing
		}
		if !amount.IsPositive() {
			return apperrors.ErrAmountNotPositive
		}

		existing, err := st.Milestone().Get(ctx, project.ID, index)
		switch {
		case err == nil && existing.Status == models.MilestoneReleased:
			return apperrors.ErrMilestoneAlreadyReleased
		case err == nil, errors.Is(err, apperrors.ErrMilestoneNotFound):
		default:
			return err
		}

		w, err := st.Wallet().GetOrCreate(ctx, project.FreelancerID, true)
		if err != nil {
			return err
		}

		if w.EscrowBalance.LessThan(amount) {
			return apperrors.ErrEscrowInsufficient
		}

		platformFee, freelancerAmount := s.fee.Split(amount)

		w, err = st.Wallet().UpdateBalances(ctx, w.ID,
			w.AvailableBalance.Add(freelancerAmount),
			w.EscrowBalance.Sub(amount),
		)
		if err != nil {
			return err
		}

		releasedAt := s.now()
		_, err = st.Milestone().UpsertReleased(ctx, models.MilestonePayment{
			ProjectID:      project.ID,
			MilestoneIndex: index,
			MilestoneTitle: title,
			Amount:         amount,
			ReleasedAt:     &releasedAt,
		})
		if err != nil {
			return err
		}

		_, err = st.Transaction().Create(ctx, models.WalletTransaction{
			WalletID:  w.ID,
			ProjectID: &project.ID,
			Amount:    freelancerAmount,
			Type:      models.TransactionMilestonePayment,
			Status:    models.TransactionStatusCompleted,
		})
		if err != nil {
			return err
		}

		result = MilestoneResult{
			Message:          "Milestone payment released successfully",
			Amount:           amount,
			FreelancerAmount: freelancerAmount,
			PlatformFee:      platformFee,
			MilestoneIndex:   index,
		}

		event, err := json.Marshal(milestoneEvent{
			ProjectID:      project.ID,
			FreelancerID:   project.FreelancerID,
			MilestoneIndex: index,
			Amount:         amount,
		})
		if err != nil {
			return fmt.Errorf("can't marshal milestone event: %w", err)
		}

		_, err = st.Outbox().Add(ctx, models.OutboxEvent{Kind: models.EventMilestoneReleased, Payload: event})
		return err
	})
	if err != nil {
		return MilestoneResult{}, err
	}

	return result, nil
}

type HistoryEntry struct {
	ID             uuid.UUID
	Title          string
	Amount         decimal.Decimal
	Date           time.Time
	PaymentRef     *string
	Status         string
	Type           string
	Description    string
	FreelancerName string
	CreatorName    string
	BankAccount    *string
	IFSCCode       *string
}

// History projects payments for one user depending on the role: creators
// see the projects they paid for, freelancers see their wallet's log with
// type-specific descriptions. Read-only, mutates nothing.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error) {
	user, err := s.storage.User().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case models.RoleCreator:
		return s.creatorHistory(ctx, user)
	case models.RoleFreelancer:
		return s.freelancerHistory(ctx, user)
	default:
		return []HistoryEntry{}, nil
	}
}

func (s *Service) creatorHistory(ctx context.Context, creator models.User) ([]HistoryEntry, error) {
	projects, err := s.storage.Project().ListPaidByCreator(ctx, creator.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(projects))
	for _, project := range projects {
		freelancerName := "Unknown"
		if freelancer, err := s.storage.User().GetByID(ctx, project.FreelancerID); err == nil {
			freelancerName = freelancer.Name
		}

		date := project.CreatedAt
		if project.PaymentDate != nil {
			date = *project.PaymentDate
		}

		entries = append(entries, HistoryEntry{
			ID:             project.ID,
			Title:          project.Title,
			Amount:         project.Price,
			Date:           date,
			PaymentRef:     project.PaymentRef,
			Status:         project.Status,
			Type:           "PAYMENT_MADE",
			Description:    fmt.Sprintf("Payment to %s for %s", freelancerName, project.Title),
			FreelancerName: freelancerName,
		})
	}

	return entries, nil
}

func (s *Service) freelancerHistory(ctx context.Context, freelancer models.User) ([]HistoryEntry, error) {
	w, err := s.storage.Wallet().Get(ctx, freelancer.ID, false)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrWalletNotFound):
		return []HistoryEntry{}, nil
	default:
		return nil, err
	}

	transactions, err := s.storage.Transaction().ListByWallet(ctx, w.ID, nil)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(transactions))
	for _, tr := range transactions {
		entry := HistoryEntry{
			ID:     tr.ID,
			Amount: tr.Amount,
			Date:   tr.CreatedAt,
			Status: tr.Status,
			Type:   tr.Type,
		}

		switch tr.Type {
		case models.TransactionEscrowRelease, models.TransactionMilestonePayment:
			entry.Title = "Project Payment"
			if tr.ProjectID != nil {
				if project, err := s.storage.Project().Get(ctx, *tr.ProjectID); err == nil {
					entry.Title = project.Title
					if creator, err := s.storage.User().GetByID(ctx, project.CreatorID); err == nil {
						entry.CreatorName = creator.Name
					}
				}
			}
			entry.Description = "Payment received for " + entry.Title
		case models.TransactionWithdrawal:
			entry.Title = "Withdrawal Request"
			entry.BankAccount = tr.BankAccount
			entry.IFSCCode = tr.IFSCCode
			entry.Description = "Withdrawal to bank account " + maskAccount(tr.BankAccount)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

type Invoice struct {
	InvoiceNumber         string
	ProjectTitle          string
	TotalAmount           decimal.Decimal
	PlatformFee           decimal.Decimal
	FreelancerAmount      decimal.Decimal
	PlatformFeePercentage float64
	PaymentDate           time.Time
	PaymentRef            string
	CreatorName           string
	FreelancerName        string
	Status                string
	EscrowStatus          string
	GeneratedAt           time.Time
	CompanyName           string
	CompanyAddress        string
	CompanyEmail          string
	CompanyPhone          string
}

// GenerateInvoice recomputes the fee split from the project price, so the
// invoice is deterministic regardless of when it is requested
func (s *Service) GenerateInvoice(ctx context.Context, actorID, projectID uuid.UUID) (Invoice, error) {
	project, err := s.storage.Project().Get(ctx, projectID)
	if err != nil {
		return Invoice{}, err
	}

	if project.CreatorID != actorID && project.FreelancerID != actorID {
		return Invoice{}, apperrors.ErrAccessDenied
	}

	platformFee, freelancerAmount := s.fee.Split(project.Price)
	now := s.now()

	invoice := Invoice{
		InvoiceNumber:         fmt.Sprintf("INV-%s-%d", project.ID, now.UnixMilli()),
		ProjectTitle:          project.Title,
		TotalAmount:           project.Price,
		PlatformFee:           platformFee,
		FreelancerAmount:      freelancerAmount,
		PlatformFeePercentage: s.fee.Percent(),
		PaymentDate:           now,
		Status:                project.Status,
		EscrowStatus:          project.EscrowStatus,
		GeneratedAt:           now,
		CompanyName:           companyName,
		CompanyAddress:        companyAddress,
		CompanyEmail:          companyEmail,
		CompanyPhone:          companyPhone,
	}

	if project.PaymentDate != nil {
		invoice.PaymentDate = *project.PaymentDate
	}
	if project.PaymentRef != nil {
		invoice.PaymentRef = *project.PaymentRef
	}

	if creator, err := s.storage.User().GetByID(ctx, project.CreatorID); err == nil {
		invoice.CreatorName = creator.Name
	}
	invoice.FreelancerName = "Unknown"
	if freelancer, err := s.storage.User().GetByID(ctx, project.FreelancerID); err == nil {
		invoice.FreelancerName = freelancer.Name
	}

	return invoice, nil
}

// ListMilestones returns the milestone payments of a project, in index
// order, for its creator or freelancer
func (s *Service) ListMilestones(ctx context.Context, actorID, projectID uuid.UUID) ([]models.MilestonePayment, error) {
	project, err := s.storage.Project().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.CreatorID != actorID && project.FreelancerID != actorID {
		return nil, apperrors.ErrAccessDenied
	}

	return s.storage.Milestone().ListByProject(ctx, project.ID)
}

type milestoneEvent struct {
	ProjectID      uuid.UUID       `json:"projectId"`
	FreelancerID   uuid.UUID       `json:"freelancerId"`
	MilestoneIndex int             `json:"milestoneIndex"`
	Amount         decimal.Decimal `json:"amount"`
}

func maskAccount(account *string) string {
	if account == nil {
		return "****"
	}

	a := *account
	if len(a) > 4 {
		a = a[len(a)-4:]
	}
	return "****" + a
}
