package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gigconnect/payments/internal/apperrors"
	"github.com/gigconnect/payments/internal/handlers/render"
	"github.com/gigconnect/payments/internal/handlers/userctx"
	"github.com/gigconnect/payments/internal/logger"
)

func handleReleaseMilestone(paymentService paymentService, l logger.Logger) http.Handler {
	type request struct {
		MilestoneIndex *int            `json:"milestoneIndex" validate:"required,min=0"`
		Amount         decimal.Decimal `json:"amount" validate:"required"`
		MilestoneTitle string          `json:"milestoneTitle" validate:"required"`
	}

	type response struct {
		Message          string  `json:"message"`
		Amount           float64 `json:"amount"`
		FreelancerAmount float64 `json:"freelancerAmount"`
		PlatformFee      float64 `json:"platformFee"`
		MilestoneIndex   int     `json:"milestoneIndex"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		projectID, err := uuid.Parse(r.PathValue("projectID"))
		if err != nil {
			render.ServiceError(w, "Invalid project id", http.StatusBadRequest)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		result, err := paymentService.ReleaseMilestone(r.Context(), actorID, projectID, *req.MilestoneIndex, req.Amount, req.MilestoneTitle)

		switch {
		case err == nil:
			amount, _ := result.Amount.Float64()
			freelancer, _ := result.FreelancerAmount.Float64()
			platformFee, _ := result.PlatformFee.Float64()
			render.JSON(w, response{result.Message, amount, freelancer, platformFee, result.MilestoneIndex})
		case errors.Is(err, apperrors.ErrProjectNotFound):
			render.ServiceError(w, "Project not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccessDenied):
			render.ServiceError(w, "Access denied", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrMilestoneDataMissing),
			errors.Is(err, apperrors.ErrAmountNotPositive),
			errors.Is(err, apperrors.ErrMilestoneAlreadyReleased),
			errors.Is(err, apperrors.ErrEscrowInsufficient):
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
		default:
			l.Error("Failed to release milestone payment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListMilestones(paymentService paymentService, l logger.Logger) http.Handler {
	type milestone struct {
		ProjectID      uuid.UUID  `json:"projectId"`
		MilestoneIndex int        `json:"milestoneIndex"`
		MilestoneTitle string     `json:"milestoneTitle"`
		Amount         float64    `json:"amount"`
		Status         string     `json:"status"`
		ReleasedAt     *time.Time `json:"releasedAt,omitempty"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		projectID, err := uuid.Parse(r.PathValue("projectID"))
		if err != nil {
			render.ServiceError(w, "Invalid project id", http.StatusBadRequest)
			return
		}

		milestones, err := paymentService.ListMilestones(r.Context(), actorID, projectID)

		switch {
		case err == nil:
			response := make([]milestone, 0, len(milestones))
			for _, m := range milestones {
				amount, _ := m.Amount.Float64()
				response = append(response, milestone{
					ProjectID:      m.ProjectID,
					MilestoneIndex: m.MilestoneIndex,
					MilestoneTitle: m.MilestoneTitle,
					Amount:         amount,
					Status:         m.Status,
					ReleasedAt:     m.ReleasedAt,
				})
			}
			render.JSON(w, response)
		case errors.Is(err, apperrors.ErrProjectNotFound):
			render.ServiceError(w, "Project not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccessDenied):
			render.ServiceError(w, "Access denied", http.StatusForbidden)
		default:
			l.Error("Failed to list milestone payments", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handlePaymentHistory(paymentService paymentService, l logger.Logger) http.Handler {
	type entry struct {
		ID             uuid.UUID `json:"id"`
		Title          string    `json:"title"`
		Amount         float64   `json:"amount"`
		Date           time.Time `json:"date"`
		PaymentRef     *string   `json:"paymentRef,omitempty"`
		Status         string    `json:"status"`
		Type           string    `json:"type"`
		Description    string    `json:"description"`
		FreelancerName string    `json:"freelancerName,omitempty"`
		CreatorName    string    `json:"creatorName,omitempty"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		history, err := paymentService.History(r.Context(), userID)

		switch {
		case err == nil:
			entries := make([]entry, 0, len(history))
			for _, h := range history {
				amount, _ := h.Amount.Float64()
				entries = append(entries, entry{
					ID:             h.ID,
					Title:          h.Title,
					Amount:         amount,
					Date:           h.Date,
					PaymentRef:     h.PaymentRef,
					Status:         h.Status,
					Type:           h.Type,
					Description:    h.Description,
					FreelancerName: h.FreelancerName,
					CreatorName:    h.CreatorName,
				})
			}
			render.JSON(w, entries)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to get payment history", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleGenerateInvoice(paymentService paymentService, l logger.Logger) http.Handler {
	type response struct {
		InvoiceNumber         string    `json:"invoiceNumber"`
		ProjectTitle          string    `json:"projectTitle"`
		TotalAmount           float64   `json:"totalAmount"`
		PlatformFee           float64   `json:"platformFee"`
		FreelancerAmount      float64   `json:"freelancerAmount"`
		PlatformFeePercentage float64   `json:"platformFeePercentage"`
		PaymentDate           time.Time `json:"paymentDate"`
		PaymentRef            string    `json:"paymentRef"`
		CreatorName           string    `json:"creatorName"`
		FreelancerName        string    `json:"freelancerName"`
		Status                string    `json:"status"`
		EscrowStatus          string    `json:"escrowStatus"`
		GeneratedAt           time.Time `json:"generatedAt"`
		CompanyName           string    `json:"companyName"`
		CompanyAddress        string    `json:"companyAddress"`
		CompanyEmail          string    `json:"companyEmail"`
		CompanyPhone          string    `json:"companyPhone"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		projectID, err := uuid.Parse(r.PathValue("projectID"))
		if err != nil {
			render.ServiceError(w, "Invalid project id", http.StatusBadRequest)
			return
		}

		invoice, err := paymentService.GenerateInvoice(r.Context(), actorID, projectID)

		switch {
		case err == nil:
			total, _ := invoice.TotalAmount.Float64()
			platformFee, _ := invoice.PlatformFee.Float64()
			freelancer, _ := invoice.FreelancerAmount.Float64()
			render.JSON(w, response{
				InvoiceNumber:         invoice.InvoiceNumber,
				ProjectTitle:          invoice.ProjectTitle,
				TotalAmount:           total,
				PlatformFee:           platformFee,
				FreelancerAmount:      freelancer,
				PlatformFeePercentage: invoice.PlatformFeePercentage,
				PaymentDate:           invoice.PaymentDate,
				PaymentRef:            invoice.PaymentRef,
				CreatorName:           invoice.CreatorName,
				FreelancerName:        invoice.FreelancerName,
				Status:                invoice.Status,
				EscrowStatus:          invoice.EscrowStatus,
				GeneratedAt:           invoice.GeneratedAt,
				CompanyName:           invoice.CompanyName,
				CompanyAddress:        invoice.CompanyAddress,
				CompanyEmail:          invoice.CompanyEmail,
				CompanyPhone:          invoice.CompanyPhone,
			})
		case errors.Is(err, apperrors.ErrProjectNotFound):
			render.ServiceError(w, "Project not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccessDenied):
			render.ServiceError(w, "Access denied", http.StatusForbidden)
		default:
			l.Error("Failed to generate invoice", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
