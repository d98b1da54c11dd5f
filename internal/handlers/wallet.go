package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gigconnect/payments/internal/apperrors"
	"github.com/gigconnect/payments/internal/handlers/render"
	"github.com/gigconnect/payments/internal/handlers/userctx"
	"github.com/gigconnect/payments/internal/logger"
	"github.com/gigconnect/payments/internal/service/wallet"
)

func handleHoldEscrow(walletService walletService, l logger.Logger) http.Handler {
	type request struct {
		ProjectID  uuid.UUID `json:"projectId" validate:"required"`
		PaymentRef string    `json:"paymentRef"`
	}

	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		result, err := walletService.HoldEscrow(r.Context(), req.ProjectID, req.PaymentRef)

		switch {
		case err == nil:
			render.JSON(w, response{Message: result.Message})
		case errors.Is(err, apperrors.ErrProjectNotFound):
			render.ServiceError(w, "Project not found", http.StatusNotFound)
		default:
			l.Error("Failed to hold escrow", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleReleaseEscrow(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		Message          string  `json:"message"`
		TotalAmount      float64 `json:"totalAmount"`
		FreelancerAmount float64 `json:"freelancerAmount"`
		PlatformFee      float64 `json:"platformFee"`
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

		result, err := walletService.ReleaseEscrow(r.Context(), actorID, projectID)

		switch {
		case err == nil:
			total, _ := result.TotalAmount.Float64()
			freelancer, _ := result.FreelancerAmount.Float64()
			platformFee, _ := result.PlatformFee.Float64()
			render.JSON(w, response{result.Message, total, freelancer, platformFee})
		case errors.Is(err, apperrors.ErrProjectNotFound), errors.Is(err, apperrors.ErrWalletNotFound):
			render.ServiceError(w, "Project or wallet not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccessDenied):
			render.ServiceError(w, "Access denied", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrEscrowInsufficient):
			render.ServiceError(w, "Insufficient escrow balance", http.StatusBadRequest)
		default:
			l.Error("Failed to release escrow", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleWalletBalance(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		Available float64 `json:"availableBalance"`
		Escrow    float64 `json:"escrowBalance"`
		Total     float64 `json:"totalBalance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		balance, err := walletService.GetBalance(r.Context(), userID)

		switch {
		case err == nil:
			available, _ := balance.Available.Float64()
			escrow, _ := balance.Escrow.Float64()
			total, _ := balance.Total.Float64()
			render.JSON(w, response{available, escrow, total})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to get wallet balance", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleWithdraw(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		req, err := render.BindAndValidate[wallet.WithdrawalRequest](w, r)
		if err != nil {
			return
		}

		result, err := walletService.RequestWithdrawal(r.Context(), userID, req)

		switch {
		case err == nil:
			render.JSON(w, response{Message: result.Message})
		case errors.Is(err, apperrors.ErrWalletNotFound):
			render.ServiceError(w, "Wallet not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAmountNotPositive):
			render.ServiceError(w, "Invalid withdrawal amount", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrBalanceInsufficient):
			render.ServiceError(w, "Insufficient balance", http.StatusBadRequest)
		default:
			l.Error("Failed to request withdrawal", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListTransactions(walletService walletService, l logger.Logger) http.Handler {
	type transaction struct {
		ID        uuid.UUID  `json:"id"`
		ProjectID *uuid.UUID `json:"projectId,omitempty"`
		Amount    float64    `json:"amount"`
		Type      string     `json:"type"`
		Status    string     `json:"status"`
		CreatedAt time.Time  `json:"createdAt"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		trs, err := walletService.ListTransactions(r.Context(), userID)

		switch err {
		case nil:
			transactions := make([]transaction, 0, len(trs))
			for _, tr := range trs {
				amount, _ := tr.Amount.Float64()
				transactions = append(transactions, transaction{
					ID:        tr.ID,
					ProjectID: tr.ProjectID,
					Amount:    amount,
					Type:      tr.Type,
					Status:    tr.Status,
					CreatedAt: tr.CreatedAt,
				})
			}
			render.JSON(w, transactions)
		default:
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
