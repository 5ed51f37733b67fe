package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/auth"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
	"github.com/hhpro-max/lucky-lottery/internal/service"
)

// WalletHandler handles wallet balance, history, and money-movement endpoints.
type WalletHandler struct {
	wallets *service.WalletService
	db      repository.DBTX
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallets *service.WalletService, db repository.DBTX) *WalletHandler {
	return &WalletHandler{wallets: wallets, db: db}
}

// balanceResponse is the shape of GET /wallet.
type balanceResponse struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Balance  int64     `json:"balance"`
	Currency string    `json:"currency"`
}

// GetWallet handles GET /wallet.
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	wallet, err := h.wallets.GetWallet(r.Context(), h.db, userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, balanceResponse{
		WalletID: wallet.ID,
		Balance:  wallet.Balance,
		Currency: wallet.CurrencyCode,
	})
}

// moveMoneyRequest is the body of POST /wallet/deposit and /wallet/withdraw.
type moveMoneyRequest struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

// Deposit handles POST /wallet/deposit.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input moveMoneyRequest
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.wallets.Deposit(r.Context(), domain.DepositParams{
		UserID:    userID,
		Amount:    input.Amount,
		Reference: input.Reference,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// Withdraw handles POST /wallet/withdraw.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input moveMoneyRequest
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.wallets.Withdraw(r.Context(), domain.WithdrawParams{
		UserID:    userID,
		Amount:    input.Amount,
		Reference: input.Reference,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// txListResponse wraps a list of transactions with cursor.
type txListResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextCursor   *string              `json:"next_cursor,omitempty"`
}

// GetTransactions handles GET /wallet/transactions with cursor-based pagination.
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	txs, err := h.wallets.ListTransactions(r.Context(), h.db, userID, cursor, limit+1)
	if err != nil {
		RespondError(w, err)
		return
	}

	resp := txListResponse{Transactions: txs}
	if len(txs) > limit {
		resp.Transactions = txs[:limit]
		nextID := txs[limit].ID.String()
		resp.NextCursor = &nextID
	}

	RespondJSON(w, http.StatusOK, resp)
}

// userIDFromContext extracts and validates the user UUID from auth context.
func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	sub := auth.SubjectFromContext(r.Context())
	if sub == "" {
		return uuid.Nil, domain.ErrUnauthorized("no subject in context")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("invalid subject")
	}
	return id, nil
}
