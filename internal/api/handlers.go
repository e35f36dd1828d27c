/**
 * @description
 * This file contains the HTTP handlers for the deposit-service's API endpoints.
 * Handlers are responsible for parsing incoming requests, calling the appropriate
 * methods on the application service, and writing the HTTP response. They act as the
 * bridge between the web layer and the business logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/luleka/deposit-service/internal/app"
	"github.com/luleka/deposit-service/internal/domain"
	"github.com/luleka/deposit-service/internal/store"
)

// DepositHandlers holds the application service that handlers will use.
type DepositHandlers struct {
	service            *app.Service
	rateLimiter        *app.RedisTransferRateLimiter
	transferRatePerMin int
}

// NewDepositHandlers creates the handler set. rateLimiter may be nil when rate
// limiting is disabled.
func NewDepositHandlers(service *app.Service, rateLimiter *app.RedisTransferRateLimiter, transferRatePerMin int) *DepositHandlers {
	return &DepositHandlers{
		service:            service,
		rateLimiter:        rateLimiter,
		transferRatePerMin: transferRatePerMin,
	}
}

type createAccountRequest struct {
	Type           string `json:"type"`
	OwnerName      string `json:"owner_name"`
	Destination    string `json:"destination"`
	TransferAmount any    `json:"transfer_amount,omitempty"`
}

type setTransferAmountRequest struct {
	Amount any `json:"amount"`
}

type validationResponse struct {
	Valid  bool               `json:"valid"`
	Errors domain.FieldErrors `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("level=warn component=api msg=\"response encode failed\" err=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// ownedAccount loads the account and enforces that the authenticated owner
// owns it.
func (h *DepositHandlers) ownedAccount(w http.ResponseWriter, r *http.Request) (*domain.DepositAccount, uuid.UUID, bool) {
	ownerRaw, ok := OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authentication")
		return nil, uuid.Nil, false
	}
	ownerID, err := uuid.Parse(ownerRaw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid owner id in token")
		return nil, uuid.Nil, false
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return nil, uuid.Nil, false
	}

	account, err := h.service.FindAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "deposit account not found")
			return nil, uuid.Nil, false
		}
		log.Printf("level=error component=api msg=\"account lookup failed\" account_id=%s err=%v", accountID, err)
		writeError(w, http.StatusInternalServerError, "failed to load deposit account")
		return nil, uuid.Nil, false
	}
	if account.OwnerID != ownerID {
		writeError(w, http.StatusForbidden, "account does not belong to authenticated owner")
		return nil, uuid.Nil, false
	}
	return account, ownerID, true
}

// CreateAccountHandler handles POST /accounts.
func (h *DepositHandlers) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	ownerRaw, ok := OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authentication")
		return
	}
	ownerID, err := uuid.Parse(ownerRaw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid owner id in token")
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.CreateAccount(r.Context(), req.Type, ownerID, req.OwnerName, req.Destination)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.TransferAmount != nil {
		amount, err := domain.MoneyFromAny(req.TransferAmount, account.Policy().Currency)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := h.service.SetTransferAmount(r.Context(), account.ID, &amount)
		if err != nil {
			log.Printf("level=error component=api msg=\"transfer amount persist failed\" account_id=%s err=%v", account.ID, err)
			writeError(w, http.StatusInternalServerError, "failed to set transfer amount")
			return
		}
		account = updated
	}

	writeJSON(w, http.StatusCreated, account)
}

// GetAccountHandler handles GET /accounts/{accountID}.
func (h *DepositHandlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	account, _, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// LifecycleHandler returns a handler that applies one state machine event.
func (h *DepositHandlers) LifecycleHandler(event domain.LifecycleEvent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, _, ok := h.ownedAccount(w, r)
		if !ok {
			return
		}
		updated, err := h.service.ApplyLifecycleEvent(r.Context(), account.ID, event)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidStateTransition) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			log.Printf("level=error component=api msg=\"lifecycle event failed\" account_id=%s event=%s err=%v", account.ID, event, err)
			writeError(w, http.StatusInternalServerError, "failed to apply lifecycle event")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// SetTransferAmountHandler handles PUT /accounts/{accountID}/transfer-amount.
// The amount may be a decimal string ("$1.00"), a number (1.25) or null.
func (h *DepositHandlers) SetTransferAmountHandler(w http.ResponseWriter, r *http.Request) {
	account, _, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}

	var req setTransferAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var amountPtr *domain.Money
	if req.Amount != nil {
		amount, err := domain.MoneyFromAny(req.Amount, account.Policy().Currency)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		amountPtr = &amount
	}

	updated, err := h.service.SetTransferAmount(r.Context(), account.ID, amountPtr)
	if err != nil {
		log.Printf("level=error component=api msg=\"transfer amount persist failed\" account_id=%s err=%v", account.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to set transfer amount")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// TransferDefaultsHandler handles GET /accounts/{accountID}/transfer-defaults.
func (h *DepositHandlers) TransferDefaultsHandler(w http.ResponseWriter, r *http.Request) {
	account, _, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}
	defaults, err := h.service.GetTransferDefaults(r.Context(), account.ID)
	if err != nil {
		log.Printf("level=error component=api msg=\"transfer defaults failed\" account_id=%s err=%v", account.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to compute transfer defaults")
		return
	}
	writeJSON(w, http.StatusOK, defaults)
}

// ValidateHandler handles GET /accounts/{accountID}/validation.
func (h *DepositHandlers) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	account, _, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}
	errs, err := h.service.Validate(r.Context(), account.ID)
	if err != nil {
		log.Printf("level=error component=api msg=\"validation failed\" account_id=%s err=%v", account.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to validate account")
		return
	}
	writeJSON(w, http.StatusOK, validationResponse{Valid: errs.Valid(), Errors: errs})
}

// TransferHandler handles POST /accounts/{accountID}/transfer.
func (h *DepositHandlers) TransferHandler(w http.ResponseWriter, r *http.Request) {
	account, ownerID, ok := h.ownedAccount(w, r)
	if !ok {
		return
	}

	if h.rateLimiter != nil && h.transferRatePerMin > 0 {
		count, retryAfter, err := h.rateLimiter.ConsumeRateLimit(r.Context(), "transfer", ownerID.String(), h.transferRatePerMin, time.Minute)
		if err != nil {
			log.Printf("level=warn component=api msg=\"rate limit check failed; allowing request\" owner_id=%s err=%v", ownerID, err)
		} else if count > h.transferRatePerMin {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "too many transfer attempts; try again later")
			return
		}
	}

	result, err := h.service.Transfer(r.Context(), account.ID)
	if err != nil {
		log.Printf("level=error component=api msg=\"transfer failed before attempt\" account_id=%s err=%v", account.ID, err)
		writeError(w, http.StatusInternalServerError, "transfer could not be attempted")
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// ListTransfersHandler handles GET /transfers for the authenticated owner.
func (h *DepositHandlers) ListTransfersHandler(w http.ResponseWriter, r *http.Request) {
	ownerRaw, ok := OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authentication")
		return
	}
	ownerID, err := uuid.Parse(ownerRaw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid owner id in token")
		return
	}
	transfers, err := h.service.ListTransfers(r.Context(), ownerID)
	if err != nil {
		log.Printf("level=error component=api msg=\"transfer list failed\" owner_id=%s err=%v", ownerID, err)
		writeError(w, http.StatusInternalServerError, "failed to list transfers")
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}
