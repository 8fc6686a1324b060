package handlers

import (
	"errors"
	"strconv"
	"strings"

	"mealscan-api/internal/core/services"
	"mealscan-api/internal/pkg/pagination"
	"mealscan-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles scanner account management endpoints (admin only)
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccount creates a scanner account
// @Summary Create scanner account
// @Description Create a new scanner or admin account
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateAccountInput true "Account data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/accounts [post]
func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req services.CreateAccountInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Username) == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	account, err := h.accountService.CreateAccount(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return response.Conflict(c, "Username already exists")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Role must be 'admin' or 'scanner'")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters")
		default:
			return response.InternalServerError(c, "Failed to create account")
		}
	}

	return response.Created(c, "Account created successfully", fiber.Map{
		"account": account,
	})
}

// GetAccount retrieves one scanner account
// @Summary Get scanner account
// @Description Get a scanner account by ID
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	account, err := h.accountService.GetAccount(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return response.NotFound(c, "Account not found")
		}
		return response.InternalServerError(c, "Failed to get account")
	}

	return response.Success(c, "Account retrieved successfully", fiber.Map{
		"account": account,
	})
}

// ListAccounts lists scanner accounts with pagination
// @Summary List scanner accounts
// @Description List scanner accounts with pagination
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/accounts [get]
func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.accountService.ListAccounts(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list accounts")
	}

	return response.Success(c, "Accounts retrieved successfully", fiber.Map{
		"accounts":   result.Accounts,
		"pagination": pagination.GetMeta(params, result.Total),
	})
}

// UpdateAccount updates a scanner account
// @Summary Update scanner account
// @Description Update role, active flag, or password of a scanner account
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body services.UpdateAccountInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	actingAdminID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	var req services.UpdateAccountInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	account, err := h.accountService.UpdateAccount(c.Context(), uint(id), actingAdminID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Role must be 'admin' or 'scanner'")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters")
		case errors.Is(err, services.ErrCannotChangeOwnRole):
			return response.BadRequest(c, "You cannot change your own role")
		case errors.Is(err, services.ErrCannotDeactivateSelf):
			return response.BadRequest(c, "You cannot deactivate your own account")
		case errors.Is(err, services.ErrCannotRemoveLastAdmin):
			return response.BadRequest(c, "Cannot remove the last active admin")
		default:
			return response.InternalServerError(c, "Failed to update account")
		}
	}

	return response.Success(c, "Account updated successfully", fiber.Map{
		"account": account,
	})
}

// DeactivateAccount marks a scanner account inactive
// @Summary Deactivate scanner account
// @Description Deactivate a scanner account so it can no longer log in
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/accounts/{id} [delete]
func (h *AccountHandler) DeactivateAccount(c *fiber.Ctx) error {
	actingAdminID, ok := c.Locals("accountID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	if err := h.accountService.DeactivateAccount(c.Context(), uint(id), actingAdminID); err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, services.ErrCannotDeactivateSelf):
			return response.BadRequest(c, "You cannot deactivate your own account")
		case errors.Is(err, services.ErrCannotRemoveLastAdmin):
			return response.BadRequest(c, "Cannot remove the last active admin")
		default:
			return response.InternalServerError(c, "Failed to deactivate account")
		}
	}

	return response.Success(c, "Account deactivated successfully", nil)
}
