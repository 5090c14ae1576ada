package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-insights/internal/api/dto"
	"github.com/spec-kit/field-insights/internal/auth"
	"github.com/spec-kit/field-insights/internal/service"
)

// TeamHandler lists the caller's organization.
type TeamHandler struct {
	accounts *service.AccountService
}

// NewTeamHandler constructs handler.
func NewTeamHandler(accounts *service.AccountService) *TeamHandler {
	return &TeamHandler{accounts: accounts}
}

// Team GET /team.
func (h *TeamHandler) Team(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	members, err := h.accounts.ListTeam(c.UserContext(), caller)
	if err != nil {
		return err
	}
	items := make([]dto.TeamMemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, teamMemberResponse(m))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Regions GET /regions.
func (h *TeamHandler) Regions(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	regions, err := h.accounts.ListRegions(c.UserContext(), caller)
	if err != nil {
		return err
	}
	items := make([]dto.UnitResponse, 0, len(regions))
	for _, r := range regions {
		items = append(items, dto.UnitResponse{ID: r.ID, Kind: string(r.Kind), Name: r.Name, OwnerAccountID: r.OwnerAccountID})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stores GET /stores.
func (h *TeamHandler) Stores(c *fiber.Ctx) error {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return err
	}
	stores, err := h.accounts.ListStores(c.UserContext(), caller)
	if err != nil {
		return err
	}
	items := make([]dto.StoreResponse, 0, len(stores))
	for _, st := range stores {
		items = append(items, dto.StoreResponse{
			ID:             st.ID,
			Name:           st.Name,
			Code:           st.Code,
			Address:        st.Address,
			OwnerAccountID: st.OwnerAccountID,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
