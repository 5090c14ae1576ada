package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-insights/internal/service"
)

// parseScopeQuery reads the dimension, member and window filters shared by
// read endpoints.
func parseScopeQuery(c *fiber.Ctx) service.ScopeQuery {
	return service.ScopeQuery{
		CityID:    c.Query("city_id"),
		StateID:   c.Query("state_id"),
		RegionID:  c.Query("region_id"),
		StoreID:   c.Query("store_id"),
		AccountID: c.Query("account_id"),
		Timeline:  c.Query("timeline"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
}
