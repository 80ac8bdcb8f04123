package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/surf-report/internal/store"
	"github.com/i474232898/surf-report/internal/surf"
)

var validate = validator.New()

// ReportService is what the routes need from the surf service.
type ReportService interface {
	FetchAndStore(ctx context.Context, loc surf.Location) error
	GetLatest(locationID string) (surf.SurfReport, error)
}

// LocationLookup resolves registered spots.
type LocationLookup func(id string) (surf.Location, bool)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service ReportService, locations []surf.Location, lookup LocationLookup) {
	v1 := app.Group("/api/v1")

	v1.Get("/locations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"locations": locations,
		})
	})

	v1.Get("/surf/:id", func(c *fiber.Ctx) error {
		var req reportQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, ok := lookup(req.ID)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown location")
		}

		if !req.Refresh {
			report, err := service.GetLatest(loc.ID)
			if err == nil {
				return c.JSON(report)
			}
			if !errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to read surf report")
			}
		}

		if err := service.FetchAndStore(c.UserContext(), loc); err != nil {
			if errors.Is(err, surf.ErrInvalidLocation) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, "unable to fetch conditions")
		}

		report, err := service.GetLatest(loc.ID)
		if err != nil {
			log.Error().Err(err).Str("location", loc.ID).Msg("report missing right after store")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read surf report")
		}
		return c.JSON(report)
	})
}

// reportQuery holds the parameters of the report endpoint.
type reportQuery struct {
	ID      string `validate:"required,max=64"`
	Refresh bool
}

func (r *reportQuery) bind(c *fiber.Ctx) error {
	r.ID = c.Params("id")
	r.Refresh = c.QueryBool("refresh", false)
	return validate.Struct(r)
}
