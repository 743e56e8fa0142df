package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/farm-dashboard/internal/advisor"
	"github.com/i474232898/farm-dashboard/internal/contact"
	"github.com/i474232898/farm-dashboard/internal/market"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

var validate = validator.New()

// WeatherSource is the weather flow.
type WeatherSource interface {
	GetWeather(ctx context.Context, location string) weather.Snapshot
}

// PriceSource is the market price flow.
type PriceSource interface {
	GetMarketPrices(ctx context.Context, crop string) market.Prices
}

// Deps are the services behind the routes. Advisor and Metrics may be nil.
type Deps struct {
	Weather WeatherSource
	Prices  PriceSource
	Advisor *advisor.Advisor
	Contact *contact.Service
	Metrics http.Handler
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "farm-dashboard",
		})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	v1 := app.Group("/api/v1")

	// Query values alias the request buffer; the flows cache them as keys.

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q := weatherQuery{Location: strings.TrimSpace(utils.CopyString(c.Query("location")))}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}
		return c.JSON(deps.Weather.GetWeather(c.UserContext(), q.Location))
	})

	v1.Get("/market/prices", func(c *fiber.Ctx) error {
		q := pricesQuery{Crop: strings.TrimSpace(utils.CopyString(c.Query("crop")))}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "crop query parameter is required")
		}
		return c.JSON(deps.Prices.GetMarketPrices(c.UserContext(), q.Crop))
	})

	adv := v1.Group("/advisor", func(c *fiber.Ctx) error {
		if !deps.Advisor.Available() {
			return fiber.NewError(fiber.StatusServiceUnavailable, advisor.ErrUnavailable.Error())
		}
		return c.Next()
	})

	adv.Post("/crops", advisorRoute(deps.Advisor.CropAdvice))
	adv.Post("/pests", advisorRoute(deps.Advisor.PestPrediction))
	adv.Post("/irrigation", advisorRoute(deps.Advisor.IrrigationSchedule))
	adv.Post("/report", advisorRoute(deps.Advisor.FarmReport))
	adv.Post("/soil", advisorRoute(deps.Advisor.SoilAnalysis))
	adv.Post("/crop-problem", advisorRoute(deps.Advisor.IdentifyCropProblem))
	adv.Post("/weed", advisorRoute(deps.Advisor.IdentifyWeed))

	v1.Post("/contact", func(c *fiber.Ctx) error {
		var msg contact.Message
		if err := c.BodyParser(&msg); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		res, err := deps.Contact.Submit(c.UserContext(), msg)
		if err != nil {
			var verr *contact.ValidationError
			if errors.As(err, &verr) {
				return fiber.NewError(fiber.StatusBadRequest, verr.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to submit message")
		}
		return c.JSON(res)
	})
}

type weatherQuery struct {
	Location string `validate:"required,max=200"`
}

type pricesQuery struct {
	Crop string `validate:"required,max=100"`
}

func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// advisorRoute binds and validates the JSON body, then runs flow.
func advisorRoute[In, Out any](flow func(context.Context, In) (Out, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in In
		if err := bindBody(c, &in); err != nil {
			return err
		}
		out, err := flow(c.UserContext(), in)
		if err != nil {
			return advisorError(err)
		}
		return c.JSON(out)
	}
}

func advisorError(err error) error {
	var cerr *advisor.CompletionError
	switch {
	case errors.Is(err, advisor.ErrInvalidImage):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, advisor.ErrUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.As(err, &cerr):
		return fiber.NewError(fiber.StatusBadGateway, cerr.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "advisor request failed")
	}
}
