package webhook

import (
	"context"
	"log"

	"backend-pacewatch/internal/store"

	"github.com/gofiber/fiber/v2"
)

// Processor handles a newly created activity id.
type Processor interface {
	ProcessActivity(ctx context.Context, id int64, source string) error
}

// processEventFn is swapped in tests to observe the async dispatch.
var processEventFn = func(proc Processor, id int64) {
	go func() {
		if err := proc.ProcessActivity(context.Background(), id, store.SourceWebhook); err != nil {
			log.Printf("webhook: activity %d: %v", id, err)
		}
	}()
}

func RegisterRoutes(r fiber.Router, verifyToken string, proc Processor) {
	// Subscription validation: the provider calls GET with a challenge and
	// expects it echoed back only when the verify token matches.
	r.Get("/", func(c *fiber.Ctx) error {
		if c.Query("hub.mode") != "subscribe" || c.Query("hub.verify_token") != verifyToken {
			return fiber.NewError(fiber.StatusForbidden, "verify token mismatch")
		}
		return c.JSON(fiber.Map{"hub.challenge": c.Query("hub.challenge")})
	})

	// Event intake: acknowledge immediately, process in the background.
	// The provider retries deliveries that don't get a fast 200.
	r.Post("/", func(c *fiber.Ctx) error {
		var ev Event
		if err := c.BodyParser(&ev); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}

		if ev.ObjectType == "activity" && ev.AspectType == "create" {
			processEventFn(proc, ev.ObjectID)
		}
		return c.SendString("EVENT_RECEIVED")
	})
}
