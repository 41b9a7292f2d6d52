package controllers

import (
	"net/url"
	"strconv"
	"strings"

	"studyhub/backend/models"
	"studyhub/backend/services"
	"studyhub/backend/utils"
	"studyhub/backend/validation"

	"github.com/gofiber/fiber/v2"
)

// courseParam returns the URL-decoded :name route parameter.
func courseParam(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || strings.TrimSpace(name) == "" {
		return "", utils.NewRequestError(fiber.StatusBadRequest, "Invalid course name")
	}
	return name, nil
}

func idParam(c *fiber.Ctx, key string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(key), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NewRequestError(fiber.StatusBadRequest, "Invalid "+key)
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into v and validates it.
func parseBody(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return utils.NewRequestError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	return validation.Struct(v)
}

// listQuery collects the values of a repeated key (?year=2021&year=2022).
// Values are taken whole so names containing commas survive.
func listQuery(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		if v := strings.TrimSpace(string(raw)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// statusQuery reads ?status=done|incorrect|unattempted.
func statusQuery(c *fiber.Ctx) (models.QuestionStatus, error) {
	return services.ParseStatus(c.Query("status"))
}
