package utils

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"driver-dispatch/types"
)

// Bodies above this size are elided from the request log; evidence
// photos arrive base64-inline and would bloat the logs table.
const maxLoggedBody = 8 * 1024

var redactedFields = []string{"password", "image"}

// CreateSanitizedLogEntry copies the request/response pair into a log
// entry, redacting credentials and truncating oversized bodies.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeBody(c.Body())
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}

func sanitizeBody(body []byte) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		if len(body) > maxLoggedBody {
			return "[body elided: too large]"
		}
		return string(append([]byte(nil), body...))
	}

	for _, key := range redactedFields {
		if _, ok := fields[key]; ok {
			fields[key] = "[redacted]"
		}
	}

	sanitized, err := json.Marshal(fields)
	if err != nil || len(sanitized) > maxLoggedBody {
		return "[body elided: too large]"
	}
	return string(sanitized)
}
