// Package log emits structured JSON log lines. Helpers accept a fiber
// context so request-scoped fields (request id, ip, method, path, status)
// ride along without every call site repeating them.
package log

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"})
	return l
}

// SetOutput redirects all log lines, typically to a MultiWriter of stdout
// and a log file.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

func fieldsFor(c *fiber.Ctx, action string, extra map[string]any) logrus.Fields {
	f := logrus.Fields{"action": action}
	if c != nil {
		f["ip"] = c.IP()
		f["method"] = c.Method()
		f["path"] = c.Path()
		f["status"] = c.Response().StatusCode()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			f["req_id"] = rid
		}
	}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	logger.WithFields(fieldsFor(c, action, fields)).Info(action)
}

// Audit marks state-changing operations an operator may need to trace.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	logger.WithFields(fieldsFor(c, action, fields)).WithField("audit", true).Info(action)
}

// Security marks throttle hits, lockouts and similar events.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	logger.WithFields(fieldsFor(c, action, fields)).Warn(action)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := logger.WithFields(fieldsFor(c, action, fields))
	if err != nil {
		e = e.WithField("err", err.Error())
	}
	e.Error(action)
}
