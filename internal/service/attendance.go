package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

// Attendance appends a check-in or check-out log for a worker, stamped with
// the current UTC time.
func (c *Commands) Attendance(ctx context.Context, user *model.User, logType model.LogType) string {
	if user == nil {
		return "You need to register first before logging attendance."
	}
	if user.Role != model.RoleWorker {
		return fmt.Sprintf("Attendance logging is only for 'worker' role. Your role is '%s'.", user.Role)
	}

	log := model.AttendanceLog{
		ID:        uuid.New(),
		UserID:    user.ID,
		LogType:   logType,
		Timestamp: c.now().UTC(),
	}

	if _, err := c.attendance.Create(ctx, log); err != nil {
		c.logger.Error("Attendance command: failed to create log",
			"user_id", user.ID,
			"log_type", logType,
			"error", err.Error())
		return "A database error occurred."
	}

	c.logger.Info("Attendance command: logged",
		"user_id", user.ID,
		"log_type", logType)

	return fmt.Sprintf("Successfully logged '%s' at %s.", logType, log.Timestamp.Format("2006-01-02 15:04:05 UTC"))
}
