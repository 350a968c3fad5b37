package service

import (
	"fmt"
	"strings"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

// Fallback builds the help reply used when no command is recognized. The
// command list is role-gated; unregistered senders only see the registration
// instruction.
func (c *Commands) Fallback(user *model.User, messageBody string) string {
	commands := []string{"'register <ID> <role>'", "'checkin'", "'checkout'", "'salary'"}
	if user != nil && user.Role == model.RoleEmployer {
		commands = append(commands, "'log salary <WorkerID> <Amt> [Date]'")
	}
	if user != nil && user.Role == model.RoleWorker {
		commands = append(commands, "'upload kyc <type>' (Coming soon)")
	}
	cmdList := strings.Join(commands, ", ")

	if messageBody == "" {
		if user != nil {
			return fmt.Sprintf("How can I help you? Try: %s.", cmdList)
		}
		return "Welcome! Please register using: register <YourSampattiID> <worker|employer>"
	}

	if user != nil {
		return fmt.Sprintf("Sorry, I didn't understand '%s'. Try: %s.", messageBody, cmdList)
	}
	return fmt.Sprintf("Sorry, I didn't understand '%s'. Please register first using: register <YourSampattiID> <worker|employer>", messageBody)
}
