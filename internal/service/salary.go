package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

const recentSalaryLimit = 5

// SalaryInquiry lists the worker's five most recent salary payments, newest
// payment date first.
func (c *Commands) SalaryInquiry(ctx context.Context, user *model.User) string {
	if user == nil {
		return "You need to register first to inquire about salary."
	}
	if user.Role != model.RoleWorker {
		return fmt.Sprintf("Salary inquiry is only for 'worker' role. Your role is '%s'.", user.Role)
	}

	logs, err := c.salaries.GetRecentByWorker(ctx, user.ID, recentSalaryLimit)
	if err != nil {
		c.logger.Error("Salary command: failed to query logs",
			"user_id", user.ID,
			"error", err.Error())
		return "A database error occurred."
	}
	if len(logs) == 0 {
		return "No salary records found for you."
	}

	lines := make([]string, 0, len(logs)+1)
	lines = append(lines, "Your recent salary records:")
	for _, log := range logs {
		lines = append(lines, fmt.Sprintf("- %s: %s", log.PaymentDate.Format("2006-01-02"), log.Amount.StringFixed(2)))
	}

	return strings.Join(lines, "\n")
}

// LogSalary records a payment from an employer to a worker identified by
// card ID. Amounts are rounded half-up to two decimals; the payment date
// defaults to today when not supplied.
func (c *Commands) LogSalary(ctx context.Context, employer *model.User, cardParam, amountParam, dateParam, notesParam any) string {
	if employer == nil {
		c.logger.Error("Salary command: log salary called without employer user")
		return "Error: Could not identify sender. Please register."
	}
	if employer.Role != model.RoleEmployer {
		return fmt.Sprintf("Salary logging requires an 'employer' role. Your role is '%s'.", employer.Role)
	}

	workerCardID := scalarString(cardParam)
	amountRaw := ExtractScalar(amountParam)
	if workerCardID == "" || amountRaw == nil {
		return "Missing required salary details (Worker ID or Amount)."
	}

	amount, err := decimal.NewFromString(fmt.Sprintf("%v", amountRaw))
	if err != nil {
		return fmt.Sprintf("Error: Invalid amount received '%v'. Amount must be a non-negative number.", amountRaw)
	}
	amount = amount.Round(2)
	if amount.IsNegative() {
		return fmt.Sprintf("Error: Invalid amount received '%v'. Amount must be a non-negative number.", amountRaw)
	}

	paymentDate := c.now().UTC().Truncate(24 * time.Hour)
	if supplied := ExtractScalar(dateParam); supplied != nil && supplied != "" {
		dateStr := NormalizeDate(dateParam)
		if dateStr == "" {
			return "Error: Invalid date format received. Please use YYYY-MM-DD."
		}
		paymentDate, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.logger.Error("Salary command: failed to parse normalized date",
				"date", dateStr,
				"error", err.Error())
			return "Error processing received date."
		}
	}

	worker, err := c.users.GetWorkerByCardID(ctx, workerCardID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Sprintf("Error: No worker found with Sampatti Card ID '%s'.", workerCardID)
		}
		c.logger.Error("Salary command: failed to look up worker",
			"card_id", workerCardID,
			"error", err.Error())
		return "A database error occurred."
	}

	log := model.SalaryLog{
		ID:             uuid.New(),
		EmployerUserID: employer.ID,
		WorkerUserID:   worker.ID,
		Amount:         amount,
		PaymentDate:    paymentDate,
		Notes:          scalarString(notesParam),
		LoggedAt:       c.now().UTC(),
	}
	if _, err := c.salaries.Create(ctx, log); err != nil {
		c.logger.Error("Salary command: failed to create log",
			"employer_id", employer.ID,
			"worker_id", worker.ID,
			"error", err.Error())
		return "A database error occurred."
	}

	c.logger.Info("Salary command: logged",
		"employer_id", employer.ID,
		"worker_id", worker.ID)

	return fmt.Sprintf("Successfully logged salary of %s for worker %s on %s.",
		amount.StringFixed(2), workerCardID, paymentDate.Format("2006-01-02"))
}
