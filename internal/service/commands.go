package service

import (
	"context"
	"io"
	"time"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/logger"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

// MediaFetcher downloads a message attachment for document upload.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// Commands holds the user-facing command handlers. Every handler validates
// input, applies role checks, performs at most one persistence operation and
// returns a human-readable reply string. Handlers never return errors to the
// caller; persistence failures are logged and turned into generic replies.
type Commands struct {
	users      model.UserStore
	attendance model.AttendanceStore
	salaries   model.SalaryStore
	kyc        model.KycStore
	storage    model.Storage
	fetcher    MediaFetcher
	logger     *logger.Logger
	now        func() time.Time
}

func NewCommands(
	users model.UserStore,
	attendance model.AttendanceStore,
	salaries model.SalaryStore,
	kyc model.KycStore,
	storage model.Storage,
	fetcher MediaFetcher,
	logger *logger.Logger,
) *Commands {
	return &Commands{
		users:      users,
		attendance: attendance,
		salaries:   salaries,
		kyc:        kyc,
		storage:    storage,
		fetcher:    fetcher,
		logger:     logger,
		now:        time.Now,
	}
}
