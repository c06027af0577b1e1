package server

import (
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/auth"
	"gymdesk/internal/config"
	"gymdesk/internal/dashboard"
	"gymdesk/internal/member"
	"gymdesk/internal/notification"
	"gymdesk/internal/payment"
	"gymdesk/internal/plan"
	"gymdesk/internal/user"
)

// Services holds every domain service built over one database handle.
type Services struct {
	Tokens        *auth.Issuer
	Users         user.Service
	Plans         plan.Service
	Members       member.Service
	Payments      payment.Service
	Dashboard     *dashboard.Service
	Notifications notification.Service
}

// NewServices wires repositories and services. mailer may be nil.
func NewServices(database *sqlx.DB, cfg *config.Config, mailer notification.Mailer, now func() time.Time, log *slog.Logger) Services {
	if now == nil {
		now = time.Now
	}

	tokens := auth.NewIssuer(cfg.JWTSecret, now)
	memberRepo := member.NewRepository(database)
	plans := plan.NewService(plan.NewRepository(database), now)
	payments := payment.NewService(payment.NewRepository(database), memberRepo, plans, now, log.With("component", "payment"))

	return Services{
		Tokens:        tokens,
		Users:         user.NewService(user.NewRepository(database), tokens, now, log.With("component", "user")),
		Plans:         plans,
		Members:       member.NewService(memberRepo, plans, now, log.With("component", "member")),
		Payments:      payments,
		Dashboard:     dashboard.NewService(memberRepo, payments, now, log.With("component", "dashboard")),
		Notifications: notification.NewService(notification.NewRepository(database), memberRepo, mailer, now, log.With("component", "notification")),
	}
}

func (s Services) Handlers(now func() time.Time) Handlers {
	return Handlers{
		Tokens:        s.Tokens,
		Users:         user.NewHandler(s.Users),
		Members:       member.NewHandler(s.Members, now),
		Plans:         plan.NewHandler(s.Plans),
		Payments:      payment.NewHandler(s.Payments, now),
		Dashboard:     dashboard.NewHandler(s.Dashboard),
		Notifications: notification.NewHandler(s.Notifications),
	}
}
