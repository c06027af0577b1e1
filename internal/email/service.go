package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"gymdesk/internal/civil"
	"gymdesk/internal/metrics"
)

const (
	queueKey  = "gymdesk:emails"
	failedKey = "gymdesk:emails:failed"

	maxTries = 3
)

const (
	KindExpiring = "expiring"
	KindExpired  = "expired"
	KindGeneric  = "generic"
)

type EmailJob struct {
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Sender delivers one message. The default implementation speaks SMTP.
type Sender interface {
	Send(job EmailJob) error
}

type Config struct {
	FromEmail string
	FromName  string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
}

type Service struct {
	redis      *redis.Client
	sender     Sender
	fromName   string
	log        *slog.Logger
	now        func() time.Time
	retryDelay time.Duration
}

func New(cfg Config, rdb *redis.Client, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		redis:      rdb,
		sender:     &smtpSender{cfg: cfg},
		fromName:   cfg.FromName,
		log:        log,
		now:        time.Now,
		retryDelay: 5 * time.Second,
	}
}

func (s *Service) Send(ctx context.Context, kind, to, name, subject, body string) error {
	job := EmailJob{
		Kind:    kind,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: s.now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		s.log.Error("failed to marshal email job", "error", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		s.log.Error("failed to queue email", "to", to, "error", err)
		return err
	}

	s.log.Info("email queued", "kind", kind, "to", to)
	return nil
}

// Start drains the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	s.log.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

// processNext handles at most one job and reports whether it found one.
func (s *Service) processNext(ctx context.Context) bool {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			s.log.Warn("email queue unavailable", "error", err)
			sleep(ctx, s.retryDelay)
		}
		return false
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		s.log.Error("bad email job", "error", err)
		return true
	}

	job.Tries++
	s.log.Debug("sending email", "to", job.To, "attempt", job.Tries)
	if err := s.sender.Send(job); err != nil {
		s.log.Error("failed to send email", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			sleep(ctx, s.retryDelay)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, string(data))
			metrics.RecordEmail(job.Kind, "retry")
		} else {
			s.saveFailed(job, err)
			metrics.RecordEmail(job.Kind, "failed")
		}
		return true
	}

	metrics.RecordEmail(job.Kind, "sent")
	s.log.Info("email sent", "kind", job.Kind, "to", job.To)
	return true
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  s.now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, string(data))
	s.log.Error("email moved to failed queue", "to", job.To, "tries", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendExpiringReminder(ctx context.Context, to, name string, end civil.Date) error {
	subject := "Your membership ends on " + end.Time().Format("Jan 2, 2006")
	body := fmt.Sprintf(`Hi %s,

Your gym membership ends on %s.
Renew at the front desk to keep training without interruption.

See you at the gym!

- %s`, name, end.Time().Format("Monday, Jan 2, 2006"), s.fromName)

	return s.Send(ctx, KindExpiring, to, name, subject, body)
}

func (s *Service) SendExpiredNotice(ctx context.Context, to, name string, end civil.Date) error {
	subject := "Your membership has expired"
	body := fmt.Sprintf(`Hi %s,

Your gym membership expired on %s.
Drop by the front desk to renew it.

- %s`, name, end.Time().Format("Monday, Jan 2, 2006"), s.fromName)

	return s.Send(ctx, KindExpired, to, name, subject, body)
}

type smtpSender struct {
	cfg Config
}

func (s *smtpSender) Send(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromEmail)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	return smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{job.To}, []byte(message))
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
