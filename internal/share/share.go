package share

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/myblog/blog/internal/mail"
	"github.com/myblog/blog/internal/post"
	"github.com/myblog/blog/pkg/logger"
	"github.com/myblog/blog/pkg/metrics"
)

// DefaultFrom is the sender address used when none is configured.
const DefaultFrom = "admin@myblog.com"

// ErrInvalid wraps validation failures of a share request.
var ErrInvalid = errors.New("invalid share request")

// Request is the "email this post" form.
type Request struct {
	Name     string `json:"name" form:"name" validate:"required,max=25"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	To       string `json:"to" form:"to" validate:"required,email"`
	Comments string `json:"comments" form:"comments"`
}

// Service recommends a post to someone by mail.
type Service struct {
	sender   mail.Sender
	validate *validator.Validate
	from     string
	baseURL  string
}

// NewService builds a share service. baseURL is the absolute site root used
// to build links, for example "https://myblog.com".
func NewService(sender mail.Sender, from, baseURL string) *Service {
	if from == "" {
		from = DefaultFrom
	}
	return &Service{
		sender:   sender,
		validate: validator.New(),
		from:     from,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Validate reports field errors of req as ErrInvalid.
func (s *Service) Validate(req Request) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field())+" "+fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Compose builds the message for p without sending it.
func (s *Service) Compose(p *post.Post, req Request) mail.Message {
	return mail.Message{
		Subject: fmt.Sprintf("%s recommends you read %s", req.Name, p.Title),
		Body:    fmt.Sprintf("Read %s at %s\n\n %s's comments: %s", p.Title, s.baseURL+p.URL(), req.Name, req.Comments),
		From:    s.from,
		To:      []string{req.To},
	}
}

// Share validates req and sends the recommendation. It reports whether the
// message was handed to the sender.
func (s *Service) Share(ctx context.Context, p *post.Post, req Request) (bool, error) {
	if err := s.Validate(req); err != nil {
		metrics.Shares.WithLabelValues("invalid").Inc()
		return false, err
	}
	if err := s.sender.Send(ctx, s.Compose(p, req)); err != nil {
		metrics.Shares.WithLabelValues("error").Inc()
		return false, fmt.Errorf("share post %s: %w", p.ID, err)
	}
	metrics.Shares.WithLabelValues("sent").Inc()
	logger.Infof("post %s shared by %s", p.ID, req.Email)
	return true, nil
}
