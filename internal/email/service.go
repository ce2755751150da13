package email

import (
	"context"
)

type Service interface {
	SendVerification(ctx context.Context, email, name, code string) error
	SendPasswordReset(ctx context.Context, email, name, code string) error
	SendWelcome(ctx context.Context, email, name string) error
	SendCustom(ctx context.Context, to, subject, content string) error
}
