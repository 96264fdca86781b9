// Package notify is the notification-delivery collaborator. The session core
// treats any Send error as a uniform delivery failure regardless of cause.
package notify

import "context"

type TemplateName string

const (
	TemplateInvitation TemplateName = "invitation"
)

// TemplateData carries the per-message substitutions for a template.
type TemplateData map[string]string

type Sender interface {
	Send(ctx context.Context, recipient string, template TemplateName, data TemplateData) error
}
