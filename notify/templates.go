package notify

import "fmt"

func render(template TemplateName, data TemplateData) (subject, html string, err error) {
	switch template {
	case TemplateInvitation:
		return "You have been invited", invitationTemplate(data["name"], data["link"]), nil
	default:
		return "", "", fmt.Errorf("unknown template %q", template)
	}
}

func invitationTemplate(name, link string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>Hello %s,</h2>
	<p>You have been invited to join the workspace. Click the button below to
	choose a password and activate your account.</p>
	<p style="margin: 24px 0;">
		<a href="%s" style="background-color: #2563eb; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px;">
			Accept invitation
		</a>
	</p>
	<p>If the button does not work, copy this link into your browser:</p>
	<p><a href="%s">%s</a></p>
	<p style="color: #6b7280; font-size: 12px;">If you were not expecting this
	invitation you can ignore this email.</p>
</div>`, name, link, link, link)
}
