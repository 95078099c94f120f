package email

import "fmt"

// PasswordResetData contains the data needed for the password-reset template.
type PasswordResetData struct {
	Email    string
	ResetURL string
	AppName  string
}

// BuildPasswordResetEmail creates the password-reset message sent when an
// operator triggers a reset for a secretary or for the admin account.
func BuildPasswordResetEmail(data PasswordResetData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Dental Admin"
	}

	subject := fmt.Sprintf("Reset your %s password", appName)

	textBody := fmt.Sprintf(`Hi,

A password reset was requested for this address.

Reset your password using the link below:
%s

If you did not request this, you can ignore this email.

Thanks,
The %s Team`,
		data.ResetURL, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Password reset</h2>
    <p>A password reset was requested for this address.</p>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Reset Password</a>
    </p>
    <p>If you did not request this, you can ignore this email.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		data.ResetURL, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
