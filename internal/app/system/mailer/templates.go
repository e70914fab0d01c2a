// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// LockerEmailData holds data for locker-change email templates.
type LockerEmailData struct {
	SiteName     string
	EmployeeName string
	Room         string
	Identifier   string
}

// BuildLockerAssignedEmail creates the message sent when an employee is
// given a locker. The recipient is set by the caller.
func BuildLockerAssignedEmail(data LockerEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("%s: your locker assignment", data.SiteName),
		TextBody: buildLockerText(data),
		HTMLBody: buildLockerHTML(data),
	}
}

func buildLockerText(data LockerEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hello %s,\n\n", data.EmployeeName))
	buf.WriteString(fmt.Sprintf("You have been assigned locker %s in %s.\n\n", data.Identifier, data.Room))
	buf.WriteString("If you believe this assignment is incorrect, contact your supervisor.\n")
	return buf.String()
}

func buildLockerHTML(data LockerEmailData) string {
	tmpl := template.Must(template.New("locker").Parse(lockerHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const lockerHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Locker Assignment</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Hello {{.EmployeeName}}, you have been assigned a locker:
              </p>

              <!-- Locker Box -->
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 24px; text-align: center; margin-bottom: 24px;">
                <span style="font-size: 32px; font-weight: 700; color: #1f2937; font-family: 'Courier New', monospace;">{{.Identifier}}</span>
                <p style="margin: 8px 0 0; font-size: 14px; color: #6b7280;">{{.Room}}</p>
              </div>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you believe this assignment is incorrect, contact your supervisor.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
