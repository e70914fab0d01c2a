// internal/app/system/mailer/notifier.go
package mailer

import (
	"context"
	"fmt"

	"github.com/plantdesk/plantdesk/internal/domain/models"
)

// LockerNotifier sends locker-change emails to employees. Employees
// without an email address are skipped silently.
type LockerNotifier struct {
	sender   *Sender
	siteName string
}

// NewLockerNotifier wires a Sender into a locker-change notifier.
func NewLockerNotifier(sender *Sender, siteName string) *LockerNotifier {
	return &LockerNotifier{sender: sender, siteName: siteName}
}

// LockerChanged emails the employee their new locker. Releases (empty
// identifier) send nothing.
func (n *LockerNotifier) LockerChanged(ctx context.Context, employee models.Employee, room, identifier string) error {
	if identifier == "" || employee.Email == "" {
		return nil
	}
	email := BuildLockerAssignedEmail(LockerEmailData{
		SiteName:     n.siteName,
		EmployeeName: employee.FullName,
		Room:         room,
		Identifier:   identifier,
	})
	email.To = employee.Email
	if err := n.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("locker notification: %w", err)
	}
	return nil
}
