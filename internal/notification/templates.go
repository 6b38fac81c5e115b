package notification

import (
	"fmt"
	"html"
)

func wrapHTML(title, body string) string {
	return fmt.Sprintf(
		`<html><body style="font-family:Arial,sans-serif"><h2>%s</h2>%s<p>Blu Rosiere</p></body></html>`,
		html.EscapeString(title), body,
	)
}

func paragraph(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = html.EscapeString(fmt.Sprint(a))
	}
	return "<p>" + fmt.Sprintf(format, escaped...) + "</p>"
}

func confirmationEmail(name, date, clock string) (string, string) {
	subject := "Appointment confirmed"
	return subject, wrapHTML(subject,
		paragraph("Hello %s,", name)+
			paragraph("Your appointment on %s at %s is confirmed.", date, clock))
}

func statusEmail(name, date, clock, status string) (string, string) {
	subject := "Appointment updated"
	return subject, wrapHTML(subject,
		paragraph("Hello %s,", name)+
			paragraph("Your appointment on %s at %s is now %s.", date, clock, status))
}

func cancellationEmail(name, date, clock, reason string) (string, string) {
	subject := "Appointment canceled"
	return subject, wrapHTML(subject,
		paragraph("Hello %s,", name)+
			paragraph("Your appointment on %s at %s was canceled. Reason: %s", date, clock, reason))
}

func reminderEmail(name, date, clock string) (string, string) {
	subject := "Appointment reminder"
	return subject, wrapHTML(subject,
		paragraph("Hello %s,", name)+
			paragraph("This is a reminder of your appointment on %s at %s.", date, clock))
}

func resetEmail(name, link string) (string, string) {
	subject := "Password reset"
	return subject, wrapHTML(subject,
		paragraph("Hello %s,", name)+
			paragraph("Use the link below to choose a new password. It expires in one hour.")+
			fmt.Sprintf(`<p><a href="%s">%s</a></p>`, html.EscapeString(link), html.EscapeString(link)))
}

func requestAcceptedEmail(name, psychologist string) (string, string) {
	subject := "Your request was accepted"
	return subject, wrapHTML(subject,
		paragraph("Hello %s,", name)+
			paragraph("%s accepted your request and will contact you to schedule the first session.", psychologist))
}
