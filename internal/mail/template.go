// AngelaMos | 2026
// template.go

package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var actionTemplate = template.Must(
	template.ParseFS(templateFS, "templates/action.html"),
)

type Kind string

const (
	KindVerify Kind = "VERIFY"
	KindReset  Kind = "RESET"
)

type actionView struct {
	Title     string
	Heading   string
	Username  string
	Intro     string
	Action    string
	Link      string
	ExpiresIn string
	Year      int
}

func (k Kind) path() string {
	if k == KindReset {
		return "resetpassword"
	}
	return "verifyemail"
}

func (k Kind) subject() string {
	if k == KindReset {
		return "Reset your password"
	}
	return "Verify your email"
}

func (k Kind) view() actionView {
	if k == KindReset {
		return actionView{
			Title:   "Password Reset",
			Heading: "Reset Your Password",
			Intro:   "We received a request to reset your password. Use the button below to choose a new one.",
			Action:  "Reset Password",
		}
	}
	return actionView{
		Title:   "Email Verification",
		Heading: "Welcome to Ploteasy!",
		Intro:   "Thanks for signing up! Please verify your email to start listing properties.",
		Action:  "Verify Email",
	}
}

func render(kind Kind, link string, ttl time.Duration, now time.Time) (string, error) {
	v := kind.view()
	v.Username = "User"
	v.Link = link
	v.ExpiresIn = humanizeTTL(ttl)
	v.Year = now.Year()

	var buf bytes.Buffer
	if err := actionTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render %s email: %w", kind, err)
	}
	return buf.String(), nil
}

func humanizeTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	default:
		return d.String()
	}
}
