package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`
<h1>Hello, {{.Username}}</h1>
<p>Please click the following link to verify your account.</p>
<a href="{{.Link}}">Verify Now</a>
`))

var passwordResetTmpl = template.Must(template.New("passwordReset").Parse(`
<h1>Hello, {{.Username}}</h1>
<p>Please click the following link to reset your password.</p>
<p>If this password reset request was not created by you, you can ignore this email.</p>
<a href="{{.Link}}">Reset Password</a>
`))

var passwordChangedTmpl = template.Must(template.New("passwordChanged").Parse(`
<h1>Hello, {{.Username}}</h1>
<p>Your password was reset successfully.</p>
<p>If this reset was not done by you, please contact our team.</p>
`))

type linkData struct {
	Username string
	Link     string
}

// VerificationMessage builds the account-verification email. The link embeds
// the opaque verification code.
func VerificationMessage(to, username, link string) Message {
	return Message{
		To:      to,
		Subject: "Verify Account",
		Text:    "Please verify your account: " + link,
		HTML:    render(verificationTmpl, linkData{Username: username, Link: link}),
	}
}

// PasswordResetMessage builds the reset-link email.
func PasswordResetMessage(to, username, link string) Message {
	return Message{
		To:      to,
		Subject: "Reset Password",
		Text:    "Please reset your password: " + link,
		HTML:    render(passwordResetTmpl, linkData{Username: username, Link: link}),
	}
}

// PasswordChangedMessage builds the confirmation sent after a completed reset.
func PasswordChangedMessage(to, username string) Message {
	return Message{
		To:      to,
		Subject: "Reset Password Successful",
		Text:    "Your password was changed.",
		HTML:    render(passwordChangedTmpl, linkData{Username: username}),
	}
}

func render(tmpl *template.Template, data linkData) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Templates are parsed at init and data is a fixed struct; an execute
		// failure here would be a programming error.
		return fmt.Sprintf("<p>%s</p>", data.Link)
	}
	return buf.String()
}
