package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerificationMessage(t *testing.T) {
	msg := VerificationMessage("frank@example.com", "frank", "http://localhost:8080/users/verify-now/abc123")

	assert.Equal(t, "frank@example.com", msg.To)
	assert.Equal(t, "Verify Account", msg.Subject)
	assert.Contains(t, msg.Text, "http://localhost:8080/users/verify-now/abc123")
	assert.Contains(t, msg.HTML, "Hello, frank")
	assert.Contains(t, msg.HTML, `href="http://localhost:8080/users/verify-now/abc123"`)
	assert.Contains(t, msg.HTML, "Verify Now")
}

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("frank@example.com", "frank", "http://localhost:8080/users/reset-password-now/abc123")

	assert.Equal(t, "Reset Password", msg.Subject)
	assert.Contains(t, msg.HTML, `href="http://localhost:8080/users/reset-password-now/abc123"`)
	assert.Contains(t, msg.HTML, "you can ignore this email")
}

func TestPasswordChangedMessage(t *testing.T) {
	msg := PasswordChangedMessage("frank@example.com", "frank")

	assert.Equal(t, "Reset Password Successful", msg.Subject)
	assert.Contains(t, msg.HTML, "Hello, frank")
	assert.Contains(t, msg.HTML, "reset successfully")
}

func TestMessageHTMLEscaping(t *testing.T) {
	msg := VerificationMessage("x@example.com", "<script>alert(1)</script>", "http://localhost:8080/verify")

	assert.NotContains(t, msg.HTML, "<script>")
}
