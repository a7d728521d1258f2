package httputil

// Machine-readable error codes carried alongside user-facing messages.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"

	CodeDuplicateUsername = "DUPLICATE_USERNAME"
	CodeDuplicateEmail    = "DUPLICATE_EMAIL"

	CodeUsernameNotFound  = "USERNAME_NOT_FOUND"
	CodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	CodeIncorrectPassword = "INCORRECT_PASSWORD"

	CodeInvalidVerificationCode = "INVALID_VERIFICATION_CODE"
	CodeInvalidResetToken       = "INVALID_RESET_TOKEN"

	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeInvalidAuthHeader = "INVALID_AUTH_HEADER"

	CodeProfileNotFound = "PROFILE_NOT_FOUND"
	CodeProfileExists   = "PROFILE_EXISTS"

	CodePostNotFound  = "POST_NOT_FOUND"
	CodeNotPostAuthor = "NOT_POST_AUTHOR"
	CodeAlreadyLiked  = "ALREADY_LIKED"

	CodeUploadFailed    = "UPLOAD_FAILED"
	CodeUnsupportedFile = "UNSUPPORTED_FILE"
)
