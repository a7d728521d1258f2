package post

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostRequest_Validate(t *testing.T) {
	valid := PostRequest{Title: "A day in the life", Content: "Some content."}
	assert.NoError(t, valid.Validate())

	missingTitle := PostRequest{Content: "Some content."}
	assert.Error(t, missingTitle.Validate())

	missingContent := PostRequest{Title: "A day in the life"}
	assert.Error(t, missingContent.Validate())
}

func TestCommentRequest_Validate(t *testing.T) {
	assert.NoError(t, CommentRequest{Text: "Nice post."}.Validate())
	assert.Error(t, CommentRequest{}.Validate())
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/posts/api/get-posts?page=3&limit=abc", nil)

	assert.Equal(t, 3, queryInt(req, "page", 1))
	assert.Equal(t, 10, queryInt(req, "limit", 10))
	assert.Equal(t, 1, queryInt(req, "missing", 1))
}
