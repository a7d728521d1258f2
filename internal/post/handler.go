package post

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/httputil"
	"github.com/bloghub/bloghub/internal/logging"
	"github.com/bloghub/bloghub/internal/upload"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Handler contains HTTP handlers for post endpoints
type Handler struct {
	posts   *Repository
	uploads *upload.Storage
}

func NewHandler(posts *Repository, uploads *upload.Storage) *Handler {
	return &Handler{posts: posts, uploads: uploads}
}

// PostRequest is the create/update post body
type PostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	PostImage string `json:"postImage"`
}

func (r PostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Content, validation.Required),
	)
}

// CommentRequest is the comment body
type CommentRequest struct {
	Text string `json:"text"`
}

func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, 2000)),
	)
}

// PostResponse wraps a single post
type PostResponse struct {
	Success bool   `json:"success"`
	Post    *Post  `json:"post"`
	Message string `json:"message,omitempty"`
}

// PostListResponse wraps a page of posts
type PostListResponse struct {
	Success bool    `json:"success"`
	Posts   []*Post `json:"posts"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
}

// UploadResponse carries the public URL of an uploaded image
type UploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// UploadImage stores a post image and returns its public URL
// @Summary      Upload post image
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UploadResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /posts/api/post-image-upload [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	url, err := h.uploads.Save(r, "image", "post-images")
	if err != nil {
		if errors.Is(err, upload.ErrNoFile) || errors.Is(err, upload.ErrUnsupportedType) {
			httputil.RespondError(w, "unsupported or missing image file", httputil.CodeUnsupportedFile, http.StatusBadRequest)
			return
		}
		logger.Error("failed to store image", "error", err.Error())
		httputil.RespondError(w, "Unable to upload the image.", httputil.CodeUploadFailed, http.StatusBadRequest)
		return
	}

	httputil.RespondJSON(w, UploadResponse{
		Success:  true,
		Filename: url,
		Message:  "Image uploaded successfully.",
	}, http.StatusOK)
}

// CreatePost publishes a new post by the authenticated account
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PostRequest true "Post fields"
// @Success      201 {object} PostResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /posts/api/create-post [post]
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	info, ok := auth.AccountFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication token", httputil.CodeMissingToken, http.StatusUnauthorized)
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	created, err := h.posts.Create(r.Context(), info.ID, Fields{
		Title:     req.Title,
		Slug:      slug.Make(req.Title),
		Content:   req.Content,
		PostImage: req.PostImage,
	})
	if err != nil {
		logger.Error("failed to create post", "error", err.Error())
		httputil.RespondError(w, "Unable to create the post.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	logger.Info("post created", "post_id", created.ID, "author_id", info.ID)

	httputil.RespondJSON(w, PostResponse{
		Success: true,
		Post:    created,
		Message: "Your post is published.",
	}, http.StatusCreated)
}

// UpdatePost edits a post owned by the authenticated account
// @Summary      Update post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body PostRequest true "Post fields"
// @Success      200 {object} PostResponse
// @Failure      401 {object} httputil.ErrorResponse "Post belongs to another account"
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /posts/api/update-post/{id} [put]
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	info, ok := auth.AccountFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication token", httputil.CodeMissingToken, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "Post not found.", httputil.CodePostNotFound, http.StatusNotFound)
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	existing, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Post not found.", httputil.CodePostNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get post", "error", err.Error())
		httputil.RespondError(w, "Unable to update the post.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	if existing.AuthorID != info.ID {
		httputil.RespondError(w, "Post doesn't belong to you.", httputil.CodeNotPostAuthor, http.StatusUnauthorized)
		return
	}

	updated, err := h.posts.UpdateByAuthor(r.Context(), id, info.ID, Fields{
		Title:     req.Title,
		Slug:      slug.Make(req.Title),
		Content:   req.Content,
		PostImage: req.PostImage,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Post not found.", httputil.CodePostNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update post", "error", err.Error())
		httputil.RespondError(w, "Unable to update the post.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	logger.Info("post updated", "post_id", id)

	httputil.RespondJSON(w, PostResponse{
		Success: true,
		Post:    updated,
		Message: "Post updated successfully.",
	}, http.StatusOK)
}

// LikePost records a like by the authenticated account
// @Summary      Like post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Already liked"
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /posts/api/like-post/{id} [put]
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	info, ok := auth.AccountFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication token", httputil.CodeMissingToken, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "Post not found.", httputil.CodePostNotFound, http.StatusNotFound)
		return
	}

	if _, err := h.posts.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Post not found.", httputil.CodePostNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get post", "error", err.Error())
		httputil.RespondError(w, "Unable to like the post.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	if err := h.posts.Like(r.Context(), id, info.ID); err != nil {
		if errors.Is(err, ErrAlreadyLiked) {
			httputil.RespondError(w, "You already liked this post.", httputil.CodeAlreadyLiked, http.StatusBadRequest)
			return
		}
		logger.Error("failed to like post", "error", err.Error())
		httputil.RespondError(w, "Unable to like the post.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	logger.Info("post liked", "post_id", id, "account_id", info.ID)

	httputil.RespondMessage(w, "You liked this post.", http.StatusOK)
}

// CommentPost attaches a comment by the authenticated account
// @Summary      Comment on post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body CommentRequest true "Comment text"
// @Success      201 {object} httputil.MessageResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /posts/api/comment-post/{id} [post]
func (h *Handler) CommentPost(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	info, ok := auth.AccountFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication token", httputil.CodeMissingToken, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "Post not found.", httputil.CodePostNotFound, http.StatusNotFound)
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	if _, err := h.posts.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Post not found.", httputil.CodePostNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get post", "error", err.Error())
		httputil.RespondError(w, "Unable to comment on the post.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	if _, err := h.posts.AddComment(r.Context(), id, info.ID, req.Text); err != nil {
		logger.Error("failed to add comment", "error", err.Error())
		httputil.RespondError(w, "Unable to comment on the post.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	logger.Info("comment added", "post_id", id, "account_id", info.ID)

	httputil.RespondMessage(w, "Your comment is published.", http.StatusCreated)
}

// ListPosts returns a page of posts, newest first
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        page query int false "Page number (1-based)"
// @Param        limit query int false "Page size"
// @Success      200 {object} PostListResponse
// @Router       /posts/api/get-posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	posts, total, err := h.posts.List(r.Context(), page, limit)
	if err != nil {
		logger.Error("failed to list posts", "error", err.Error())
		httputil.RespondError(w, "Unable to get the posts.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	httputil.RespondJSON(w, PostListResponse{
		Success: true,
		Posts:   posts,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, http.StatusOK)
}

// GetPost returns a single post by slug, with author and comments
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200 {object} PostResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /posts/api/get-post/{slug} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	p, err := h.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondError(w, "Post not found.", httputil.CodePostNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get post", "error", err.Error())
		httputil.RespondError(w, "Unable to get the post.", httputil.CodeInternalError, http.StatusBadRequest)
		return
	}

	httputil.RespondJSON(w, PostResponse{Success: true, Post: p}, http.StatusOK)
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
