package portfolio

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, errorResponse{Error: msg})
}

func (a *App) handleTest(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "API is working!"})
}

// --- Blog ---

func (a *App) handleListBlogs(c echo.Context) error {
	summaries, err := a.Store.ListPosts()
	if err != nil {
		c.Logger().Errorf("list blogs: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to fetch blogs")
	}
	return c.JSON(http.StatusOK, summaries)
}

func (a *App) handleGetBlog(c echo.Context) error {
	post, err := a.Store.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "Blog post not found")
		}
		c.Logger().Errorf("get blog: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to fetch blog post")
	}
	return c.JSON(http.StatusOK, post)
}

type createBlogRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

// maxDescriptionLen bounds the list-view summary text.
const maxDescriptionLen = 200

func (a *App) handleCreateBlog(c echo.Context) error {
	var req createBlogRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.Content == "" || req.Date == "" || req.Description == "" || req.Slug == "" {
		return jsonError(c, http.StatusBadRequest, "Missing required fields")
	}
	if len(req.Description) > maxDescriptionLen {
		return jsonError(c, http.StatusBadRequest, "Description must be 200 characters or fewer")
	}
	post, err := a.Store.CreatePost(BlogPost{
		Slug:        req.Slug,
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrExists):
			return jsonError(c, http.StatusConflict, "A blog post with this slug already exists")
		case errors.Is(err, ErrInvalidSlug):
			return jsonError(c, http.StatusBadRequest, "Slug must contain only lowercase letters, digits and hyphens")
		}
		c.Logger().Errorf("create blog: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to create blog post")
	}
	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Blog post created successfully",
		"slug":    post.Slug,
	})
}

// --- Contact ---

type contactRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (a *App) handleContact(c echo.Context) error {
	if !a.contactLimiter.Allow(c.RealIP()) {
		return jsonError(c, http.StatusTooManyRequests, "Too many messages. Try again later.")
	}
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || strings.TrimSpace(req.Message) == "" {
		return jsonError(c, http.StatusBadRequest, "Please include both email and message")
	}
	if !ValidEmail(req.Email) {
		return jsonError(c, http.StatusBadRequest, "Please provide a valid email address")
	}
	subject := "Portfolio Contact from " + req.Email
	if err := a.Mailer.Send(a.Config.ContactTo, subject, req.Email, req.Message); err != nil {
		c.Logger().Errorf("send contact mail: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to send email")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// --- Chat ---

type chatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

// streamEvent is one server-sent frame of the chat response. Exactly one of
// the fields is set per frame; done and error frames are terminal.
type streamEvent struct {
	Text  string `json:"text,omitempty"`
	Done  bool   `json:"done,omitempty"`
	Error string `json:"error,omitempty"`
}

func writeEvent(c echo.Context, ev streamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := c.Response().Write([]byte("data: " + string(data) + "\n\n")); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}

func (a *App) handleChat(c echo.Context) error {
	if !a.chatLimiter.Allow(c.RealIP()) {
		return jsonError(c, http.StatusTooManyRequests, "Too many chat requests. Try again later.")
	}
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return jsonError(c, http.StatusBadRequest, "Message is required")
	}

	// The upstream call inherits the request context, so a client disconnect
	// aborts the in-flight generation instead of letting it run to completion.
	stream, err := a.Chat.Open(c.Request().Context(), req.Message, req.History)
	if err != nil {
		c.Logger().Errorf("open chat stream: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to generate content")
	}
	defer stream.Close()
	stream.Logger = c.Logger()

	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	for {
		text, err := stream.Next()
		if err == io.EOF {
			return writeEvent(c, streamEvent{Done: true})
		}
		if err != nil {
			// Headers are out; the failure has to travel in-band.
			c.Logger().Errorf("chat stream: %v", err)
			return writeEvent(c, streamEvent{Error: "Error generating your response"})
		}
		if err := writeEvent(c, streamEvent{Text: text}); err != nil {
			// Client went away. The deferred Close drops the upstream call.
			return nil
		}
	}
}
