package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/resthub/internal/domain/users"
	"github.com/GriffinCanCode/resthub/internal/shared/errs"
)

// User endpoint replies
const (
	MsgInvalidUserID = "Invalid user id"
	MsgInvalidBody   = "Invalid request body"
)

// ListUsers returns every user
func (h *Handlers) ListUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		h.failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUser returns one user
func (h *Handlers) GetUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// CreateUser stores the posted user and returns it with its new id
func (h *Handlers) CreateUser(c *gin.Context) {
	in, ok := h.userBody(c)
	if !ok {
		return
	}

	u, err := h.users.Create(c.Request.Context(), in)
	if err != nil {
		h.failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateUser overwrites name and email of an existing user
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	in, ok := h.userBody(c)
	if !ok {
		return
	}

	u, err := h.users.Update(c.Request.Context(), id, in)
	if err != nil {
		h.failJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser removes a user. Success has an empty body.
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.failJSON(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handlers) userID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.failJSON(c, errs.Invalid("http.user_id", MsgInvalidUserID, err))
		return 0, false
	}
	return id, true
}

func (h *Handlers) userBody(c *gin.Context) (users.User, bool) {
	var in users.User
	if err := c.ShouldBindJSON(&in); err != nil {
		h.failJSON(c, errs.Invalid("http.user_body", MsgInvalidBody, err))
		return users.User{}, false
	}
	return in, true
}
