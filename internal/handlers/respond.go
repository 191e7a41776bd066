package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/services"
	log "github.com/sirupsen/logrus"
)

const userKey = "user"

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func statusOf(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes err with the status its kind maps to. Untyped errors are 500s
// carrying the raw message.
func fail(c *gin.Context, err error) {
	status := statusOf(services.KindOf(err))
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	_ = c.Error(err)
	message(c, status, err.Error())
}

// badInput reports a body that failed binding.
func badInput(c *gin.Context, err error) {
	message(c, http.StatusBadRequest, err.Error())
}

// bindOptional binds a JSON body the client may leave out entirely.
func bindOptional(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// idParam reads a numeric path parameter. Anything unparsable becomes 0,
// which matches no record.
func idParam(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func refID(r models.RefID) uint {
	id, err := strconv.ParseUint(string(r), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}
