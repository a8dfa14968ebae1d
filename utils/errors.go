package utils

import (
	"Comodin/services/filters"
	"Comodin/services/jokers"
	"Comodin/services/poker"
	"Comodin/services/runs"
	"Comodin/services/shop"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError is what a client is allowed to see of an error. Err keeps the
// original for the logs.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap keeps the code and message of e for err
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err}
}

var (
	ErrNotFound     = NewError(http.StatusNotFound, "resource not found")
	ErrBadRequest   = NewError(http.StatusBadRequest, "invalid request")
	ErrUnauthorized = NewError(http.StatusUnauthorized, "unauthorized")
	ErrConflict     = NewError(http.StatusConflict, "operation not allowed in current state")
	ErrInternal     = NewError(http.StatusInternalServerError, "internal error")
)

var notFound = []error{
	jokers.ErrUnknownJoker,
	jokers.ErrNoSuchSlot,
	filters.ErrUnknownFilter,
	tags.ErrTagNotFound,
	vouchers.ErrVoucherNotFound,
	shop.ErrItemNotFound,
	runs.ErrRunNotFound,
}

var invalid = []error{
	poker.ErrBadCard,
	filters.ErrInvalidFilter,
	vouchers.ErrInvalidEffect,
	vouchers.ErrInvalidDefinition,
	tags.ErrInvalidDefinition,
	tags.ErrInvalidContext,
	runs.ErrInvalidHand,
	runs.ErrInvalidUpdate,
	runs.ErrEmptyPassphrase,
}

var conflicts = []error{
	jokers.ErrInvalidState,
	jokers.ErrSlotsFull,
	vouchers.ErrInvalidState,
	vouchers.ErrNotPurchasable,
	vouchers.ErrDuplicate,
	tags.ErrDuplicate,
	shop.ErrCannotAfford,
	runs.ErrStaleVersion,
	runs.ErrNoHandsLeft,
	runs.ErrNoDiscardsLeft,
	runs.ErrShopClosed,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Sanitize maps a domain error to a generic message. Nothing of the
// original error reaches the client.
func Sanitize(err error) *AppError {
	var app *AppError
	if errors.As(err, &app) {
		return app
	}
	switch {
	case errors.Is(err, runs.ErrBadPassphrase):
		return ErrUnauthorized.Wrap(err)
	case isAny(err, notFound):
		return ErrNotFound.Wrap(err)
	case isAny(err, invalid):
		return ErrBadRequest.Wrap(err)
	case isAny(err, conflicts):
		return ErrConflict.Wrap(err)
	}
	return ErrInternal.Wrap(err)
}

// ErrorHandler renders the last error a handler attached with c.Error
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		app := Sanitize(err)
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(app.Code, gin.H{"error": app.Message})
	}
}
