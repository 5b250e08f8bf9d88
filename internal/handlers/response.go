package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"

  apperrors "github.com/coursebridge/coursebridge-backend/internal/pkg/errors"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

// RespondServiceError maps the service error taxonomy onto HTTP status
// codes.
func RespondServiceError(c *gin.Context, code string, err error) {
  switch {
  case errors.Is(err, apperrors.ErrNotFound):
    RespondError(c, http.StatusNotFound, code, err)
  case errors.Is(err, apperrors.ErrInvalidArgument):
    RespondError(c, http.StatusBadRequest, code, err)
  default:
    RespondError(c, http.StatusInternalServerError, code, err)
  }
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}
