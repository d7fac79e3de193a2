package httpHandler

import (
	"net/http"

	"vitals-server/middleware"
	"vitals-server/usecases"
	"vitals-server/validation"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type ReadingHandler struct {
	useCase *usecases.ReadingUseCase
}

func NewReadingHandler(useCase *usecases.ReadingUseCase) *ReadingHandler {
	return &ReadingHandler{
		useCase: useCase,
	}
}

// AddReading handles POST /api/readings/add
func (h *ReadingHandler) AddReading(c *gin.Context) {
	payload, errs, err := validation.DecodeReading(c.Request.Body)
	if err != nil {
		malformedBody(c, err)
		return
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	reading, err := h.useCase.AddReading(c.Request.Context(), payload)
	if errors.Is(err, usecases.ErrUserIDRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, reading)
}

// ListReadings handles GET /api/readings/all?userId=
func (h *ReadingHandler) ListReadings(c *gin.Context) {
	readings, err := h.useCase.ListReadings(c.Request.Context(), c.Query("userId"))
	if errors.Is(err, usecases.ErrUserIDRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, readings)
}

// Summary handles GET /api/readings/summary?userId=
func (h *ReadingHandler) Summary(c *gin.Context) {
	summary, err := h.useCase.Summary(c.Request.Context(), c.Query("userId"))
	if errors.Is(err, usecases.ErrUserIDRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetReading handles GET /api/readings/:id?userId=
func (h *ReadingHandler) GetReading(c *gin.Context) {
	id := c.Param("id")
	if fe := validation.ValidateID(id); fe != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.Errors{*fe}})
		return
	}

	reading, err := h.useCase.GetReading(c.Request.Context(), id, c.Query("userId"))
	if errors.Is(err, usecases.ErrReadingNotFound) {
		readingNotFound(c)
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reading)
}

// UpdateReading handles PUT /api/readings/:id
func (h *ReadingHandler) UpdateReading(c *gin.Context) {
	id := c.Param("id")

	payload, bodyErrs, err := validation.DecodeReading(c.Request.Body)
	if err != nil {
		malformedBody(c, err)
		return
	}

	var errs validation.Errors
	if fe := validation.ValidateID(id); fe != nil {
		errs = append(errs, *fe)
	}
	errs = append(errs, bodyErrs...)
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	reading, err := h.useCase.UpdateReading(c.Request.Context(), id, payload)
	if errors.Is(err, usecases.ErrReadingNotFound) {
		readingNotFound(c)
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reading)
}

// DeleteReading handles DELETE /api/readings/:id?userId=
func (h *ReadingHandler) DeleteReading(c *gin.Context) {
	id := c.Param("id")
	if fe := validation.ValidateID(id); fe != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.Errors{*fe}})
		return
	}

	err := h.useCase.DeleteReading(c.Request.Context(), id, c.Query("userId"))
	if errors.Is(err, usecases.ErrReadingNotFound) {
		readingNotFound(c)
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func readingNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Reading not found"})
}

// malformedBody hands a body that is not JSON to the error envelope.
func malformedBody(c *gin.Context, err error) {
	_ = c.Error(middleware.NewHTTPError(http.StatusBadRequest, "Malformed JSON body: "+err.Error()))
}
