package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"typist/internal/app"
	"typist/internal/transport/http/response"
)

var errMalformedJSON = errors.New("request body must be a JSON object")

type ScoreHandler struct {
	scoreService *app.ScoreService
}

func NewScoreHandler(scoreService *app.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// Create records one typing attempt and echoes the submitted payload back
// as plain text.
func (h *ScoreHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read request body failed")
		return
	}

	input, err := parseScoreInput(body)
	if errors.Is(err, errMalformedJSON) {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(c, err, "record score failed")
		return
	}

	if _, err := h.scoreService.Record(c.Request.Context(), input); err != nil {
		writeError(c, err, "record score failed")
		return
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		compact.Reset()
		compact.Write(body)
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", append([]byte("success post "), compact.Bytes()...))
}

// parseScoreInput reads the four required score fields from a JSON object.
// Field errors wrap app.ErrValidation.
func parseScoreInput(body []byte) (app.ScoreInput, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return app.ScoreInput{}, errMalformedJSON
	}

	var input app.ScoreInput
	targets := []struct {
		name string
		dst  *int
	}{
		{"time", &input.Time},
		{"wpm", &input.WPM},
		{"excerpts_id", &input.ExcerptID},
		{"error_count", &input.ErrorCount},
	}
	for _, t := range targets {
		raw, ok := fields[t.name]
		if !ok {
			return app.ScoreInput{}, fmt.Errorf("%w: field %q is required", app.ErrValidation, t.name)
		}
		value, err := coerceInt(raw)
		if err != nil {
			return app.ScoreInput{}, fmt.Errorf("%w: field %q %v", app.ErrValidation, t.name, err)
		}
		*t.dst = value
	}
	return input, nil
}

// coerceInt accepts JSON numbers (fractions truncate toward zero) and strings
// holding a base-10 integer.
func coerceInt(raw json.RawMessage) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, errors.New("is empty")
	}

	switch first := trimmed[0]; {
	case first == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, errors.New("is not a valid string")
		}
		value, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("must be an integer, got %q", s)
		}
		return value, nil
	case first == '-' || (first >= '0' && first <= '9'):
		number := json.Number(trimmed)
		if value, err := number.Int64(); err == nil && value >= math.MinInt && value <= math.MaxInt {
			return int(value), nil
		}
		f, err := number.Float64()
		if err != nil || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, errors.New("is out of range")
		}
		return int(math.Trunc(f)), nil
	default:
		return 0, errors.New("must be a number or numeric string")
	}
}
